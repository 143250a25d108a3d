package vcs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeffrom/agilog/commit"
	"github.com/jeffrom/agilog/model"
)

type Mock struct {
	t   time.Time
	log string
}

func NewMock() *Mock {
	return &Mock{
		t: time.Date(2017, time.March, 14, 15, 9, 26, 0, time.FixedZone("", 13*60*60)),
	}
}

// SetLog sets the raw log text returned by ReadLog.
func (m *Mock) SetLog(log string) *Mock {
	m.log = log
	return m
}

// SetCommits renders commits the way git log does. Commits without a date
// are dated a minute before the previous one.
func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	var b strings.Builder
	for _, c := range commits {
		date := c.Date
		if date.IsZero() {
			date = m.t
			m.t = m.t.Add(-time.Minute)
		}
		writeCommit(&b, c, date)
	}
	m.log = b.String()
	return m
}

func (m *Mock) ReadLog(ctx context.Context, revRange string) (string, error) {
	return m.log, nil
}

func writeCommit(b *strings.Builder, c *model.Commit, date time.Time) {
	fmt.Fprintf(b, "commit %s\n", c.ID)
	fmt.Fprintf(b, "Author: %s <%s>\n", c.Author, c.AuthorEmail)
	fmt.Fprintf(b, "Date:   %s\n\n", date.Format(commit.DateLayout))
	for _, line := range strings.Split(c.Description, "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
	b.WriteString("\n")
}
