package runner

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeffrom/agilog/model"
)

type Status int

const (
	_ Status = iota

	StatusSubmitted
	StatusDryrun
	StatusDuplicate
	StatusParseError
	StatusInvalid
	StatusUnavailable
)

var allStatuses = []Status{
	StatusSubmitted,
	StatusDryrun,
	StatusDuplicate,
	StatusParseError,
	StatusInvalid,
	StatusUnavailable,
}

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusDryrun:
		return "would_submit"
	case StatusDuplicate:
		return "duplicate"
	case StatusParseError:
		return "parse_error"
	case StatusInvalid:
		return "invalid"
	case StatusUnavailable:
		return "submit_failed"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

// Failed reports whether the status means the commit's effort should have
// been logged but wasn't.
func (s Status) Failed() bool {
	switch s {
	case StatusParseError, StatusInvalid, StatusUnavailable:
		return true
	}
	return false
}

// Outcome is the result of processing one commit. Entry is set once an
// entry could be built, and Err is set for every status but submitted and
// would_submit.
type Outcome struct {
	Index       int
	Commit      string
	ShortID     string
	Description string
	Status      Status
	Entry       *model.EffortEntry
	Err         error
}

func (o *Outcome) Label() string {
	if o.ShortID != "" {
		return o.ShortID
	}
	return fmt.Sprintf("#%d", o.Index+1)
}

// Report collects the outcome of every commit in a run, in log order.
type Report struct {
	RunID       string
	IterationID int
	Outcomes    []*Outcome
}

func (r *Report) Add(o *Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status.Failed() {
			n++
		}
	}
	return n
}

// Err returns a Failure if any commit failed.
func (r *Report) Err() error {
	if n := r.Failed(); n > 0 {
		return Failure{Failed: n, Total: len(r.Outcomes)}
	}
	return nil
}

func (r *Report) byStatus(s Status) []*Outcome {
	var res []*Outcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			res = append(res, o)
		}
	}
	return res
}

func (r *Report) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(fmt.Sprintf("%d commits, %d failed (run %s, iteration %d)\n\n", len(r.Outcomes), r.Failed(), r.RunID, r.IterationID))

	for _, status := range allStatuses {
		outcomes := r.byStatus(status)
		if len(outcomes) == 0 {
			continue
		}
		bw.WriteString(fmt.Sprintf("%s:\n", toTitle(status.String())))
		for _, o := range outcomes {
			bw.WriteString(fmt.Sprintf("  %-10s\t%s\n", o.Label(), o.detail()))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func (o *Outcome) detail() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if o.Entry != nil {
		return fmt.Sprintf("%d mins on task %d: %s", o.Entry.MinutesSpent, o.Entry.TaskID, truncate(o.Description, 60))
	}
	return truncate(o.Description, 60)
}

// Failure is returned by Report.Err.
type Failure struct {
	Failed int
	Total  int
}

func (f Failure) Error() string {
	return fmt.Sprintf("%d of %d commit(s) failed", f.Failed, f.Total)
}

func (f Failure) Is(other error) bool {
	_, ok := other.(Failure)
	return ok
}

var nonAlphaRE = regexp.MustCompile(`[^A-Za-z]`)

func toTitle(s string) string {
	s = nonAlphaRE.ReplaceAllLiteralString(s, " ")
	return cases.Title(language.English).String(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
