// Package model contains abstract data models.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Commit is a single revision read from a git log.
type Commit struct {
	ID          string    `json:"commit"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Tags        Tags      `json:"tags"`
}

// Tags are the markers found in a commit description. Story and Minutes are
// nil when the description doesn't mention them.
type Tags struct {
	Story   *int   `json:"story,omitempty"`
	Task    string `json:"task,omitempty"`
	Minutes *int   `json:"minutes,omitempty"`
	// Commits is the shorthash written into submitted entries.
	Commits string `json:"commits"`
}

func (t Tags) StoryID() (int, bool) {
	if t.Story == nil {
		return 0, false
	}
	return *t.Story, true
}

func (t Tags) MinutesSpent() (int, bool) {
	if t.Minutes == nil {
		return 0, false
	}
	return *t.Minutes, true
}

// DefaultShortHashLength is the length of the #commits[...] marker.
const DefaultShortHashLength = 7

// ShortID returns the commit's marker hash, or the first
// DefaultShortHashLength characters of its id if tags weren't extracted.
func (c *Commit) ShortID() string {
	if c.Tags.Commits != "" {
		return c.Tags.Commits
	}
	if len(c.ID) < DefaultShortHashLength {
		return c.ID
	}
	return c.ID[:DefaultShortHashLength]
}

func (c *Commit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Commit %s by %s <%s>\n", c.ID, c.Author, c.AuthorEmail)
	fmt.Fprintf(&b, "%s\n", c.Date)
	fmt.Fprintf(&b, "%s\n", c.Description)
	fmt.Fprintf(&b, "Tags: %s\n", c.Tags)

	if mins, ok := c.Tags.MinutesSpent(); ok {
		fmt.Fprintf(&b, "Time spent: %d mins", mins)
	} else {
		b.WriteString("Time spent: unspecified")
	}
	return b.String()
}

func (t Tags) String() string {
	parts := make([]string, 0, 3)
	if story, ok := t.StoryID(); ok {
		parts = append(parts, fmt.Sprintf("story=%d", story))
	}
	if t.Task != "" {
		parts = append(parts, "task="+t.Task)
	}
	parts = append(parts, "commits="+t.Commits)
	return "{" + strings.Join(parts, " ") + "}"
}
