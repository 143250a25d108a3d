// Package effort builds effort entries out of commits and checks whether a
// commit has already been logged.
package effort

import (
	"fmt"

	"github.com/jeffrom/agilog/model"
)

// ValidationKind is the reason an entry couldn't be built.
type ValidationKind int

const (
	_ ValidationKind = iota

	MissingStoryTask
	NoMatchingTask
	NoTimeProvided
	MissingDate
	MissingMinutes
	MissingDescription
	MissingUser
)

func (k ValidationKind) String() string {
	switch k {
	case MissingStoryTask:
		return "missing story or task"
	case NoMatchingTask:
		return "no matching task"
	case NoTimeProvided:
		return "no time provided"
	case MissingDate:
		return "missing date"
	case MissingMinutes:
		return "missing minutes"
	case MissingDescription:
		return "missing description"
	case MissingUser:
		return "missing user"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

// ValidationError is returned by Build when a commit can't be turned into
// an entry.
type ValidationError struct {
	Kind   ValidationKind
	Commit string
}

func (e ValidationError) Error() string {
	if e.Commit == "" {
		return "effort: " + e.Kind.String()
	}
	return fmt.Sprintf("effort: commit %s: %s", e.Commit, e.Kind)
}

// Is matches another ValidationError of the same kind. A target without a
// kind matches any ValidationError.
func (e ValidationError) Is(other error) bool {
	ve, ok := other.(ValidationError)
	if !ok {
		return false
	}
	return ve.Kind == 0 || ve.Kind == e.Kind
}

// DuplicateError is returned when a commit has already been logged against
// a task.
type DuplicateError struct {
	Commit string
	TaskID int
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("effort: commit %s already logged for task %d", e.Commit, e.TaskID)
}

func (e DuplicateError) Is(other error) bool {
	_, ok := other.(DuplicateError)
	return ok
}

// MissingDataResolver supplies values a commit didn't mention. Either
// method can decline by returning false.
type MissingDataResolver interface {
	ResolveStoryAndTask(c *model.Commit) (storyID int, taskCode string, ok bool)
	ResolveMinutes(c *model.Commit) (int, bool)
}

// Decline is a MissingDataResolver that never supplies anything.
type Decline struct{}

func (Decline) ResolveStoryAndTask(c *model.Commit) (int, string, bool) { return 0, "", false }

func (Decline) ResolveMinutes(c *model.Commit) (int, bool) { return 0, false }
