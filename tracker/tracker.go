// Package tracker abstracts the project tracking service effort is logged
// to. Currently just Agilefant.
package tracker

import (
	"context"
	"fmt"

	"github.com/jeffrom/agilog/model"
)

// Operations reported in ServiceUnavailableError.
const (
	OpAuthenticate   = "authenticate"
	OpDeauthenticate = "deauthenticate"
	OpFetchIteration = "fetch iteration"
	OpFetchEntries   = "fetch entries"
	OpSubmitEntry    = "submit entry"
)

// ServiceUnavailableError is returned when the tracker can't be reached or
// returns something unexpected.
type ServiceUnavailableError struct {
	Op  string
	Err error
}

func (e ServiceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tracker: %s: service unavailable", e.Op)
	}
	return fmt.Sprintf("tracker: %s: %v", e.Op, e.Err)
}

func (e ServiceUnavailableError) Unwrap() error { return e.Err }

func (e ServiceUnavailableError) Is(other error) bool {
	_, ok := other.(ServiceUnavailableError)
	return ok
}

// Interface is a session with a tracker. Session state, such as cookies,
// belongs to the implementation.
type Interface interface {
	Authenticate(ctx context.Context, username, password string) error
	Deauthenticate(ctx context.Context) error
	FetchIteration(ctx context.Context, id int) (*model.Iteration, error)
	FetchEntries(ctx context.Context, taskID int) ([]*model.HourEntry, error)
	SubmitEntry(ctx context.Context, entry *model.EffortEntry) error
}
