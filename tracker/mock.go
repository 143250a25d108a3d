package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffrom/agilog/model"
)

// Mock is an in-memory tracker. Submitted entries are added to the task's
// entries so later runs see them.
type Mock struct {
	iteration *model.Iteration
	entries   map[int][]*model.HourEntry
	submitted []*model.EffortEntry
	failures  map[string]int
	nextID    int
	authed    bool
	Calls     []string
}

func NewMock() *Mock {
	return &Mock{
		entries:  make(map[int][]*model.HourEntry),
		failures: make(map[string]int),
		nextID:   1,
	}
}

func (m *Mock) SetIteration(it *model.Iteration) *Mock {
	m.iteration = it
	return m
}

func (m *Mock) SetEntries(taskID int, entries ...*model.HourEntry) *Mock {
	m.entries[taskID] = entries
	return m
}

// FailOn makes the next n calls to op fail. n < 0 fails every call.
func (m *Mock) FailOn(op string, n int) *Mock {
	m.failures[op] = n
	return m
}

// Submitted returns the entries submitted so far, in order.
func (m *Mock) Submitted() []*model.EffortEntry {
	return m.submitted
}

func (m *Mock) Authenticated() bool { return m.authed }

func (m *Mock) call(ctx context.Context, op string) error {
	m.Calls = append(m.Calls, op)
	if err := ctx.Err(); err != nil {
		return ServiceUnavailableError{Op: op, Err: err}
	}
	n := m.failures[op]
	if n == 0 {
		return nil
	}
	if n > 0 {
		m.failures[op] = n - 1
	}
	return ServiceUnavailableError{Op: op, Err: errors.New("mock failure")}
}

func (m *Mock) Authenticate(ctx context.Context, username, password string) error {
	if err := m.call(ctx, OpAuthenticate); err != nil {
		return err
	}
	m.authed = true
	return nil
}

func (m *Mock) Deauthenticate(ctx context.Context) error {
	if err := m.call(ctx, OpDeauthenticate); err != nil {
		return err
	}
	m.authed = false
	return nil
}

func (m *Mock) FetchIteration(ctx context.Context, id int) (*model.Iteration, error) {
	if err := m.call(ctx, OpFetchIteration); err != nil {
		return nil, err
	}
	if m.iteration == nil || (m.iteration.ID != 0 && m.iteration.ID != id) {
		return nil, ServiceUnavailableError{Op: OpFetchIteration, Err: fmt.Errorf("no iteration %d", id)}
	}
	return m.iteration, nil
}

func (m *Mock) FetchEntries(ctx context.Context, taskID int) ([]*model.HourEntry, error) {
	if err := m.call(ctx, OpFetchEntries); err != nil {
		return nil, err
	}
	return m.entries[taskID], nil
}

func (m *Mock) SubmitEntry(ctx context.Context, entry *model.EffortEntry) error {
	if err := m.call(ctx, OpSubmitEntry); err != nil {
		return err
	}
	e := *entry
	m.submitted = append(m.submitted, &e)
	m.entries[e.TaskID] = append(m.entries[e.TaskID], &model.HourEntry{
		ID:           m.nextID,
		Description:  e.Description,
		MinutesSpent: e.MinutesSpent,
		Date:         e.Date,
	})
	m.nextID++
	return nil
}
