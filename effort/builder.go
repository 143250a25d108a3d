package effort

import (
	"github.com/jeffrom/agilog/commit"
	"github.com/jeffrom/agilog/model"
)

// TaskLookup finds a task by story id and task code in an iteration.
type TaskLookup func(it *model.Iteration, storyID int, taskCode string) (int, bool)

// FindTaskID returns the id of the first task in the story whose name
// starts with taskCode followed by a colon.
func FindTaskID(it *model.Iteration, storyID int, taskCode string) (int, bool) {
	story, ok := it.Story(storyID)
	if !ok {
		return 0, false
	}
	for _, task := range story.Tasks {
		if code, ok := commit.TaskCode(task.Name); ok && code == taskCode {
			return task.ID, true
		}
	}
	return 0, false
}

// Builder turns commits into effort entries for a single user and
// iteration.
type Builder struct {
	Iteration *model.Iteration
	UserID    int
	Resolver  MissingDataResolver
	Lookup    TaskLookup
}

func NewBuilder(it *model.Iteration, userID int, resolver MissingDataResolver) *Builder {
	if resolver == nil {
		resolver = Decline{}
	}
	return &Builder{
		Iteration: it,
		UserID:    userID,
		Resolver:  resolver,
		Lookup:    FindTaskID,
	}
}

// Build returns an entry for c, asking the resolver for the story, task or
// time spent if the description doesn't have them. It either returns a
// complete entry or a ValidationError.
func (b *Builder) Build(c *model.Commit) (*model.EffortEntry, error) {
	short := c.ShortID()

	storyID, hasStory := c.Tags.StoryID()
	taskCode := c.Tags.Task
	if !hasStory || taskCode == "" {
		var ok bool
		storyID, taskCode, ok = b.resolver().ResolveStoryAndTask(c)
		if !ok || taskCode == "" {
			return nil, ValidationError{Kind: MissingStoryTask, Commit: short}
		}
	}

	lookup := b.Lookup
	if lookup == nil {
		lookup = FindTaskID
	}
	taskID, ok := lookup(b.Iteration, storyID, taskCode)
	if !ok {
		return nil, ValidationError{Kind: NoMatchingTask, Commit: short}
	}

	minutes, ok := c.Tags.MinutesSpent()
	if !ok {
		minutes, ok = b.resolver().ResolveMinutes(c)
		if !ok || minutes <= 0 {
			return nil, ValidationError{Kind: NoTimeProvided, Commit: short}
		}
	}

	switch {
	case c.Date.IsZero():
		return nil, ValidationError{Kind: MissingDate, Commit: short}
	case minutes <= 0:
		return nil, ValidationError{Kind: MissingMinutes, Commit: short}
	case c.Description == "":
		return nil, ValidationError{Kind: MissingDescription, Commit: short}
	case taskID == 0:
		return nil, ValidationError{Kind: NoMatchingTask, Commit: short}
	case b.UserID <= 0:
		return nil, ValidationError{Kind: MissingUser, Commit: short}
	}

	return &model.EffortEntry{
		Date:         c.Date.Unix() * 1000,
		MinutesSpent: minutes,
		Description:  c.Description + " " + Marker(short),
		TaskID:       taskID,
		UserID:       b.UserID,
	}, nil
}

func (b *Builder) resolver() MissingDataResolver {
	if b.Resolver == nil {
		return Decline{}
	}
	return b.Resolver
}
