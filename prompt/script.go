package prompt

import (
	"github.com/jeffrom/agilog/effort"
	"github.com/jeffrom/agilog/model"
)

// StoryTask is a scripted answer to ResolveStoryAndTask.
type StoryTask struct {
	StoryID  int
	TaskCode string
}

// Script answers from fixed lists, in order, and declines once a list
// runs out. A zero answer declines.
type Script struct {
	StoryTasks []StoryTask
	Minutes    []int
}

var _ effort.MissingDataResolver = (*Script)(nil)

func (s *Script) ResolveStoryAndTask(c *model.Commit) (int, string, bool) {
	if len(s.StoryTasks) == 0 {
		return 0, "", false
	}
	st := s.StoryTasks[0]
	s.StoryTasks = s.StoryTasks[1:]
	if st.TaskCode == "" {
		return 0, "", false
	}
	return st.StoryID, st.TaskCode, true
}

func (s *Script) ResolveMinutes(c *model.Commit) (int, bool) {
	if len(s.Minutes) == 0 {
		return 0, false
	}
	n := s.Minutes[0]
	s.Minutes = s.Minutes[1:]
	return n, n > 0
}
