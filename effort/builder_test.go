package effort

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jeffrom/agilog/model"
)

func intp(n int) *int { return &n }

var testIteration = &model.Iteration{
	ID: 210,
	Stories: []*model.Story{
		{
			ID:   7,
			Name: "another story",
			Tasks: []*model.Task{
				{ID: 70, Name: "ab: Same code, other story"},
			},
		},
		{
			ID:   42,
			Name: "cool story",
			Tasks: []*model.Task{
				{ID: 98, Name: "Untagged task"},
				{ID: 99, Name: "ab: Implement X"},
				{ID: 100, Name: "ab: Duplicate code"},
				{ID: 101, Name: "cd: Write tests"},
			},
		},
	},
}

var testDate = time.Date(2023, time.January, 2, 3, 4, 5, 0, time.FixedZone("", 13*60*60))

func newTestCommit(tags model.Tags) *model.Commit {
	if tags.Commits == "" {
		tags.Commits = "abcdef0"
	}
	return &model.Commit{
		ID:          "abcdef0123456789abcdef0123456789abcdef01",
		Author:      "A B",
		AuthorEmail: "a@b.com",
		Date:        testDate,
		Description: "Implement X",
		Tags:        tags,
	}
}

type scriptedResolver struct {
	storyID  int
	taskCode string
	minutes  int
	calls    []string
}

func (r *scriptedResolver) ResolveStoryAndTask(c *model.Commit) (int, string, bool) {
	r.calls = append(r.calls, "story")
	if r.taskCode == "" {
		return 0, "", false
	}
	return r.storyID, r.taskCode, true
}

func (r *scriptedResolver) ResolveMinutes(c *model.Commit) (int, bool) {
	r.calls = append(r.calls, "minutes")
	if r.minutes == 0 {
		return 0, false
	}
	return r.minutes, true
}

func TestBuild(t *testing.T) {
	b := NewBuilder(testIteration, 540, nil)
	c := newTestCommit(model.Tags{Story: intp(42), Task: "ab", Minutes: intp(90)})

	entry, err := b.Build(c)
	if err != nil {
		t.Fatal(err)
	}

	expect := &model.EffortEntry{
		Date:         testDate.Unix() * 1000,
		MinutesSpent: 90,
		Description:  "Implement X #commits[abcdef0]",
		TaskID:       99,
		UserID:       540,
	}
	if diff := cmp.Diff(expect, entry); diff != "" {
		t.Fatalf("unexpected entry (-want +got):\n%s", diff)
	}
	if entry.Date != 1672581845000 {
		t.Errorf("expected date %d, got %d", int64(1672581845000), entry.Date)
	}
}

func TestBuildResolver(t *testing.T) {
	tcs := []struct {
		name        string
		tags        model.Tags
		resolver    *scriptedResolver
		expectTask  int
		expectMins  int
		expectKind  ValidationKind
		expectCalls []string
	}{
		{
			name:        "no-time-declined",
			tags:        model.Tags{Story: intp(42), Task: "ab"},
			resolver:    &scriptedResolver{},
			expectKind:  NoTimeProvided,
			expectCalls: []string{"minutes"},
		},
		{
			name:        "no-time-resolved",
			tags:        model.Tags{Story: intp(42), Task: "ab"},
			resolver:    &scriptedResolver{minutes: 15},
			expectTask:  99,
			expectMins:  15,
			expectCalls: []string{"minutes"},
		},
		{
			name:        "no-story-declined",
			tags:        model.Tags{Task: "ab", Minutes: intp(5)},
			resolver:    &scriptedResolver{},
			expectKind:  MissingStoryTask,
			expectCalls: []string{"story"},
		},
		{
			name:        "no-task-resolved",
			tags:        model.Tags{Story: intp(42), Minutes: intp(5)},
			resolver:    &scriptedResolver{storyID: 42, taskCode: "cd"},
			expectTask:  101,
			expectMins:  5,
			expectCalls: []string{"story"},
		},
		{
			name:        "nothing-resolved",
			tags:        model.Tags{},
			resolver:    &scriptedResolver{storyID: 7, taskCode: "ab", minutes: 30},
			expectTask:  70,
			expectMins:  30,
			expectCalls: []string{"story", "minutes"},
		},
		{
			name:        "resolved-no-match",
			tags:        model.Tags{Minutes: intp(5)},
			resolver:    &scriptedResolver{storyID: 42, taskCode: "zz", minutes: 30},
			expectKind:  NoMatchingTask,
			expectCalls: []string{"story"},
		},
		{
			name:        "no-matching-story",
			tags:        model.Tags{Story: intp(1), Task: "ab", Minutes: intp(5)},
			resolver:    &scriptedResolver{},
			expectKind:  NoMatchingTask,
			expectCalls: nil,
		},
		{
			name:        "no-matching-task",
			tags:        model.Tags{Story: intp(42), Task: "ef"},
			resolver:    &scriptedResolver{minutes: 30},
			expectKind:  NoMatchingTask,
			expectCalls: nil,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(testIteration, 540, tc.resolver)
			entry, err := b.Build(newTestCommit(tc.tags))

			if diff := cmp.Diff(tc.expectCalls, tc.resolver.calls); diff != "" {
				t.Errorf("unexpected resolver calls (-want +got):\n%s", diff)
			}

			if tc.expectKind != 0 {
				if entry != nil {
					t.Fatalf("expected no entry, got %+v", entry)
				}
				if !errors.Is(err, ValidationError{Kind: tc.expectKind}) {
					t.Fatalf("expected %s error, got %v", tc.expectKind, err)
				}
				if !errors.Is(err, ValidationError{}) {
					t.Fatal("expected error to match any ValidationError")
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if entry.TaskID != tc.expectTask {
				t.Errorf("expected task %d, got %d", tc.expectTask, entry.TaskID)
			}
			if entry.MinutesSpent != tc.expectMins {
				t.Errorf("expected %d minutes, got %d", tc.expectMins, entry.MinutesSpent)
			}
		})
	}
}

func TestBuildMissingFields(t *testing.T) {
	full := model.Tags{Story: intp(42), Task: "ab", Minutes: intp(90)}
	tcs := []struct {
		name   string
		commit func() *model.Commit
		userID int
		expect ValidationKind
	}{
		{
			name: "missing-date",
			commit: func() *model.Commit {
				c := newTestCommit(full)
				c.Date = time.Time{}
				return c
			},
			userID: 540,
			expect: MissingDate,
		},
		{
			name: "missing-description",
			commit: func() *model.Commit {
				c := newTestCommit(full)
				c.Description = ""
				return c
			},
			userID: 540,
			expect: MissingDescription,
		},
		{
			name:   "missing-user",
			commit: func() *model.Commit { return newTestCommit(full) },
			expect: MissingUser,
		},
		{
			name:   "zero-task-id",
			commit: func() *model.Commit { return newTestCommit(full) },
			userID: 540,
			expect: NoMatchingTask,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(testIteration, tc.userID, nil)
			if tc.name == "zero-task-id" {
				b.Lookup = func(*model.Iteration, int, string) (int, bool) { return 0, true }
			}
			entry, err := b.Build(tc.commit())
			if entry != nil {
				t.Fatalf("expected no entry, got %+v", entry)
			}
			if !errors.Is(err, ValidationError{Kind: tc.expect}) {
				t.Fatalf("expected %s error, got %v", tc.expect, err)
			}
			if !strings.Contains(err.Error(), "abcdef0") {
				t.Errorf("expected error to name the commit, got %q", err)
			}
		})
	}
}

func TestFindTaskID(t *testing.T) {
	tcs := []struct {
		name   string
		story  int
		code   string
		expect int
		ok     bool
	}{
		{name: "first-match", story: 42, code: "ab", expect: 99, ok: true},
		{name: "other-story", story: 7, code: "ab", expect: 70, ok: true},
		{name: "second-code", story: 42, code: "cd", expect: 101, ok: true},
		{name: "case-sensitive", story: 42, code: "AB"},
		{name: "no-story", story: 1, code: "ab"},
		{name: "no-task", story: 7, code: "cd"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := FindTaskID(testIteration, tc.story, tc.code)
			if id != tc.expect || ok != tc.ok {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tc.expect, tc.ok, id, ok)
			}
		})
	}

	if _, ok := FindTaskID(nil, 42, "ab"); ok {
		t.Fatal("expected no task in a nil iteration")
	}
}
