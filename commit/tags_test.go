package commit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jeffrom/agilog/model"
)

func TestMinutesSpent(t *testing.T) {
	tcs := []struct {
		desc   string
		expect int
		ok     bool
	}{
		{desc: "Took 1 hour 30 minutes", expect: 90, ok: true},
		{desc: "Took 2 hours 5 minutes", expect: 125, ok: true},
		{desc: "Took 45 minutes", expect: 45, ok: true},
		{desc: "Took 1 minute", expect: 1, ok: true},
		{desc: "did things. Took 1 hour 0 minutes, then left", expect: 60, ok: true},
		{desc: "Took 10 minutes and later Took 20 minutes", expect: 10, ok: true},
		{desc: "no time mentioned"},
		{desc: "Took 0 minutes"},
		{desc: "Took 0 hours 0 minutes"},
		{desc: "Took 2 hours"},
		{desc: "took 5 minutes"},
		{desc: "Took 307445734561825861 hours 1 minutes"},
		{desc: "Took 1 hours 9223372036854775807 minutes"},
		{desc: "Took 99999999999999999999 minutes"},
	}

	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			mins, ok := MinutesSpent(tc.desc)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if mins != tc.expect {
				t.Fatalf("expected %d minutes, got %d", tc.expect, mins)
			}
		})
	}
}

func TestExtractTags(t *testing.T) {
	tcs := []struct {
		name   string
		desc   string
		expect model.Tags
	}{
		{
			name:   "story-task",
			desc:   "Did stuff #story[42] !task[ab]",
			expect: model.Tags{Story: intp(42), Task: "ab", Commits: "abcdef0"},
		},
		{
			name:   "none",
			desc:   "Did stuff",
			expect: model.Tags{Commits: "abcdef0"},
		},
		{
			name:   "first-wins",
			desc:   "#story[1] !task[x] #story[2] !task[y]",
			expect: model.Tags{Story: intp(1), Task: "x", Commits: "abcdef0"},
		},
		{
			name:   "story-zero",
			desc:   "#story[0]",
			expect: model.Tags{Story: intp(0), Commits: "abcdef0"},
		},
		{
			name:   "bad-markers",
			desc:   "#story[abc] !task[12] #story[] !task[]",
			expect: model.Tags{Commits: "abcdef0"},
		},
		{
			name:   "all",
			desc:   "!task[Ab] Took 3 hours 1 minute #story[7]",
			expect: model.Tags{Story: intp(7), Task: "Ab", Minutes: intp(181), Commits: "abcdef0"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tags := ExtractTags(testHash, tc.desc, DefaultShortHashLength)
			if diff := cmp.Diff(tc.expect, tags); diff != "" {
				t.Fatalf("unexpected tags (-want +got):\n%s", diff)
			}

			again := ExtractTags(testHash, tc.desc, DefaultShortHashLength)
			if diff := cmp.Diff(tags, again); diff != "" {
				t.Fatalf("expected tags to be stable (-first +second):\n%s", diff)
			}
		})
	}
}

func TestShortHash(t *testing.T) {
	if s := ShortHash(testHash, 7); s != "abcdef0" {
		t.Errorf("expected %q, got %q", "abcdef0", s)
	}
	if s := ShortHash(testHash, 8); s != "abcdef01" {
		t.Errorf("expected %q, got %q", "abcdef01", s)
	}
	if s := ShortHash(testHash, 0); s != "abcdef0" {
		t.Errorf("expected default length, got %q", s)
	}
	if s := ShortHash("abc", 7); s != "abc" {
		t.Errorf("expected short input to be returned as is, got %q", s)
	}

	// a commit without extracted tags falls back to the same marker
	c := &model.Commit{ID: testHash}
	if s, expect := c.ShortID(), ShortHash(testHash, 0); s != expect {
		t.Errorf("expected ShortID %q to match the default marker %q", s, expect)
	}
}

func TestTaskCode(t *testing.T) {
	tcs := []struct {
		name   string
		expect string
		ok     bool
	}{
		{name: "ab: Implement X", expect: "ab", ok: true},
		{name: "AB:no space", expect: "AB", ok: true},
		{name: "Implement X"},
		{name: " ab: leading space"},
		{name: "a1: digits"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := TaskCode(tc.name)
			if ok != tc.ok || code != tc.expect {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.expect, tc.ok, code, ok)
			}
		})
	}
}
