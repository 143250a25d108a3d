package commit

import (
	"math"
	"strconv"

	"github.com/jeffrom/agilog/model"
)

// ExtractTags reads the story, task and time spent markers out of a
// description. The first match of each wins. Commits is always set to the
// first shortLen characters of hash.
func ExtractTags(hash, description string, shortLen int) model.Tags {
	tags := model.Tags{Commits: ShortHash(hash, shortLen)}

	if m := storyRE.FindStringSubmatch(description); m != nil {
		if story, err := strconv.Atoi(m[1]); err == nil {
			tags.Story = &story
		}
	}
	if m := taskRE.FindStringSubmatch(description); m != nil {
		tags.Task = m[1]
	}
	if mins, ok := MinutesSpent(description); ok {
		tags.Minutes = &mins
	}
	return tags
}

// MinutesSpent reads "Took 1 hour 30 minutes" or "Took 45 minutes" out of
// a description. A total of zero is reported as unspecified.
func MinutesSpent(description string) (int, bool) {
	m := timeSpentRE.FindStringSubmatch(description)
	if m == nil {
		return 0, false
	}

	var hours int
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		hours = n
	}
	mins, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	if hours > (math.MaxInt-mins)/60 {
		return 0, false
	}
	total := hours*60 + mins
	if total <= 0 {
		return 0, false
	}
	return total, true
}

func ShortHash(hash string, n int) string {
	if n <= 0 {
		n = DefaultShortHashLength
	}
	if len(hash) < n {
		return hash
	}
	return hash[:n]
}
