// Package commit contains code for reading commits out of git log output
// and the markers in their descriptions.
package commit

import (
	"regexp"

	"github.com/jeffrom/agilog/model"
)

// DateLayout is the format of the Date: line in git log's default output,
// ie "Mon Jan 2 03:04:05 2023 +1300".
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// DefaultShortHashLength is the length of the #commits[...] marker.
const DefaultShortHashLength = model.DefaultShortHashLength

var (
	headerRE = regexp.MustCompile(`(?m)^commit [a-f0-9]{40}\b`)

	hashRE   = regexp.MustCompile(`^commit ([a-f0-9]{40})\b`)
	authorRE = regexp.MustCompile(`^Author: (.*) <(.*)>`)
	dateRE   = regexp.MustCompile(`^Date: (.*)`)

	storyRE     = regexp.MustCompile(`#story\[([0-9]+)\]`)
	taskRE      = regexp.MustCompile(`!task\[([a-zA-Z]+)\]`)
	timeSpentRE = regexp.MustCompile(`Took (?:([0-9]+) hours? )?([0-9]+) minutes?`)
	taskCodeRE  = regexp.MustCompile(`^([a-zA-Z]+):`)
)

// TaskCode returns the short code a task name starts with, ie "ab" for
// "ab: Write tests".
func TaskCode(name string) (string, bool) {
	m := taskCodeRE.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
