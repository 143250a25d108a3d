package effort

import (
	"strings"

	"github.com/jeffrom/agilog/model"
)

// Marker is appended to every submitted description so the commit can be
// recognized later.
func Marker(shortHash string) string {
	return "#commits[" + shortHash + "]"
}

// IsDuplicate reports whether any of the entries already logged for a task
// carries the marker for shortHash. Entries logged against other tasks
// aren't seen.
func IsDuplicate(entries []*model.HourEntry, shortHash string) bool {
	marker := Marker(shortHash)
	for _, e := range entries {
		if e != nil && strings.Contains(e.Description, marker) {
			return true
		}
	}
	return false
}
