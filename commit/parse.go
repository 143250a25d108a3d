package commit

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeffrom/agilog/model"
)

// ParseError is returned when a block is missing its hash, author or date,
// or the date can't be parsed.
type ParseError struct {
	Field string
	// Hash is empty when the hash itself couldn't be read.
	Hash string
	Err  error
}

func (e ParseError) Error() string {
	msg := fmt.Sprintf("commit: missing %s", e.Field)
	if e.Err != nil {
		msg = fmt.Sprintf("commit: invalid %s: %v", e.Field, e.Err)
	}
	if e.Hash != "" {
		msg = fmt.Sprintf("%s (commit %s)", msg, e.Hash)
	}
	return msg
}

func (e ParseError) Unwrap() error { return e.Err }

// Parser turns git log blocks into commits. The zero value uses
// DefaultShortHashLength.
type Parser struct {
	ShortHashLength int
}

func NewParser(shortLen int) *Parser {
	return &Parser{ShortHashLength: shortLen}
}

// Parse reads a single commit block, as returned by Split. Description
// lines are trimmed and joined with a single space; blank lines are
// skipped.
func (p *Parser) Parse(block string) (*model.Commit, error) {
	var hash, author, email, date string
	var hasAuthor, hasDate bool
	var desc strings.Builder

	for _, line := range strings.Split(block, "\n") {
		if m := hashRE.FindStringSubmatch(line); m != nil {
			if hash == "" {
				hash = m[1]
			}
		} else if m := authorRE.FindStringSubmatch(line); m != nil {
			author, email = m[1], m[2]
			hasAuthor = true
		} else if m := dateRE.FindStringSubmatch(line); m != nil {
			date = strings.TrimSpace(m[1])
			hasDate = true
		} else if trimmed := strings.TrimSpace(line); trimmed != "" {
			if desc.Len() > 0 {
				desc.WriteString(" ")
			}
			desc.WriteString(trimmed)
		}
	}

	if hash == "" {
		return nil, ParseError{Field: "hash"}
	}
	if !hasAuthor {
		return nil, ParseError{Field: "author", Hash: hash}
	}
	if !hasDate || date == "" {
		return nil, ParseError{Field: "date", Hash: hash}
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, ParseError{Field: "date", Hash: hash, Err: err}
	}

	description := desc.String()
	return &model.Commit{
		ID:          hash,
		Author:      author,
		AuthorEmail: email,
		Date:        t,
		Description: description,
		Tags:        ExtractTags(hash, description, p.ShortHashLength),
	}, nil
}

// Parse reads a single commit block using the default shorthash length.
func Parse(block string) (*model.Commit, error) {
	return (&Parser{}).Parse(block)
}
