// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"
	"fmt"
)

type NotFoundError struct {
	Ref string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("vcs: ref %q not found", e.Ref)
}

type Interface interface {
	// ReadLog returns the log for revRange in git log's default (medium)
	// format.
	ReadLog(ctx context.Context, revRange string) (string, error)
}
