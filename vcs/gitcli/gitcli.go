// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"context"
	"strings"

	"github.com/jeffrom/agilog/config"
	"github.com/jeffrom/agilog/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

var _ vcs.Interface = (*Git)(nil)

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

// ReadLog runs git log with the default date format and without
// decorations, whatever the user's git config says.
func (g *Git) ReadLog(ctx context.Context, revRange string) (string, error) {
	if revRange == "" {
		revRange = "HEAD"
	}
	args := []string{
		"log", "--no-color", "--no-decorate", "--pretty=medium", "--date=default", revRange, "--",
	}
	g.cfg.Debugf("+ git %s", ArgsString(args))

	b, err := g.call(ctx, args)
	if err != nil {
		if isNotFound(err) {
			return "", vcs.NotFoundError{Ref: revRange}
		}
		return "", err
	}
	return string(b), nil
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown revision") ||
		strings.Contains(msg, "bad revision") ||
		strings.Contains(msg, "does not have any commits yet")
}
