// Package runner reads commits and logs their effort, one commit at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeffrom/agilog/commit"
	"github.com/jeffrom/agilog/config"
	"github.com/jeffrom/agilog/effort"
	"github.com/jeffrom/agilog/tracker"
	"github.com/jeffrom/agilog/vcs"
)

type Runner struct {
	cfg      config.Config
	vcs      vcs.Interface
	tracker  tracker.Interface
	resolver effort.MissingDataResolver
	parser   *commit.Parser
	log      *zap.Logger
}

func New(cfg config.Config, vcs vcs.Interface, tr tracker.Interface, resolver effort.MissingDataResolver) *Runner {
	if resolver == nil {
		resolver = effort.Decline{}
	}
	return &Runner{
		cfg:      cfg,
		vcs:      vcs,
		tracker:  tr,
		resolver: resolver,
		parser:   commit.NewParser(cfg.ShortHashLength),
		log:      cfg.Logger(),
	}
}

// ReadLog returns the log text to process: the configured log file, stdin
// if the log file is "-", or git log otherwise.
func (r *Runner) ReadLog(ctx context.Context) (string, error) {
	switch r.cfg.LogFile {
	case "":
		if r.vcs == nil {
			return "", errors.New("runner: no log file or repository")
		}
		return r.vcs.ReadLog(ctx, r.cfg.RevRange)
	case "-":
		b, err := io.ReadAll(r.cfg.Term.Stdin)
		if err != nil {
			return "", fmt.Errorf("runner: failed to read log from stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(r.cfg.LogFile)
		if err != nil {
			return "", fmt.Errorf("runner: failed to read log: %w", err)
		}
		return string(b), nil
	}
}

// Run logs the effort for every commit in log. Commits are processed in
// order, and a failure on one commit is recorded in the report without
// stopping the run. An error is only returned if the session can't be
// started or the iteration can't be fetched.
func (r *Runner) Run(ctx context.Context, log string) (*Report, error) {
	runID := uuid.New().String()
	logger := r.log.With(zap.String("run_id", runID))

	if err := r.tracker.Authenticate(ctx, r.cfg.Username, r.cfg.Password); err != nil {
		return nil, err
	}
	defer func() {
		// log out even if the run was interrupted
		if err := r.tracker.Deauthenticate(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("logout failed", zap.Error(err))
		}
	}()

	it, err := r.tracker.FetchIteration(ctx, r.cfg.IterationID)
	if err != nil {
		return nil, err
	}
	r.cfg.Debugf("iteration %d: %d stories", r.cfg.IterationID, len(it.Stories))

	builder := effort.NewBuilder(it, r.cfg.UserID, r.resolver)
	report := &Report{RunID: runID, IterationID: r.cfg.IterationID}

	for i, block := range commit.Split(log) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		out := r.process(ctx, builder, block)
		out.Index = i
		report.Add(out)

		logger.Info("processed commit",
			zap.String("commit", out.ShortID),
			zap.Stringer("status", out.Status),
			zap.Error(out.Err),
		)
		r.printOutcome(out)
	}
	return report, nil
}

func (r *Runner) process(ctx context.Context, builder *effort.Builder, block string) *Outcome {
	c, err := r.parser.Parse(block)
	if err != nil {
		out := &Outcome{Status: StatusParseError, Err: err}
		pe := commit.ParseError{}
		if errors.As(err, &pe) && pe.Hash != "" {
			out.Commit = pe.Hash
			out.ShortID = commit.ShortHash(pe.Hash, r.cfg.ShortHashLength)
		}
		return out
	}
	r.cfg.Debugf("%s", c)

	out := &Outcome{
		Commit:      c.ID,
		ShortID:     c.ShortID(),
		Description: c.Description,
	}

	entry, err := builder.Build(c)
	if err != nil {
		out.Status = StatusInvalid
		out.Err = err
		return out
	}
	out.Entry = entry

	entries, err := r.tracker.FetchEntries(ctx, entry.TaskID)
	if err != nil {
		out.Status = StatusUnavailable
		out.Err = err
		return out
	}
	if effort.IsDuplicate(entries, out.ShortID) {
		out.Status = StatusDuplicate
		out.Err = effort.DuplicateError{Commit: out.ShortID, TaskID: entry.TaskID}
		return out
	}

	if r.cfg.Dryrun {
		out.Status = StatusDryrun
		return out
	}
	if err := r.tracker.SubmitEntry(ctx, entry); err != nil {
		out.Status = StatusUnavailable
		out.Err = err
		return out
	}
	out.Status = StatusSubmitted
	return out
}

func (r *Runner) printOutcome(out *Outcome) {
	switch out.Status {
	case StatusSubmitted, StatusDryrun:
		r.cfg.Printf("%s: %s (%d mins, task %d)", out.Label(), out.Status, out.Entry.MinutesSpent, out.Entry.TaskID)
	case StatusDuplicate:
		r.cfg.Printf("%s: %s, skipping", out.Label(), out.Status)
	default:
		r.cfg.Errorf("%s: %v", out.Label(), out.Err)
	}
}
