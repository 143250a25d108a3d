package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/spf13/pflag"

	"github.com/jeffrom/agilog"
	"github.com/jeffrom/agilog/config"
	"github.com/jeffrom/agilog/prompt"
	"github.com/jeffrom/agilog/runner"
	"github.com/jeffrom/agilog/tracker/agilefant"
	"github.com/jeffrom/agilog/vcs/gitcli"
)

const configFileName = "agilog.yaml"

func main() {
	if err := run(os.Args, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, runner.Failure{}) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(rawArgs []string, termio *config.TerminalIO) error {
	cfg := config.NewWithTerminalIO(nil, termio)
	flagCfg := &config.Config{}

	var help bool
	var version bool
	var cfgFile string
	var envFile string
	var printConfig bool
	var noInteractive bool
	var allowFailures bool
	flags := pflag.NewFlagSet("agilog", pflag.ContinueOnError)
	flags.SetOutput(cfg.Term.Stderr)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&flagCfg.Dryrun, "dry-run", "n", false, "Don't submit any effort entries")
	flags.StringVar(&flagCfg.BaseURL, "base-url", "", "Agilefant `url`")
	flags.IntVarP(&flagCfg.IterationID, "iteration", "i", 0, "log effort against iteration `id`")
	flags.IntVarP(&flagCfg.UserID, "user", "u", 0, "log effort as user `id`")
	flags.StringVar(&flagCfg.Username, "username", "", "Agilefant login `name`")
	flags.StringVarP(&flagCfg.LogFile, "file", "f", "", "read git log output from `file` instead of running git (- for stdin)")
	flags.StringVarP(&flagCfg.RevRange, "rev-range", "r", "", "git revision `range` to read commits from")
	flags.IntVar(&flagCfg.ShortHashLength, "shorthash-length", 0, "length of the commit marker hash, 7 or 8")
	flags.BoolVar(&noInteractive, "no-interactive", false, "never prompt for missing information")
	flags.BoolVar(&allowFailures, "allow-failures", false, "exit successfully even if some commits failed")
	flags.BoolVarP(&flagCfg.Verbose, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&flagCfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file`")
	flags.StringVar(&envFile, "env-file", ".env", "load environment variables from `file`")
	flags.BoolVar(&printConfig, "print-config", false, "print configuration, without secrets, and exit")

	if err := flags.Parse(rawArgs[1:]); err != nil {
		return err
	}
	args := flags.Args()
	if len(args) > 1 {
		return fmt.Errorf("expected at most one revision range, got %d arguments", len(args))
	}
	if len(args) == 1 {
		flagCfg.RevRange = args[0]
	}

	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", agilog.SemVersion())
		return nil
	}

	agilogYAML, explicit, err := readAgilogYAML(cfgFile)
	if err != nil {
		return err
	}
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}
	for _, overrides := range []*config.Config{agilogYAML, config.FromEnv(os.Getenv), flagCfg} {
		if overrides == nil {
			continue
		}
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			return err
		}
	}
	// mergo never overrides with false
	if explicit != nil && explicit.Interactive != nil {
		cfg.Interactive = *explicit.Interactive
	}
	if noInteractive {
		cfg.Interactive = false
	}

	if printConfig {
		b, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("agilefant credentials are required: set %s and %s", config.EnvUsername, config.EnvPassword)
	}
	if cfg.Verbose {
		b, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		cfg.Debugf("config: %s", string(b))
	}
	// done setting up config

	logger := cfg.Logger()
	defer logger.Sync()

	client, err := agilefant.New(cfg.BaseURL,
		agilefant.WithLogger(logger),
		agilefant.WithUserAgent(agilog.UserAgent()),
	)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	if cfg.LogFile == "-" && cfg.Term.StdinIsTerminal() {
		return errors.New("refusing to read the log from a terminal, pipe git log output to agilog instead")
	}
	// stdin can't answer prompts if the log is read from it
	interactive := cfg.Interactive && cfg.LogFile != "-"
	resolver := prompt.New(cfg.Term, interactive)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rnr := runner.New(cfg, gitcli.New(cfg, ""), client, resolver)
	log, err := rnr.ReadLog(ctx)
	if err != nil {
		return err
	}
	report, err := rnr.Run(ctx, log)
	return summarize(cfg, report, err, allowFailures)
}

// summarize prints the report, which is partial if the run was
// interrupted, and returns the error the run should exit with.
func summarize(cfg config.Config, report *runner.Report, runErr error, allowFailures bool) error {
	if report != nil && !cfg.Quiet {
		cfg.Printf("")
		if err := report.TextSummary(cfg.Term.Stdout); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if err := report.Err(); err != nil && !allowFailures {
		return err
	}
	return nil
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s [rev-range]

Logs the time spent on commits as Agilefant effort entries.

Commits are tagged in their description:

  Implement login form #story[42] !task[ab] Took 1 hour 30 minutes

logs 90 minutes against the task in story 42 whose name starts with "ab:".
Commits that have already been logged are skipped.

FLAGS
%s

ENVIRONMENT

  %s, %s, %s
  (also read from .env)

EXAMPLES

# log everything on the current branch for iteration 210 as user 540
$ agilog -i 210 -u 540

# see what would be logged since a tag
$ agilog -n -i 210 -u 540 v1.0.0..HEAD

# read commits from a saved log
$ git log > my.log && agilog -i 210 -u 540 -f my.log
`, filepath.Base(os.Args[0]), flags.FlagUsages(), config.EnvUsername, config.EnvPassword, config.EnvBaseURL)
}

// explicitFields are read from agilog.yaml separately, since their zero
// values can't be merged.
type explicitFields struct {
	Interactive *bool `json:"interactive,omitempty"`
}

func readAgilogYAML(p string) (*config.Config, *explicitFields, error) {
	if p != "" {
		return readConfigFile(p)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	for {
		cfg, explicit, err := readConfigFile(filepath.Join(wd, configFileName))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				wd, _ = filepath.Split(filepath.Clean(wd))
				if wd == "/" || wd == "" {
					break
				}
				continue
			}
			return nil, nil, err
		}
		return cfg, explicit, nil
	}
	return nil, nil, nil
}

func readConfigFile(p string) (*config.Config, *explicitFields, error) {
	b, err := ioutil.ReadFile(p)
	if err != nil {
		return nil, nil, err
	}
	cfg := &config.Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p, err)
	}
	explicit := &explicitFields{}
	if err := yaml.Unmarshal(b, explicit); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p, err)
	}
	return cfg, explicit, nil
}
