// Package config holds agilog configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL  = "AGILOG_BASE_URL"
	EnvUsername = "AGILOG_USERNAME"
	EnvPassword = "AGILOG_PASSWORD"
)

// Config holds the configuration for a run. It is read from agilog.yaml (via
// the json tags), the environment, and command-line flags, in that order.
type Config struct {
	// BaseURL is the root of the Agilefant installation, ending in a slash.
	BaseURL     string `json:"base_url,omitempty"`
	IterationID int    `json:"iteration_id,omitempty"`
	UserID      int    `json:"user_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`

	// LogFile is read instead of running git log when set. "-" reads stdin.
	LogFile  string `json:"log_file,omitempty"`
	RevRange string `json:"rev_range,omitempty"`

	// ShortHashLength is the length of the #commits[...] marker. It must
	// stay the same between runs or duplicates won't be detected.
	ShortHashLength int `json:"shorthash_length,omitempty"`

	Interactive bool `json:"interactive,omitempty"`
	Dryrun      bool `json:"dryrun,omitempty"`
	Verbose     bool `json:"verbose,omitempty"`
	Quiet       bool `json:"quiet,omitempty"`

	Term TerminalIO `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

// LoadEnv loads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv returns the subset of configuration set in the environment, or
// nil if none is.
func FromEnv(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := &Config{
		BaseURL:  getenv(EnvBaseURL),
		Username: getenv(EnvUsername),
		Password: getenv(EnvPassword),
	}
	if *cfg == (Config{}) {
		return nil
	}
	return cfg
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base url is required")
	}
	if c.IterationID <= 0 {
		return fmt.Errorf("config: invalid iteration id %d", c.IterationID)
	}
	if c.UserID <= 0 {
		return fmt.Errorf("config: invalid user id %d", c.UserID)
	}
	if c.ShortHashLength != 7 && c.ShortHashLength != 8 {
		return fmt.Errorf("config: shorthash length must be 7 or 8, not %d", c.ShortHashLength)
	}
	if c.Quiet && c.Verbose {
		return errors.New("config: quiet and verbose are mutually exclusive")
	}
	return nil
}

// Redacted returns a copy of the config that is safe to print.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "xxxxxx"
	}
	return c
}

// Logger returns a development logger writing to stderr when verbose, and
// a no-op logger otherwise.
func (c Config) Logger() *zap.Logger {
	if !c.Verbose {
		return zap.NewNop()
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	l, err := zcfg.Build()
	if err != nil {
		c.Errorf("failed to build logger, logging disabled: %v", err)
		return zap.NewNop()
	}
	return l
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Term.Stdout, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	c.Printf(msg, args...)
}
