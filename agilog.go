// Package agilog reads commits from a git log and logs the effort they
// describe to an Agilefant iteration.
//
// Related packages: config, commit, effort, model, prompt, runner, tracker,
// tracker/agilefant, vcs, vcs/gitcli
package agilog

import (
	"github.com/blang/semver/v4"

	"github.com/jeffrom/agilog/config"
)

// Config holds the configuration variables for agilog.
//
// See "go doc github.com/jeffrom/agilog/config Config" for more information.
type Config = config.Config

// Version is overridden by go build -X.
var Version string

var devVersion = semver.Version{Pre: []semver.PRVersion{{VersionStr: "dev"}}}

// SemVersion returns the build version, or 0.0.0-dev if it isn't set or
// isn't a valid semantic version.
func SemVersion() semver.Version {
	if Version == "" {
		return devVersion
	}
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return devVersion
	}
	return v
}

// UserAgent is sent with every request to the tracker.
func UserAgent() string {
	return "agilog/" + SemVersion().String()
}
