// Package config loads workflow settings from layered sources.
//
// Precedence, highest to lowest:
//  1. Environment variables (GITFLOW_*)
//  2. Local config (.gitflow.yaml in the repository root)
//  3. Global config (~/.config/gitflow/config.yaml)
//  4. Built-in defaults
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to key names for environment lookup, so
// key "main_branch" maps to GITFLOW_MAIN_BRANCH.
const EnvPrefix = "GITFLOW_"

// LocalConfigName is the per-repository config file, checked in at
// the repository root.
const LocalConfigName = ".gitflow.yaml"

// globalConfigDir lives under ~/.config/.
const globalConfigDir = "gitflow"

// Source indicates where a configuration value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
)

// Settings is the resolved workflow configuration.
type Settings struct {
	// MainBranch is the production branch. Releases and hotfixes
	// merge here and get tagged.
	MainBranch string

	// DevelopBranch is the integration branch features merge into.
	DevelopBranch string

	// Remote is the remote name used for pushes and deletions.
	Remote string

	// TestCommand, when set, runs before any finish merge.
	TestCommand string

	// ChangelogFile is the changelog path relative to the repo root.
	ChangelogFile string

	// VersionFile, when set, is rewritten with the bare version
	// number during release start.
	VersionFile string

	// WebhookURL, when set, receives lifecycle event notifications.
	WebhookURL string

	// PublishReleases enables creating a hosted release on the
	// forge after tagging.
	PublishReleases bool

	// GitHubToken and GitLabToken authenticate release publishing.
	GitHubToken string
	GitLabToken string

	sources map[string]Source
}

// Source reports where a key's value came from.
func (s *Settings) Source(key string) Source {
	if src, ok := s.sources[key]; ok {
		return src
	}
	return SourceDefault
}

// Keys lists every recognized configuration key.
var Keys = []string{
	"main_branch",
	"develop_branch",
	"remote",
	"test_command",
	"changelog_file",
	"version_file",
	"webhook_url",
	"publish_releases",
	"github_token",
	"gitlab_token",
}

func defaults() map[string]string {
	return map[string]string{
		"main_branch":    "main",
		"develop_branch": "develop",
		"remote":         "origin",
		"changelog_file": "CHANGELOG.md",
	}
}

// Loader resolves settings for one repository.
type Loader struct {
	globalPath string
	localPath  string
	errWriter  io.Writer

	// Warnings collects non-fatal issues during resolution, such
	// as an unparsable config file.
	Warnings []string
}

// NewLoader creates a loader for the repository rooted at gitRoot.
// An empty gitRoot skips the local config layer.
func NewLoader(gitRoot string) *Loader {
	l := &Loader{errWriter: os.Stderr}
	if home, err := os.UserHomeDir(); err == nil {
		l.globalPath = filepath.Join(home, ".config", globalConfigDir, "config.yaml")
	}
	if gitRoot != "" {
		l.localPath = filepath.Join(gitRoot, LocalConfigName)
	}
	return l
}

// NewLoaderWithPaths creates a loader with explicit file paths.
// Used by tests.
func NewLoaderWithPaths(globalPath, localPath string) *Loader {
	return &Loader{
		globalPath: globalPath,
		localPath:  localPath,
		errWriter:  io.Discard,
	}
}

func (l *Loader) warn(msg string) {
	l.Warnings = append(l.Warnings, msg)
	fmt.Fprintf(l.errWriter, "Warning: %s\n", msg)
}

// Load resolves settings from all layers.
func (l *Loader) Load() *Settings {
	values := defaults()
	sources := make(map[string]Source)
	for k := range values {
		sources[k] = SourceDefault
	}

	l.applyFile(l.globalPath, SourceGlobal, values, sources)
	l.applyFile(l.localPath, SourceLocal, values, sources)
	l.applyEnv(values, sources)

	return &Settings{
		MainBranch:      values["main_branch"],
		DevelopBranch:   values["develop_branch"],
		Remote:          values["remote"],
		TestCommand:     values["test_command"],
		ChangelogFile:   values["changelog_file"],
		VersionFile:     values["version_file"],
		WebhookURL:      values["webhook_url"],
		PublishReleases: values["publish_releases"] == "true",
		GitHubToken:     values["github_token"],
		GitLabToken:     values["gitlab_token"],
		sources:         sources,
	}
}

func (l *Loader) applyFile(path string, src Source, values map[string]string, sources map[string]Source) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		l.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if !validKey(key) {
			l.warn(fmt.Sprintf("unknown key %q in %s", key, path))
			continue
		}
		if strVal := toString(value); strVal != "" {
			values[key] = strVal
			sources[key] = src
		}
	}
}

func (l *Loader) applyEnv(values map[string]string, sources map[string]Source) {
	for _, key := range Keys {
		envKey := EnvPrefix + strings.ToUpper(key)
		if value := os.Getenv(envKey); value != "" {
			values[key] = value
			sources[key] = SourceEnv
		}
	}
}

func validKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}
