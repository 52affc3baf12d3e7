// Package config loads retention policies and size limits from YAML.
// Policies are static: loaded once at startup, immutable afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LimitAction selects what happens when a record exceeds its size
// limit. Both actions leave the write committed; split is advisory
// because partitioning body content needs domain knowledge the engine
// does not have.
type LimitAction string

const (
	ActionWarn  LimitAction = "warn"
	ActionSplit LimitAction = "split"
)

// RetentionPolicy is a file-pattern-keyed rule set controlling how a
// record's body shrinks over time. Zero-valued fields are inactive.
type RetentionPolicy struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// Keep the newest N entries; older ones move to the archive record.
	KeepLastN int `yaml:"keep_last_n,omitempty"`

	// Remove entries carrying ResolvedMarker once their own date is
	// older than this many days.
	ExpireAfterDays int    `yaml:"expire_after_days,omitempty"`
	ResolvedMarker  string `yaml:"resolved_marker,omitempty"`

	// Annotate unresolved entries untouched for this many days.
	FlagAfterDays int `yaml:"flag_after_days,omitempty"`

	// Ask for re-verification every Nth write to the record.
	ReverifyEvery int `yaml:"reverify_every,omitempty"`
}

// SizeLimit caps a record's line count. Independent of retention; both
// apply on every write.
type SizeLimit struct {
	Pattern  string      `yaml:"pattern"`
	MaxLines int         `yaml:"max_lines"`
	Action   LimitAction `yaml:"action"`
}

// Config is the full policy file.
type Config struct {
	Policies []RetentionPolicy `yaml:"policies"`
	Limits   []SizeLimit       `yaml:"limits"`
}

// Default returns the built-in lifecycle configuration. The line
// limits (200/300/500) come from the memory lifecycle conventions the
// store was built for.
func Default() Config {
	return Config{
		Policies: []RetentionPolicy{
			{
				Name:      "history",
				Pattern:   "review_history.md",
				KeepLastN: 10,
			},
			{
				Name:            "issues",
				Pattern:         "known_issues.md",
				ExpireAfterDays: 30,
				ResolvedMarker:  "RESOLVED",
				FlagAfterDays:   90,
			},
			{
				Name:          "patterns",
				Pattern:       "common_patterns.md",
				ReverifyEvery: 5,
			},
		},
		Limits: []SizeLimit{
			{Pattern: "project_overview.md", MaxLines: 200, Action: ActionWarn},
			{Pattern: "review_history.md", MaxLines: 300, Action: ActionWarn},
			{Pattern: "*", MaxLines: 500, Action: ActionWarn},
		},
	}
}

// Load reads a config file, falling back to Default when the file does
// not exist.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	for _, p := range c.Policies {
		if p.Pattern == "" {
			return fmt.Errorf("policy %q: pattern is required", p.Name)
		}
		if p.ExpireAfterDays > 0 && p.ResolvedMarker == "" {
			return fmt.Errorf("policy %q: expire_after_days needs a resolved_marker", p.Name)
		}
	}
	for _, l := range c.Limits {
		if l.Pattern == "" || l.MaxLines <= 0 {
			return fmt.Errorf("limit for pattern %q: pattern and max_lines are required", l.Pattern)
		}
		if l.Action != ActionWarn && l.Action != ActionSplit {
			return fmt.Errorf("limit for pattern %q: unknown action %q", l.Pattern, l.Action)
		}
	}
	return nil
}
