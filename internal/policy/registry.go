// Package policy implements retention: entry-level pruning, archive
// overflow, expiry of resolved entries, and verification flagging.
package policy

import (
	"path"
	"strings"

	"github.com/forgekit/skillmem/internal/config"
)

// Registry resolves file names to their retention policy and size
// limit. Built once from config and read-only afterwards.
type Registry struct {
	policies []config.RetentionPolicy
	limits   []config.SizeLimit
}

// NewRegistry compiles a config into a lookup registry.
func NewRegistry(c config.Config) *Registry {
	return &Registry{policies: c.Policies, limits: c.Limits}
}

// PolicyFor returns the first policy whose pattern matches the file.
func (r *Registry) PolicyFor(file string) (config.RetentionPolicy, bool) {
	for _, p := range r.policies {
		if matched, _ := path.Match(p.Pattern, file); matched {
			return p, true
		}
	}
	return config.RetentionPolicy{}, false
}

// PolicyNamed returns the policy with the given name, for explicit
// prune overrides.
func (r *Registry) PolicyNamed(name string) (config.RetentionPolicy, bool) {
	for _, p := range r.policies {
		if p.Name == name {
			return p, true
		}
	}
	return config.RetentionPolicy{}, false
}

// LimitFor returns the first size limit whose pattern matches the
// file. Patterns are checked in config order, so specific entries
// precede a trailing "*" default.
func (r *Registry) LimitFor(file string) (config.SizeLimit, bool) {
	for _, l := range r.limits {
		if matched, _ := path.Match(l.Pattern, file); matched {
			return l, true
		}
	}
	return config.SizeLimit{}, false
}

const archiveSuffix = "_archive"

// ArchiveFile returns the companion archive file name for a primary
// file: review_history.md -> review_history_archive.md.
func ArchiveFile(file string) string {
	if ext := path.Ext(file); ext != "" {
		return strings.TrimSuffix(file, ext) + archiveSuffix + ext
	}
	return file + archiveSuffix
}

// IsArchive reports whether a file name denotes an archive record.
// Archive records are never auto-pruned and are excluded from default
// listings.
func IsArchive(file string) bool {
	ext := path.Ext(file)
	return strings.HasSuffix(strings.TrimSuffix(file, ext), archiveSuffix)
}
