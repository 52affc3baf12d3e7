package policy

import (
	"fmt"
	"time"

	"github.com/forgekit/skillmem/internal/config"
	"github.com/forgekit/skillmem/internal/freshness"
)

// Engine applies retention policies to record bodies. It is a pure
// transformation: the facade owns the archive write and the
// invocation counter, keeping the cascade's failure modes enumerable.
type Engine struct {
	reg *Registry
}

// NewEngine returns an engine over the given registry.
func NewEngine(reg *Registry) *Engine {
	return &Engine{reg: reg}
}

// Registry exposes the engine's policy registry for size-limit checks.
func (e *Engine) Registry() *Registry { return e.reg }

// Result describes what retention did to a body.
type Result struct {
	// Body is the transformed body to persist.
	Body string

	// Unpruned is the body after expiry and flagging but before
	// keep-last-N, the fallback when the archive write fails.
	Unpruned string

	// Overflow holds entries that exceeded keep-last-N, oldest first,
	// verbatim. The caller appends them to the archive record.
	Overflow []Entry

	// Expired counts resolved entries removed by expire-after-days.
	Expired int

	// Flagged counts entries annotated with the verify flag.
	Flagged int
}

// Apply runs the file's retention policy over a body. Archive records
// are never pruned. The zero Result with Body == body means the policy
// made no change.
func (e *Engine) Apply(file, body string, now time.Time) Result {
	if IsArchive(file) {
		return Result{Body: body, Unpruned: body}
	}
	p, ok := e.reg.PolicyFor(file)
	if !ok {
		return Result{Body: body, Unpruned: body}
	}
	return e.applyPolicy(p, body, now)
}

// ApplyNamed runs an explicitly named policy instead of the one the
// file pattern selects, for prune overrides.
func (e *Engine) ApplyNamed(name, file, body string, now time.Time) (Result, error) {
	p, ok := e.reg.PolicyNamed(name)
	if !ok {
		return Result{}, fmt.Errorf("unknown policy %q", name)
	}
	if IsArchive(file) {
		return Result{Body: body, Unpruned: body}, nil
	}
	return e.applyPolicy(p, body, now), nil
}

func (e *Engine) applyPolicy(p config.RetentionPolicy, body string, now time.Time) Result {
	header, entries := SplitEntries(body)
	res := Result{}

	if p.ExpireAfterDays > 0 || p.FlagAfterDays > 0 {
		kept := entries[:0]
		for _, entry := range entries {
			date, dated := entry.Date()
			age := 0
			if dated {
				age = freshness.AgeDays(date, now)
			}
			if p.ExpireAfterDays > 0 && dated && entry.Resolved(p.ResolvedMarker) && age > p.ExpireAfterDays {
				res.Expired++
				continue
			}
			if p.FlagAfterDays > 0 && dated && !entry.Resolved(p.ResolvedMarker) && age > p.FlagAfterDays && !entry.Flagged() {
				entry = entry.Flag()
				res.Flagged++
			}
			kept = append(kept, entry)
		}
		entries = kept
	}

	res.Unpruned = JoinEntries(header, entries)

	if p.KeepLastN > 0 && len(entries) > p.KeepLastN {
		cut := len(entries) - p.KeepLastN
		res.Overflow = append(res.Overflow, entries[:cut]...)
		entries = entries[cut:]
	}

	res.Body = JoinEntries(header, entries)
	return res
}
