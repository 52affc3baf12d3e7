// Package model defines the core memory record types.
package model

import "time"

// Layer identifies the namespace a record lives in.
type Layer string

const (
	// LayerSkill scopes a record to one skill+project pair.
	LayerSkill Layer = "skill-specific"
	// LayerProject scopes a record to a project, shared across skills.
	LayerProject Layer = "shared-project"
)

// Valid reports whether l is a known layer.
func (l Layer) Valid() bool {
	return l == LayerSkill || l == LayerProject
}

// Address identifies exactly one record. Skill is required for
// LayerSkill and must be empty for LayerProject.
type Address struct {
	Layer   Layer  `json:"layer"`
	Skill   string `json:"skill,omitempty"`
	Project string `json:"project"`
	File    string `json:"file"`
}

// String renders the address in layer/skill/project/file form for
// error messages and logs.
func (a Address) String() string {
	if a.Layer == LayerSkill {
		return string(a.Layer) + "/" + a.Skill + "/" + a.Project + "/" + a.File
	}
	return string(a.Layer) + "/" + a.Project + "/" + a.File
}

// Record is the atomic unit of memory: a freshness timestamp plus an
// opaque markdown body. The body's sections carry domain meaning only
// for the retention engine's entry splitting.
type Record struct {
	Address   Address   `json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
	Body      string    `json:"body"`
	LineCount int       `json:"line_count"`
}

// Staleness classifies how old a record is.
type Staleness string

const (
	StalenessFresh Staleness = "fresh"
	StalenessAging Staleness = "aging"
	StalenessStale Staleness = "stale"
)

// Completeness is the required-topic coverage part of a validation report.
type Completeness struct {
	Score   float64  `json:"score"`
	Missing []string `json:"missing,omitempty"`
}

// ValidationReport is the output of quality validation. It is never
// persisted.
type ValidationReport struct {
	Address      Address      `json:"address"`
	Completeness Completeness `json:"completeness"`
	Staleness    Staleness    `json:"staleness"`
	LineCount    int          `json:"line_count"`
	Warnings     []string     `json:"warnings,omitempty"`
}
