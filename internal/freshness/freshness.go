// Package freshness classifies record age against the 30/90-day
// lifecycle boundaries.
package freshness

import (
	"time"

	"github.com/forgekit/skillmem/internal/model"
)

const (
	// FreshDays is the last day a record still counts as fresh.
	FreshDays = 30
	// AgingDays is the last day a record still counts as aging.
	AgingDays = 90
)

// Classify returns the staleness of a record last updated at the given
// time. Pure function of its inputs; day-granular since the persisted
// marker carries only a date. A future updatedAt (clock skew) is fresh.
func Classify(updatedAt, now time.Time) model.Staleness {
	age := AgeDays(updatedAt, now)
	switch {
	case age <= FreshDays:
		return model.StalenessFresh
	case age <= AgingDays:
		return model.StalenessAging
	default:
		return model.StalenessStale
	}
}

// AgeDays returns whole days elapsed between updatedAt and now,
// clamped at zero for timestamps in the future.
func AgeDays(updatedAt, now time.Time) int {
	d := now.Sub(updatedAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
