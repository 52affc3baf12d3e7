// Package quality scores records against completeness and growth
// heuristics. Validation is read-only: running it never mutates the
// record.
package quality

import (
	"fmt"
	"strings"

	"github.com/forgekit/skillmem/internal/config"
	"github.com/forgekit/skillmem/internal/model"
	"github.com/forgekit/skillmem/internal/policy"
)

// overviewFile is the only file with a completeness contract: a
// project overview is expected to cover a fixed set of topics.
const overviewFile = "project_overview.md"

type topic struct {
	name    string
	markers []string
}

// requiredTopics are searched as case-insensitive substrings, so both
// prose ("The language is Go 1.25") and headings ("## Testing") count.
var requiredTopics = []topic{
	{name: "language/version", markers: []string{"language"}},
	{name: "framework", markers: []string{"framework"}},
	{name: "architecture pattern", markers: []string{"architecture"}},
	{name: "conventions", markers: []string{"convention"}},
	{name: "testing approach", markers: []string{"testing", "test strategy"}},
}

// Evaluate builds a validation report for a decoded record. The size
// limit may be absent (haveLimit false) when no pattern matches.
func Evaluate(rec model.Record, staleness model.Staleness, limit config.SizeLimit, haveLimit bool) model.ValidationReport {
	report := model.ValidationReport{
		Address:      rec.Address,
		Completeness: completeness(rec),
		Staleness:    staleness,
		LineCount:    rec.LineCount,
	}

	if haveLimit && limit.MaxLines > 0 {
		threshold := limit.MaxLines - limit.MaxLines/10
		switch {
		case rec.LineCount > limit.MaxLines:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s exceeds the %d-line limit (%d lines)", rec.Address.File, limit.MaxLines, rec.LineCount))
		case rec.LineCount >= threshold:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s is within 10%% of the %d-line limit (%d lines)", rec.Address.File, limit.MaxLines, rec.LineCount))
		}
	}

	if n := unresolvedFlags(rec.Body); n > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d flagged entries awaiting verification", n))
	}

	return report
}

func completeness(rec model.Record) model.Completeness {
	if rec.Address.File != overviewFile {
		return model.Completeness{Score: 1.0}
	}
	body := strings.ToLower(rec.Body)
	var missing []string
	found := 0
	for _, t := range requiredTopics {
		ok := false
		for _, m := range t.markers {
			if strings.Contains(body, m) {
				ok = true
				break
			}
		}
		if ok {
			found++
		} else {
			missing = append(missing, t.name)
		}
	}
	return model.Completeness{
		Score:   float64(found) / float64(len(requiredTopics)),
		Missing: missing,
	}
}

func unresolvedFlags(body string) int {
	_, entries := policy.SplitEntries(body)
	n := 0
	for _, e := range entries {
		if e.Flagged() {
			n++
		}
	}
	return n
}
