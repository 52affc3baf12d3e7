// Package codec reads and writes the persisted record envelope: a
// single freshness marker line followed by the body verbatim.
package codec

import (
	"regexp"
	"strings"
	"time"
)

// Marker line format. The date is day-granular on purpose: agents
// editing memory files by hand keep this readable.
const (
	markerPrefix = "<!-- Last Updated: "
	markerSuffix = " -->"
	dateLayout   = "2006-01-02"
)

var markerRe = regexp.MustCompile(`^<!--\s*Last Updated:\s*(\d{4}-\d{2}-\d{2})\s*-->\s*$`)

// Encode renders a record body with its marker line prepended.
func Encode(updatedAt time.Time, body string) []byte {
	var b strings.Builder
	b.WriteString(markerPrefix)
	b.WriteString(updatedAt.UTC().Format(dateLayout))
	b.WriteString(markerSuffix)
	b.WriteString("\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Decode extracts the timestamp and body from encoded bytes. It never
// fails: when the marker line is missing or unparsable the returned
// time is zero and the full input is the body, so legacy files degrade
// in staleness accuracy instead of crashing the store. Callers fall
// back to the storage modification time for a zero timestamp.
func Decode(data []byte) (updatedAt time.Time, body string) {
	s := string(data)
	first, rest, found := strings.Cut(s, "\n")
	m := markerRe.FindStringSubmatch(first)
	if m == nil {
		return time.Time{}, s
	}
	t, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return time.Time{}, s
	}
	if !found {
		rest = ""
	}
	return t, rest
}

// HasMarker reports whether the first line of data carries a parsable
// freshness marker.
func HasMarker(data []byte) bool {
	first, _, _ := strings.Cut(string(data), "\n")
	return markerRe.MatchString(first)
}

// LineCount counts newline-delimited lines in a body, excluding the
// marker line by construction (callers pass the decoded body). A body
// with trailing newline counts the same as one without.
func LineCount(body string) int {
	if body == "" {
		return 0
	}
	n := strings.Count(body, "\n")
	if !strings.HasSuffix(body, "\n") {
		n++
	}
	return n
}
