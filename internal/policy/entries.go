package policy

import (
	"regexp"
	"strings"
	"time"
)

// entryHeading marks an entry boundary: a level-2 heading at the start
// of a line. Everything before the first heading is the record header
// and is never pruned.
const entryHeading = "## "

// VerifyFlag is the annotation prepended to entries that have gone too
// long without being touched.
const VerifyFlag = "[VERIFY STATUS]"

var entryDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Entry is one delimited section of a record body.
type Entry struct {
	Text string
}

// Date returns the entry's own last-touched date: the first ISO date
// found in its text. Entries without a date report ok=false and are
// retained regardless of age.
func (e Entry) Date() (time.Time, bool) {
	m := entryDateRe.FindString(e.Text)
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolved reports whether the entry carries the given status marker.
func (e Entry) Resolved(marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(e.Text), strings.ToUpper(marker))
}

// Flagged reports whether the entry already carries the verify flag.
func (e Entry) Flagged() bool {
	return strings.Contains(e.Text, VerifyFlag)
}

// Flag inserts the verify annotation as the first line after the entry
// heading. In-place mutation of the text, never a deletion.
func (e Entry) Flag() Entry {
	heading, rest, found := strings.Cut(e.Text, "\n")
	if !found {
		return Entry{Text: heading + "\n" + VerifyFlag + "\n"}
	}
	return Entry{Text: heading + "\n" + VerifyFlag + "\n" + rest}
}

// SplitEntries breaks a body into its header and ordered entries.
// JoinEntries(header, entries) reassembles the exact body when nothing
// was mutated in between.
func SplitEntries(body string) (header string, entries []Entry) {
	lines := strings.SplitAfter(body, "\n")
	var current strings.Builder
	inEntry := false

	flush := func() {
		if !inEntry {
			header = current.String()
		} else {
			entries = append(entries, Entry{Text: current.String()})
		}
		current.Reset()
	}

	for _, line := range lines {
		if strings.HasPrefix(line, entryHeading) {
			flush()
			inEntry = true
		}
		current.WriteString(line)
	}
	flush()
	return header, entries
}

// JoinEntries reassembles a body from its header and entries.
func JoinEntries(header string, entries []Entry) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		b.WriteString(e.Text)
	}
	return b.String()
}
