package policy

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/forgekit/skillmem/internal/config"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(NewRegistry(config.Default()))
}

func historyBody(n int) string {
	var b strings.Builder
	b.WriteString("# Review History\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "## Review %d\nnotes for review %d\n", i, i)
	}
	return b.String()
}

func TestKeepLastN(t *testing.T) {
	e := testEngine(t)
	now := time.Now()

	res := e.Apply("review_history.md", historyBody(12), now)

	_, kept := SplitEntries(res.Body)
	if len(kept) != 10 {
		t.Fatalf("expected 10 kept entries, got %d", len(kept))
	}
	if len(res.Overflow) != 2 {
		t.Fatalf("expected 2 overflow entries, got %d", len(res.Overflow))
	}
	// Oldest first, verbatim.
	if !strings.HasPrefix(res.Overflow[0].Text, "## Review 1\n") {
		t.Errorf("overflow not oldest-first: %q", res.Overflow[0].Text)
	}
	if !strings.HasPrefix(res.Overflow[1].Text, "## Review 2\n") {
		t.Errorf("overflow not in original order: %q", res.Overflow[1].Text)
	}
	if !strings.HasPrefix(kept[0].Text, "## Review 3\n") {
		t.Errorf("newest entries should remain, got %q", kept[0].Text)
	}
	if !strings.HasPrefix(res.Body, "# Review History\n") {
		t.Error("header must survive pruning")
	}
}

func TestKeepLastNAtExactLimit(t *testing.T) {
	e := testEngine(t)
	body := historyBody(10)
	res := e.Apply("review_history.md", body, time.Now())
	if res.Body != body {
		t.Error("a record at exactly keep_last_n must not change")
	}
	if len(res.Overflow) != 0 {
		t.Errorf("expected no overflow, got %d", len(res.Overflow))
	}
}

func TestExpireResolvedEntries(t *testing.T) {
	e := testEngine(t)
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40).Format("2006-01-02")
	recent := now.AddDate(0, 0, -5).Format("2006-01-02")

	body := "# Known Issues\n\n" +
		"## " + old + ": old resolved\nStatus: RESOLVED\n\n" +
		"## " + recent + ": fresh resolved\nStatus: RESOLVED\n\n" +
		"## " + old + ": old but open\nstill broken\n"

	res := e.Apply("known_issues.md", body, now)
	if res.Expired != 1 {
		t.Fatalf("expected 1 expired entry, got %d", res.Expired)
	}
	if strings.Contains(res.Body, "old resolved") {
		t.Error("expired entry still present")
	}
	if !strings.Contains(res.Body, "fresh resolved") {
		t.Error("recently resolved entry must be retained")
	}
	if !strings.Contains(res.Body, "old but open") {
		t.Error("unresolved entries are retained regardless of age")
	}
}

func TestFlagUnverifiedEntries(t *testing.T) {
	e := testEngine(t)
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	ancient := now.AddDate(0, 0, -120).Format("2006-01-02")

	body := "# Known Issues\n\n## " + ancient + ": lingering\nno news\n"
	res := e.Apply("known_issues.md", body, now)
	if res.Flagged != 1 {
		t.Fatalf("expected 1 flagged entry, got %d", res.Flagged)
	}
	if !strings.Contains(res.Body, VerifyFlag) {
		t.Error("expected verify annotation in body")
	}
	if !strings.Contains(res.Body, "lingering") {
		t.Error("flagging must not remove content")
	}

	// Flagging is idempotent.
	again := e.Apply("known_issues.md", res.Body, now)
	if again.Flagged != 0 {
		t.Errorf("already-flagged entry flagged again, %d", again.Flagged)
	}
	if again.Body != res.Body {
		t.Error("second pass must not change the body")
	}
}

func TestUndatedEntriesNeverExpire(t *testing.T) {
	e := testEngine(t)
	body := "# Known Issues\n\n## undated resolved issue\nStatus: RESOLVED\n"
	res := e.Apply("known_issues.md", body, time.Now())
	if res.Expired != 0 || res.Body != body {
		t.Error("entries without a date are retained regardless of age")
	}
}

func TestArchiveFilesNeverPruned(t *testing.T) {
	e := testEngine(t)
	body := historyBody(50)
	res := e.Apply("review_history_archive.md", body, time.Now())
	if res.Body != body || len(res.Overflow) != 0 {
		t.Error("archive records must never be auto-pruned")
	}
}

func TestApplyNamedOverride(t *testing.T) {
	e := testEngine(t)
	res, err := e.ApplyNamed("history", "notes.md", historyBody(12), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Overflow) != 2 {
		t.Errorf("override should apply the history policy, got %d overflow", len(res.Overflow))
	}

	if _, err := e.ApplyNamed("nope", "notes.md", "", time.Now()); err == nil {
		t.Error("expected error for unknown policy name")
	}
}

func TestNoPolicyNoChange(t *testing.T) {
	e := testEngine(t)
	body := historyBody(40)
	res := e.Apply("scratchpad.md", body, time.Now())
	if res.Body != body {
		t.Error("file without a policy must pass through unchanged")
	}
}

func TestArchiveFileNames(t *testing.T) {
	cases := map[string]string{
		"review_history.md": "review_history_archive.md",
		"known_issues.md":   "known_issues_archive.md",
		"notes":             "notes_archive",
	}
	for in, want := range cases {
		if got := ArchiveFile(in); got != want {
			t.Errorf("ArchiveFile(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsArchive("review_history_archive.md") {
		t.Error("expected archive detection")
	}
	if IsArchive("review_history.md") {
		t.Error("primary file detected as archive")
	}
}

func TestLimitForPrefersSpecificPattern(t *testing.T) {
	reg := NewRegistry(config.Default())
	l, ok := reg.LimitFor("project_overview.md")
	if !ok || l.MaxLines != 200 {
		t.Errorf("expected 200-line limit, got %+v", l)
	}
	l, ok = reg.LimitFor("review_history.md")
	if !ok || l.MaxLines != 300 {
		t.Errorf("expected 300-line limit, got %+v", l)
	}
	l, ok = reg.LimitFor("anything_else.md")
	if !ok || l.MaxLines != 500 {
		t.Errorf("expected 500-line default, got %+v", l)
	}
}
