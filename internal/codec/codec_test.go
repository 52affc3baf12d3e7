package codec

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	updated := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	body := "# Known Issues\n\n## Issue one\nDetails here.\n"

	data := Encode(updated, body)

	first, _, _ := strings.Cut(string(data), "\n")
	if first != "<!-- Last Updated: 2026-02-10 -->" {
		t.Errorf("unexpected marker line %q", first)
	}

	gotTime, gotBody := Decode(data)
	if gotBody != body {
		t.Errorf("body round trip failed:\n%q\n%q", body, gotBody)
	}
	if !gotTime.Equal(updated) {
		t.Errorf("expected %v, got %v", updated, gotTime)
	}
}

func TestDecodeMissingMarker(t *testing.T) {
	body := "# No marker here\nContent\n"
	gotTime, gotBody := Decode([]byte(body))
	if !gotTime.IsZero() {
		t.Errorf("expected zero time, got %v", gotTime)
	}
	if gotBody != body {
		t.Errorf("expected full input as body, got %q", gotBody)
	}
}

func TestDecodeUnparsableMarker(t *testing.T) {
	body := "<!-- Last Updated: not-a-date -->\nContent\n"
	gotTime, gotBody := Decode([]byte(body))
	if !gotTime.IsZero() {
		t.Errorf("expected zero time, got %v", gotTime)
	}
	if gotBody != body {
		t.Errorf("marker-less decode should keep the full input, got %q", gotBody)
	}
}

func TestDecodeBoldMarkerNotAccepted(t *testing.T) {
	// The bold markdown variant is not the machine-readable format.
	body := "**Last Updated**: 2026-01-01\nContent\n"
	gotTime, _ := Decode([]byte(body))
	if !gotTime.IsZero() {
		t.Errorf("expected zero time for non-standard marker, got %v", gotTime)
	}
}

func TestDecodeMarkerOnly(t *testing.T) {
	gotTime, gotBody := Decode(Encode(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ""))
	if gotTime.IsZero() {
		t.Error("expected parsed time")
	}
	if gotBody != "" {
		t.Errorf("expected empty body, got %q", gotBody)
	}
}

func TestLineCount(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{"", 0},
		{"one line\n", 1},
		{"one line", 1},
		{"a\nb\nc\n", 3},
		{"a\nb\nc", 3},
		{"\n", 1},
	}
	for _, tc := range cases {
		if got := LineCount(tc.body); got != tc.want {
			t.Errorf("LineCount(%q) = %d, want %d", tc.body, got, tc.want)
		}
	}
}

func TestHasMarker(t *testing.T) {
	if !HasMarker(Encode(time.Now(), "body\n")) {
		t.Error("expected marker on encoded record")
	}
	if HasMarker([]byte("# plain\n")) {
		t.Error("did not expect marker on plain markdown")
	}
}
