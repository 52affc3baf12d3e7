package address

import (
	"errors"
	"testing"

	"github.com/forgekit/skillmem/internal/model"
)

func TestResolveRoundTrip(t *testing.T) {
	addrs := []model.Address{
		{Layer: model.LayerSkill, Skill: "security-reviewer", Project: "acme-api", File: "known_issues.md"},
		{Layer: model.LayerSkill, Skill: "python-code-review", Project: "proj", File: "review_history.md"},
		{Layer: model.LayerProject, Project: "acme-api", File: "project_overview.md"},
	}
	for _, a := range addrs {
		loc, err := Resolve(a)
		if err != nil {
			t.Fatalf("resolve %v: %v", a, err)
		}
		back, err := Parse(loc)
		if err != nil {
			t.Fatalf("parse %q: %v", loc, err)
		}
		if back != a {
			t.Errorf("round trip failed: %v -> %q -> %v", a, loc, back)
		}
	}
}

func TestResolveLayout(t *testing.T) {
	loc, err := Resolve(model.Address{Layer: model.LayerSkill, Skill: "reviewer", Project: "p", File: "f.md"})
	if err != nil {
		t.Fatal(err)
	}
	if loc != "skills/reviewer/p/f.md" {
		t.Errorf("unexpected skill location %q", loc)
	}

	loc, err = Resolve(model.Address{Layer: model.LayerProject, Project: "p", File: "f.md"})
	if err != nil {
		t.Fatal(err)
	}
	if loc != "projects/p/f.md" {
		t.Errorf("unexpected project location %q", loc)
	}
}

func TestResolveRejectsUnsafeComponents(t *testing.T) {
	cases := []model.Address{
		{Layer: model.LayerSkill, Project: "p", File: "f.md"},                           // missing skill
		{Layer: model.LayerProject, Skill: "s", Project: "p", File: "f.md"},             // skill on shared layer
		{Layer: model.LayerProject, Project: "", File: "f.md"},                          // empty project
		{Layer: model.LayerProject, Project: "p", File: ""},                             // empty file
		{Layer: model.LayerProject, Project: "..", File: "f.md"},                        // dot segment
		{Layer: model.LayerProject, Project: "a/../b", File: "f.md"},                    // traversal
		{Layer: model.LayerProject, Project: "p", File: "../../etc/passwd"},             // traversal in file
		{Layer: model.LayerProject, Project: "p", File: "sub/f.md"},                     // separator
		{Layer: model.LayerSkill, Skill: "s\\evil", Project: "p", File: "f.md"},         // backslash
		{Layer: model.LayerProject, Project: "~root", File: "f.md"},                     // home prefix
		{Layer: "agents", Project: "p", File: "f.md"},                                   // unknown layer
	}
	for _, a := range cases {
		if _, err := Resolve(a); !errors.Is(err, model.ErrInvalidAddress) {
			t.Errorf("expected ErrInvalidAddress for %v, got %v", a, err)
		}
	}
}

func TestParseRejectsForeignLocations(t *testing.T) {
	for _, loc := range []string{
		"skills/only/two",
		"projects/p",
		"other/p/f.md",
		"skills/a/b/c/d.md",
		"",
	} {
		if _, err := Parse(loc); !errors.Is(err, model.ErrInvalidAddress) {
			t.Errorf("expected ErrInvalidAddress for %q, got %v", loc, err)
		}
	}
}
