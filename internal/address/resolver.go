// Package address maps logical record addresses to storage locations
// and back. It is the injection-safety boundary for caller-supplied
// skill and project names.
package address

import (
	"fmt"
	"strings"

	"github.com/forgekit/skillmem/internal/model"
)

// Directory prefixes for the two layers. The scheme mirrors the
// on-disk layout agents already use: skills/<skill>/<project>/<file>
// and projects/<project>/<file>.
const (
	skillPrefix   = "skills"
	projectPrefix = "projects"
)

// Resolve maps an address to its storage location. It is deterministic
// and injective: distinct valid addresses never collide.
func Resolve(a model.Address) (string, error) {
	if err := Validate(a); err != nil {
		return "", err
	}
	if a.Layer == model.LayerSkill {
		return skillPrefix + "/" + a.Skill + "/" + a.Project + "/" + a.File, nil
	}
	return projectPrefix + "/" + a.Project + "/" + a.File, nil
}

// Parse is the inverse of Resolve: Parse(Resolve(a)) == a for every
// valid address.
func Parse(location string) (model.Address, error) {
	parts := strings.Split(location, "/")
	switch {
	case len(parts) == 4 && parts[0] == skillPrefix:
		a := model.Address{Layer: model.LayerSkill, Skill: parts[1], Project: parts[2], File: parts[3]}
		if err := Validate(a); err != nil {
			return model.Address{}, err
		}
		return a, nil
	case len(parts) == 3 && parts[0] == projectPrefix:
		a := model.Address{Layer: model.LayerProject, Project: parts[1], File: parts[2]}
		if err := Validate(a); err != nil {
			return model.Address{}, err
		}
		return a, nil
	}
	return model.Address{}, fmt.Errorf("%w: unrecognized location %q", model.ErrInvalidAddress, location)
}

// Validate checks layer/skill consistency and rejects path-traversal
// in any caller-supplied component.
func Validate(a model.Address) error {
	if !a.Layer.Valid() {
		return fmt.Errorf("%w: unknown layer %q", model.ErrInvalidAddress, a.Layer)
	}
	switch a.Layer {
	case model.LayerSkill:
		if a.Skill == "" {
			return fmt.Errorf("%w: skill is required for layer %s", model.ErrInvalidAddress, a.Layer)
		}
		if err := checkComponent("skill", a.Skill); err != nil {
			return err
		}
	case model.LayerProject:
		if a.Skill != "" {
			return fmt.Errorf("%w: skill must be empty for layer %s", model.ErrInvalidAddress, a.Layer)
		}
	}
	if a.Project == "" {
		return fmt.Errorf("%w: project is required", model.ErrInvalidAddress)
	}
	if err := checkComponent("project", a.Project); err != nil {
		return err
	}
	if a.File == "" {
		return fmt.Errorf("%w: file is required", model.ErrInvalidAddress)
	}
	return checkComponent("file", a.File)
}

func checkComponent(name, v string) error {
	if v == "." || v == ".." {
		return fmt.Errorf("%w: %s must not be a dot segment", model.ErrInvalidAddress, name)
	}
	if strings.ContainsAny(v, "/\\") {
		return fmt.Errorf("%w: %s %q contains a path separator", model.ErrInvalidAddress, name, v)
	}
	if strings.Contains(v, "..") {
		return fmt.Errorf("%w: %s %q contains a traversal sequence", model.ErrInvalidAddress, name, v)
	}
	if strings.HasPrefix(v, "~") {
		return fmt.Errorf("%w: %s %q has a home-relative prefix", model.ErrInvalidAddress, name, v)
	}
	return nil
}
