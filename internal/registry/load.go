package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ValidationError reports every structural problem found in a registry
// document. Load never fails fast; a single load surfaces the full list.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registry validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// document mirrors the on-disk registry JSON shape.
type document struct {
	Version        string           `json:"version"`
	Tiers          map[TierKey]Tier `json:"tiers"`
	Modules        []Module         `json:"modules"`
	GlobalSettings GlobalSettings   `json:"globalSettings"`
}

// Load parses and validates a registry JSON document. It returns a
// *ValidationError listing all structural problems, or the immutable
// Registry with indices built. Malformed JSON is reported as a plain error.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry document: %w", err)
	}

	errs, warns := validateDocument(&doc)
	if len(errs) > 0 {
		return nil, &ValidationError{Problems: errs}
	}

	reg := &Registry{
		Version:  doc.Version,
		Tiers:    doc.Tiers,
		Modules:  doc.Modules,
		Settings: doc.GlobalSettings,
		lint:     warns,
	}
	reg.buildIndices()
	return reg, nil
}

// canonicalVersion normalizes a registry version to the "vX.Y.Z" form
// expected by the semver package. Registry documents historically omit
// the leading v.
func canonicalVersion(v string) string {
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// CompatibleWith reports whether appVersion satisfies the registry's
// declared minimum app version. An unset minimum accepts everything.
func (r *Registry) CompatibleWith(appVersion string) bool {
	min := canonicalVersion(r.Settings.MinAppVersion)
	if min == "" || !semver.IsValid(min) {
		return true
	}
	app := canonicalVersion(appVersion)
	if !semver.IsValid(app) {
		// Development builds ("(devel)") bypass the gate.
		return true
	}
	return semver.Compare(app, min) >= 0
}
