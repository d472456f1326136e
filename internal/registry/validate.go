package registry

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// validateDocument performs all structural checks on a parsed registry
// document. It returns blocking errors and non-fatal lint warnings.
func validateDocument(doc *document) (errs, warns []string) {
	if doc.Version == "" {
		errs = append(errs, "missing registry version")
	} else if !semver.IsValid(canonicalVersion(doc.Version)) {
		errs = append(errs, fmt.Sprintf("registry version %q is not valid semver", doc.Version))
	}

	// All four tiers must be declared.
	for _, key := range AllTiers() {
		if _, ok := doc.Tiers[key]; !ok {
			errs = append(errs, fmt.Sprintf("missing required tier %q", key))
		}
	}
	for key := range doc.Tiers {
		if !isKnownTier(key) {
			errs = append(errs, fmt.Sprintf("unknown tier %q declared", key))
		}
	}
	for key, tier := range doc.Tiers {
		if len(tier.Objectives) == 0 {
			errs = append(errs, fmt.Sprintf("tier %q declares no learning objectives", key))
		}
	}

	slugSet := make(map[string]bool, len(doc.Modules))
	for _, m := range doc.Modules {
		if slugSet[m.Slug] {
			errs = append(errs, fmt.Sprintf("duplicate module slug: %q", m.Slug))
		}
		slugSet[m.Slug] = true
	}

	for _, m := range doc.Modules {
		if m.Slug == "" {
			errs = append(errs, "module with empty slug")
			continue
		}
		if !isKebabCase(m.Slug) {
			errs = append(errs, fmt.Sprintf("module slug %q is not lowercase-kebab-case", m.Slug))
		}
		if _, ok := doc.Tiers[m.Tier]; !ok {
			errs = append(errs, fmt.Sprintf("module %q references undeclared tier %q", m.Slug, m.Tier))
		}
		for _, prereq := range m.Prerequisites {
			if !slugSet[prereq] {
				errs = append(errs, fmt.Sprintf("module %q references nonexistent prerequisite %q", m.Slug, prereq))
			}
		}
	}

	errs = append(errs, findCycles(doc.Modules)...)

	routeErrs, routeWarns := validateRoutes(doc)
	errs = append(errs, routeErrs...)
	warns = append(warns, routeWarns...)

	return errs, warns
}

func isKnownTier(key TierKey) bool {
	for _, k := range AllTiers() {
		if k == key {
			return true
		}
	}
	return false
}

// isKebabCase accepts lowercase letters, digits, and single interior dashes.
func isKebabCase(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// findCycles detects prerequisite cycles with a depth-first traversal that
// tracks the current path, so each error can report the full cycle.
func findCycles(modules []Module) []string {
	prereqs := make(map[string][]string, len(modules))
	for _, m := range modules {
		prereqs[m.Slug] = m.Prerequisites
	}

	var errs []string
	seen := make(map[string]bool)   // cycles already reported, keyed by canonical rotation
	done := make(map[string]bool)   // fully explored nodes
	onPath := make(map[string]bool) // nodes on the current DFS path
	var path []string

	var visit func(slug string)
	visit = func(slug string) {
		if done[slug] {
			return
		}
		if onPath[slug] {
			// Extract the cycle segment of the current path.
			start := 0
			for i, s := range path {
				if s == slug {
					start = i
					break
				}
			}
			cycle := append(clonePath(path[start:]), slug)
			key := canonicalCycle(cycle)
			if !seen[key] {
				seen[key] = true
				errs = append(errs, fmt.Sprintf("prerequisite cycle: %s", strings.Join(cycle, " -> ")))
			}
			return
		}

		onPath[slug] = true
		path = append(path, slug)
		for _, prereq := range prereqs[slug] {
			if _, exists := prereqs[prereq]; exists {
				visit(prereq)
			}
		}
		path = path[:len(path)-1]
		onPath[slug] = false
		done[slug] = true
	}

	for _, m := range modules {
		visit(m.Slug)
	}
	return errs
}

func clonePath(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// canonicalCycle produces a rotation-independent key for a cycle path.
// The closing repeat of the first element is dropped before rotating.
func canonicalCycle(cycle []string) string {
	nodes := cycle[:len(cycle)-1]
	minIdx := 0
	for i, s := range nodes {
		if s < nodes[minIdx] {
			minIdx = i
		}
	}
	rotated := append(clonePath(nodes[minIdx:]), nodes[:minIdx]...)
	return strings.Join(rotated, "|")
}

// CheckIntegrity re-runs the prerequisite-cycle and route-uniqueness
// checks against the loaded registry. Load already enforces both; the
// content validator repeats them as a reference-integrity pass.
func (r *Registry) CheckIntegrity() []string {
	doc := &document{
		Version:        r.Version,
		Tiers:          r.Tiers,
		Modules:        r.Modules,
		GlobalSettings: r.Settings,
	}
	problems := findCycles(doc.Modules)
	routeErrs, _ := validateRoutes(doc)
	return append(problems, routeErrs...)
}

// validateRoutes checks route format and global uniqueness across every
// module route and declared static route.
func validateRoutes(doc *document) (errs, warns []string) {
	type routeDecl struct {
		path  string
		owner string
	}
	var decls []routeDecl
	for _, m := range doc.Modules {
		decls = append(decls,
			routeDecl{m.Routes.Overview, m.Slug},
			routeDecl{m.Routes.Lessons, m.Slug},
			routeDecl{m.Routes.Quiz, m.Slug},
		)
	}
	for _, p := range doc.GlobalSettings.StaticRoutes {
		decls = append(decls, routeDecl{p, "globalSettings.staticRoutes"})
	}

	owners := make(map[string]string, len(decls))
	for _, d := range decls {
		if d.path == "" {
			errs = append(errs, fmt.Sprintf("empty route path declared by %q", d.owner))
			continue
		}
		if prev, ok := owners[d.path]; ok {
			errs = append(errs, fmt.Sprintf("duplicate route %q declared by %q and %q", d.path, prev, d.owner))
		} else {
			owners[d.path] = d.owner
		}

		if !strings.HasPrefix(d.path, "/") {
			errs = append(errs, fmt.Sprintf("route %q (%s) must start with /", d.path, d.owner))
		}
		if strings.ContainsAny(d.path, " \t\n") {
			errs = append(errs, fmt.Sprintf("route %q (%s) contains whitespace", d.path, d.owner))
		}
		if strings.Contains(d.path, "//") {
			errs = append(errs, fmt.Sprintf("route %q (%s) contains duplicated / segments", d.path, d.owner))
		}
		if d.path != "/" && strings.HasSuffix(d.path, "/") {
			warns = append(warns, fmt.Sprintf("route %q (%s) has a trailing slash", d.path, d.owner))
		}
	}
	return errs, warns
}
