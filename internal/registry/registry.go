package registry

import (
	"fmt"
	"slices"
	"sort"
)

// TierKey identifies one of the four fixed learning tiers.
type TierKey string

const (
	TierFoundational TierKey = "foundational"
	TierCore         TierKey = "core"
	TierSpecialized  TierKey = "specialized"
	TierQuality      TierKey = "quality"
)

// AllTiers returns the tier keys in curriculum order.
func AllTiers() []TierKey {
	return []TierKey{TierFoundational, TierCore, TierSpecialized, TierQuality}
}

// DisplayName returns a human-readable label for the tier key.
func (k TierKey) DisplayName() string {
	switch k {
	case TierFoundational:
		return "Foundational"
	case TierCore:
		return "Core"
	case TierSpecialized:
		return "Specialized"
	case TierQuality:
		return "Quality"
	default:
		return string(k)
	}
}

// Tier describes one learning stage of the curriculum.
type Tier struct {
	Level       int      `json:"level"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Focus       string   `json:"focus"`
	Objectives  []string `json:"objectives"`
}

// Track is the content track a module belongs to.
type Track string

const (
	TrackBackend  Track = "backend"
	TrackFrontend Track = "frontend"
	TrackQuality  Track = "quality"
)

// Difficulty is the declared difficulty of a module or lesson.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Status is the content lifecycle state of a module.
type Status string

const (
	StatusActive         Status = "active"
	StatusContentPending Status = "content-pending"
)

// Thresholds declares the minimum content a module must ship with.
type Thresholds struct {
	RequiredLessons   int `json:"requiredLessons"`
	RequiredQuestions int `json:"requiredQuestions"`
	PassingScore      int `json:"passingScore,omitempty"`
}

// Routes holds the three URL paths a module owns.
type Routes struct {
	Overview string `json:"overview"`
	Lessons  string `json:"lessons"`
	Quiz     string `json:"quiz"`
}

// Module is a single unit of learning content in the catalog.
type Module struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Tier           TierKey    `json:"tier"`
	Track          Track      `json:"track"`
	Order          int        `json:"order"`
	Difficulty     Difficulty `json:"difficulty"`
	EstimatedHours float64    `json:"estimatedHours"`
	Prerequisites  []string   `json:"prerequisites"`
	Thresholds     Thresholds `json:"thresholds"`
	Status         Status     `json:"status"`
	Routes         Routes     `json:"routes"`
}

// DefaultPassingScore applies when a module declares no passing score.
const DefaultPassingScore = 70

// PassingScore returns the module's quiz passing score, falling back to
// the registry default when unset.
func (m *Module) PassingScore(registryDefault int) int {
	if m.Thresholds.PassingScore > 0 {
		return m.Thresholds.PassingScore
	}
	if registryDefault > 0 {
		return registryDefault
	}
	return DefaultPassingScore
}

// RequiresQuiz reports whether the module gates completion on a quiz.
func (m *Module) RequiresQuiz() bool {
	return m.Thresholds.RequiredQuestions > 0
}

// GlobalSettings holds registry-wide configuration.
type GlobalSettings struct {
	StaticRoutes        []string `json:"staticRoutes"`
	DefaultPassingScore int      `json:"defaultPassingScore"`
	MinAppVersion       string   `json:"minAppVersion"`
}

// Registry is the immutable module catalog with precomputed indices.
// Build it with Load; it is not mutated at runtime.
type Registry struct {
	Version  string
	Tiers    map[TierKey]Tier
	Modules  []Module
	Settings GlobalSettings

	bySlug     map[string]*Module
	byTier     map[TierKey][]Module
	dependents map[string][]string
	topoOrder  []Module
	topoIndex  map[string]int
	lint       []string
}

// buildIndices constructs slug/tier lookups and a topological order
// (Kahn's algorithm). The prerequisite graph has already been proven
// acyclic at this point.
func (r *Registry) buildIndices() {
	r.bySlug = make(map[string]*Module, len(r.Modules))
	r.byTier = make(map[TierKey][]Module)
	r.dependents = make(map[string][]string)
	r.topoIndex = make(map[string]int, len(r.Modules))

	for i := range r.Modules {
		r.bySlug[r.Modules[i].Slug] = &r.Modules[i]
	}
	for i := range r.Modules {
		for _, prereq := range r.Modules[i].Prerequisites {
			r.dependents[prereq] = append(r.dependents[prereq], r.Modules[i].Slug)
		}
	}

	inDegree := make(map[string]int, len(r.Modules))
	for i := range r.Modules {
		inDegree[r.Modules[i].Slug] = len(r.Modules[i].Prerequisites)
	}

	var queue []string
	for slug, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, slug)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		slug := queue[0]
		queue = queue[1:]

		mod := r.bySlug[slug]
		r.topoOrder = append(r.topoOrder, *mod)

		deps := slices.Clone(r.dependents[slug])
		sort.Strings(deps)
		for _, dep := range deps {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	for i, m := range r.topoOrder {
		r.topoIndex[m.Slug] = i
	}

	// Tier groups sorted by declared display order, topo position as
	// tie-break.
	for i := range r.Modules {
		m := r.Modules[i]
		r.byTier[m.Tier] = append(r.byTier[m.Tier], m)
	}
	for tier, mods := range r.byTier {
		sorted := slices.Clone(mods)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Order != sorted[j].Order {
				return sorted[i].Order < sorted[j].Order
			}
			return r.topoIndex[sorted[i].Slug] < r.topoIndex[sorted[j].Slug]
		})
		r.byTier[tier] = sorted
	}
}

// Module returns a module by slug, or an error if not found.
func (r *Registry) Module(slug string) (Module, error) {
	m, ok := r.bySlug[slug]
	if !ok {
		return Module{}, fmt.Errorf("module not found: %q", slug)
	}
	return *m, nil
}

// Has reports whether the registry declares the given module slug.
func (r *Registry) Has(slug string) bool {
	_, ok := r.bySlug[slug]
	return ok
}

// AllModules returns all modules in topological order.
func (r *Registry) AllModules() []Module {
	return slices.Clone(r.topoOrder)
}

// ActiveModules returns modules with published content, in topological order.
func (r *Registry) ActiveModules() []Module {
	var out []Module
	for _, m := range r.topoOrder {
		if m.Status == StatusActive {
			out = append(out, m)
		}
	}
	return out
}

// ModulesInTier returns the modules of a tier in display order.
func (r *Registry) ModulesInTier(tier TierKey) []Module {
	return slices.Clone(r.byTier[tier])
}

// ActiveModulesInTier returns the active modules of a tier in display order.
func (r *Registry) ActiveModulesInTier(tier TierKey) []Module {
	var out []Module
	for _, m := range r.byTier[tier] {
		if m.Status == StatusActive {
			out = append(out, m)
		}
	}
	return out
}

// Dependents returns the slugs of modules that list slug as a prerequisite.
func (r *Registry) Dependents(slug string) []string {
	return slices.Clone(r.dependents[slug])
}

// Unlocked reports whether every prerequisite of slug is in the completed set.
func (r *Registry) Unlocked(slug string, completed map[string]bool) bool {
	m, ok := r.bySlug[slug]
	if !ok {
		return false
	}
	for _, prereq := range m.Prerequisites {
		if !completed[prereq] {
			return false
		}
	}
	return true
}

// AvailableModules returns active modules that are unlocked but not yet
// completed, in topological order.
func (r *Registry) AvailableModules(completed map[string]bool) []Module {
	var out []Module
	for _, m := range r.topoOrder {
		if m.Status != StatusActive || completed[m.Slug] {
			continue
		}
		if r.Unlocked(m.Slug, completed) {
			out = append(out, m)
		}
	}
	return out
}

// PassingScoreFor returns the effective quiz passing score for a module slug.
func (r *Registry) PassingScoreFor(slug string) int {
	m, ok := r.bySlug[slug]
	if !ok {
		return DefaultPassingScore
	}
	return m.PassingScore(r.Settings.DefaultPassingScore)
}

// Lint returns non-fatal quality findings recorded during load, such as
// trailing-slash routes. The content validator surfaces these as warnings.
func (r *Registry) Lint() []string {
	return slices.Clone(r.lint)
}
