package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// testDoc builds a minimal valid registry document that tests mutate.
func testDoc() map[string]any {
	tiers := map[string]any{}
	for i, key := range AllTiers() {
		tiers[string(key)] = map[string]any{
			"level":       i + 1,
			"title":       key.DisplayName(),
			"description": "tier description",
			"focus":       "focus area",
			"objectives":  []string{"objective one", "objective two"},
		}
	}
	return map[string]any{
		"version": "1.0.0",
		"tiers":   tiers,
		"modules": []map[string]any{
			testModule("react-fundamentals", "foundational", nil),
			testModule("graphql-apis", "core", []string{"react-fundamentals"}),
		},
		"globalSettings": map[string]any{
			"staticRoutes":        []string{"/", "/about"},
			"defaultPassingScore": 70,
		},
	}
}

func testModule(slug, tier string, prereqs []string) map[string]any {
	if prereqs == nil {
		prereqs = []string{}
	}
	return map[string]any{
		"slug":           slug,
		"title":          strings.ReplaceAll(slug, "-", " "),
		"description":    "module description",
		"tier":           tier,
		"track":          "frontend",
		"order":          1,
		"difficulty":     "Beginner",
		"estimatedHours": 4,
		"prerequisites":  prereqs,
		"thresholds":     map[string]any{"requiredLessons": 3, "requiredQuestions": 2},
		"status":         "active",
		"routes": map[string]any{
			"overview": "/modules/" + slug,
			"lessons":  "/modules/" + slug + "/lessons",
			"quiz":     "/modules/" + slug + "/quiz",
		},
	}
}

func loadDoc(t *testing.T, doc map[string]any) (*Registry, error) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal test doc: %v", err)
	}
	return Load(data)
}

func mustLoad(t *testing.T, doc map[string]any) *Registry {
	t.Helper()
	reg, err := loadDoc(t, doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return reg
}

func validationProblems(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Problems
}

func TestLoadValidRegistry(t *testing.T) {
	reg := mustLoad(t, testDoc())

	if reg.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", reg.Version)
	}
	if len(reg.AllModules()) != 2 {
		t.Errorf("module count = %d, want 2", len(reg.AllModules()))
	}
	m, err := reg.Module("graphql-apis")
	if err != nil {
		t.Fatalf("module lookup: %v", err)
	}
	if m.Tier != TierCore {
		t.Errorf("tier = %q, want core", m.Tier)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadRequiresAllTiers(t *testing.T) {
	doc := testDoc()
	delete(doc["tiers"].(map[string]any), "quality")
	// Keep modules off the removed tier.
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)
	if !containsSubstring(problems, `missing required tier "quality"`) {
		t.Errorf("problems = %v, want missing-tier error", problems)
	}
}

func TestLoadRejectsUnknownTierReference(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["tier"] = "legendary"
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)
	if !containsSubstring(problems, `undeclared tier "legendary"`) {
		t.Errorf("problems = %v, want undeclared-tier error", problems)
	}
}

func TestLoadRejectsDanglingPrerequisite(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[1]["prerequisites"] = []string{"does-not-exist"}
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)
	if !containsSubstring(problems, `nonexistent prerequisite "does-not-exist"`) {
		t.Errorf("problems = %v, want dangling-prerequisite error", problems)
	}
}

func TestLoadDetectsPrerequisiteCycle(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["prerequisites"] = []string{"graphql-apis"}
	mods[1]["prerequisites"] = []string{"react-fundamentals"}
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)

	var cycleMsg string
	for _, p := range problems {
		if strings.Contains(p, "prerequisite cycle") {
			cycleMsg = p
		}
	}
	if cycleMsg == "" {
		t.Fatalf("problems = %v, want a cycle error", problems)
	}
	// The message must identify both slugs and the full path.
	if !strings.Contains(cycleMsg, "react-fundamentals") || !strings.Contains(cycleMsg, "graphql-apis") {
		t.Errorf("cycle message %q does not name both modules", cycleMsg)
	}
	if strings.Count(cycleMsg, "->") < 2 {
		t.Errorf("cycle message %q does not report the full path", cycleMsg)
	}
}

func TestLoadReportsCycleOnlyOnce(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["prerequisites"] = []string{"graphql-apis"}
	mods[1]["prerequisites"] = []string{"react-fundamentals"}
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)

	count := 0
	for _, p := range problems {
		if strings.Contains(p, "prerequisite cycle") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("cycle reported %d times, want 1: %v", count, problems)
	}
}

func TestLoadRejectsDuplicateRoutes(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["routes"].(map[string]any)["overview"] = "/modules/x"
	mods[1]["routes"].(map[string]any)["overview"] = "/modules/x"
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)

	var dupMsg string
	for _, p := range problems {
		if strings.Contains(p, "duplicate route") {
			dupMsg = p
		}
	}
	if dupMsg == "" {
		t.Fatalf("problems = %v, want duplicate-route error", problems)
	}
	if !strings.Contains(dupMsg, "react-fundamentals") || !strings.Contains(dupMsg, "graphql-apis") {
		t.Errorf("duplicate-route message %q does not name both owners", dupMsg)
	}
}

func TestLoadRouteFormat(t *testing.T) {
	tests := []struct {
		name    string
		route   string
		wantErr string
	}{
		{"missing leading slash", "modules/x", "must start with /"},
		{"whitespace", "/modules/x y", "contains whitespace"},
		{"duplicated segments", "/modules//x", "duplicated / segments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDoc()
			mods := doc["modules"].([]map[string]any)
			mods[0]["routes"].(map[string]any)["overview"] = tt.route
			_, err := loadDoc(t, doc)
			problems := validationProblems(t, err)
			if !containsSubstring(problems, tt.wantErr) {
				t.Errorf("problems = %v, want %q", problems, tt.wantErr)
			}
		})
	}
}

func TestLoadTrailingSlashIsWarningNotError(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["routes"].(map[string]any)["overview"] = "/modules/react-fundamentals/"

	reg := mustLoad(t, doc)
	if !containsSubstring(reg.Lint(), "trailing slash") {
		t.Errorf("lint = %v, want trailing-slash warning", reg.Lint())
	}
}

func TestLoadRejectsBadSlugAndVersion(t *testing.T) {
	doc := testDoc()
	doc["version"] = "not-a-version"
	mods := doc["modules"].([]map[string]any)
	mods[0]["slug"] = "React_Fundamentals"
	mods[1]["prerequisites"] = []string{}
	_, err := loadDoc(t, doc)
	problems := validationProblems(t, err)
	if !containsSubstring(problems, "not valid semver") {
		t.Errorf("problems = %v, want semver error", problems)
	}
	if !containsSubstring(problems, "not lowercase-kebab-case") {
		t.Errorf("problems = %v, want slug format error", problems)
	}
}

func TestUnlockedAndAvailable(t *testing.T) {
	reg := mustLoad(t, testDoc())

	if reg.Unlocked("graphql-apis", map[string]bool{}) {
		t.Error("graphql-apis should be locked with no completions")
	}
	if !reg.Unlocked("graphql-apis", map[string]bool{"react-fundamentals": true}) {
		t.Error("graphql-apis should unlock after react-fundamentals")
	}

	avail := reg.AvailableModules(map[string]bool{})
	if len(avail) != 1 || avail[0].Slug != "react-fundamentals" {
		t.Errorf("available = %v, want only react-fundamentals", slugsOf(avail))
	}
}

func TestTopologicalOrder(t *testing.T) {
	doc := testDoc()
	doc["modules"] = append(doc["modules"].([]map[string]any),
		testModule("dotnet-testing", "quality", []string{"graphql-apis"}))
	reg := mustLoad(t, doc)

	order := reg.AllModules()
	pos := make(map[string]int)
	for i, m := range order {
		pos[m.Slug] = i
	}
	if pos["react-fundamentals"] > pos["graphql-apis"] || pos["graphql-apis"] > pos["dotnet-testing"] {
		t.Errorf("topological order violated: %v", slugsOf(order))
	}
}

func TestCompatibleWith(t *testing.T) {
	doc := testDoc()
	doc["globalSettings"].(map[string]any)["minAppVersion"] = "1.2.0"
	reg := mustLoad(t, doc)

	tests := []struct {
		app  string
		want bool
	}{
		{"1.2.0", true},
		{"2.0.0", true},
		{"1.1.9", false},
		{"(devel)", true},
	}
	for _, tt := range tests {
		if got := reg.CompatibleWith(tt.app); got != tt.want {
			t.Errorf("CompatibleWith(%q) = %v, want %v", tt.app, got, tt.want)
		}
	}
}

func TestPassingScoreFallback(t *testing.T) {
	doc := testDoc()
	mods := doc["modules"].([]map[string]any)
	mods[0]["thresholds"] = map[string]any{"requiredLessons": 3, "requiredQuestions": 2, "passingScore": 85}
	reg := mustLoad(t, doc)

	if got := reg.PassingScoreFor("react-fundamentals"); got != 85 {
		t.Errorf("explicit passing score = %d, want 85", got)
	}
	if got := reg.PassingScoreFor("graphql-apis"); got != 70 {
		t.Errorf("default passing score = %d, want 70", got)
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func slugsOf(mods []Module) string {
	var slugs []string
	for _, m := range mods {
		slugs = append(slugs, m.Slug)
	}
	return fmt.Sprintf("%v", slugs)
}
