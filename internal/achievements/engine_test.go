package achievements

import (
	"testing"
	"time"

	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/streak"
)

const registryDoc = `{
	"version": "1.0.0",
	"tiers": {
		"foundational": {"level": 1, "title": "Foundational", "description": "d", "focus": "f", "objectives": ["a"]},
		"core": {"level": 2, "title": "Core", "description": "d", "focus": "f", "objectives": ["a"]},
		"specialized": {"level": 3, "title": "Specialized", "description": "d", "focus": "f", "objectives": ["a"]},
		"quality": {"level": 4, "title": "Quality", "description": "d", "focus": "f", "objectives": ["a"]}
	},
	"modules": [
		{
			"slug": "html-css", "title": "HTML & CSS", "description": "d",
			"tier": "foundational", "track": "frontend", "order": 1,
			"difficulty": "Beginner", "estimatedHours": 4, "prerequisites": [],
			"thresholds": {"requiredLessons": 2, "requiredQuestions": 2},
			"status": "active",
			"routes": {"overview": "/modules/html-css", "lessons": "/modules/html-css/lessons", "quiz": "/modules/html-css/quiz"}
		},
		{
			"slug": "react-basics", "title": "React Basics", "description": "d",
			"tier": "core", "track": "frontend", "order": 1,
			"difficulty": "Intermediate", "estimatedHours": 6, "prerequisites": ["html-css"],
			"thresholds": {"requiredLessons": 2, "requiredQuestions": 2},
			"status": "active",
			"routes": {"overview": "/modules/react-basics", "lessons": "/modules/react-basics/lessons", "quiz": "/modules/react-basics/quiz"}
		}
	],
	"globalSettings": {"staticRoutes": ["/"], "defaultPassingScore": 70}
}`

func testReg(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load([]byte(registryDoc))
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

func completedRecord(slug string, tier registry.TierKey, score int) *progress.Record {
	return &progress.Record{
		ModuleSlug:       slug,
		Tier:             tier,
		CompletedLessons: []string{"l1", "l2"},
		TotalLessons:     2,
		QuizScore:        &score,
		Status:           progress.Completed,
	}
}

func earnedIDs(earned []Earned) []string {
	out := make([]string, len(earned))
	for i, e := range earned {
		out[i] = e.AchievementID
	}
	return out
}

func hasID(earned []Earned, id string) bool {
	for _, e := range earned {
		if e.AchievementID == id {
			return true
		}
	}
	return false
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog() {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Unlocked == nil {
			t.Errorf("achievement %q has no unlock predicate", a.ID)
		}
	}
}

func TestFirstCompletionUnlocks(t *testing.T) {
	reg := testReg(t)
	snap := progress.Snapshot{
		"html-css": completedRecord("html-css", registry.TierFoundational, 85),
	}
	stats := BuildStats(reg, snap, streak.NewRecord())

	newly := Evaluate(Catalog(), stats, map[string]bool{}, time.Now())
	if !hasID(newly, "first-steps") {
		t.Errorf("earned = %v, want first-steps", earnedIDs(newly))
	}
	if !hasID(newly, "foundation-builder") {
		t.Errorf("earned = %v, want foundation-builder (only foundational module done)", earnedIDs(newly))
	}
	if !hasID(newly, "halfway-there") {
		t.Errorf("earned = %v, want halfway-there at 1 of 2 modules", earnedIDs(newly))
	}
	if hasID(newly, "full-stack") {
		t.Error("full-stack must not unlock with one module remaining")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	reg := testReg(t)
	snap := progress.Snapshot{
		"html-css": completedRecord("html-css", registry.TierFoundational, 85),
	}
	stats := BuildStats(reg, snap, streak.NewRecord())

	earned := map[string]bool{}
	first := Evaluate(Catalog(), stats, earned, time.Now())
	for _, e := range first {
		earned[e.AchievementID] = true
	}

	second := Evaluate(Catalog(), stats, earned, time.Now())
	if len(second) != 0 {
		t.Errorf("re-evaluation against unchanged stats emitted %v", earnedIDs(second))
	}
}

func TestEarnedNeverRevoked(t *testing.T) {
	reg := testReg(t)

	// Streak at 7 earns streak-warrior.
	sr := &streak.Record{Current: 7, Longest: 7}
	earned := map[string]bool{}
	for _, e := range Evaluate(Catalog(), BuildStats(reg, progress.Snapshot{}, sr), earned, time.Now()) {
		earned[e.AchievementID] = true
	}
	if !earned["streak-warrior"] {
		t.Fatal("streak-warrior should be earned at a 7-day streak")
	}

	// Streak breaks. The earned set is caller-owned and unchanged; a new
	// evaluation must not emit it again or imply removal.
	broken := &streak.Record{Current: 1, Longest: 7}
	newly := Evaluate(Catalog(), BuildStats(reg, progress.Snapshot{}, broken), earned, time.Now())
	if hasID(newly, "streak-warrior") {
		t.Error("streak-warrior re-emitted after streak break")
	}
	if !earned["streak-warrior"] {
		t.Error("earned set lost streak-warrior")
	}
}

func TestQuizScorePredicates(t *testing.T) {
	reg := testReg(t)
	perfect := 100
	high := 92
	snap := progress.Snapshot{
		"html-css":     {ModuleSlug: "html-css", QuizScore: &perfect},
		"react-basics": {ModuleSlug: "react-basics", QuizScore: &high},
	}
	stats := BuildStats(reg, snap, nil)

	if stats.PerfectQuizzes != 1 {
		t.Errorf("perfect quizzes = %d, want 1", stats.PerfectQuizzes)
	}
	if stats.HighScoreQuizzes != 2 {
		t.Errorf("high-score quizzes = %d, want 2", stats.HighScoreQuizzes)
	}
	if stats.AverageQuizScore != 96 {
		t.Errorf("average = %d, want 96", stats.AverageQuizScore)
	}
}

func TestMarathonLearnerFromHistory(t *testing.T) {
	reg := testReg(t)
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	sr := streak.NewRecord()
	var err error
	for i := 0; i < 5; i++ {
		sr, err = streak.Update(sr, day.Add(time.Duration(i)*time.Hour), streak.ActivityLesson, 10)
		if err != nil {
			t.Fatal(err)
		}
	}
	// A quiz on the same day does not count toward the lesson tally.
	sr, err = streak.Update(sr, day.Add(6*time.Hour), streak.ActivityQuiz, 25)
	if err != nil {
		t.Fatal(err)
	}

	stats := BuildStats(reg, progress.Snapshot{}, sr)
	if stats.MaxLessonsOneDay != 5 {
		t.Fatalf("max lessons one day = %d, want 5", stats.MaxLessonsOneDay)
	}

	newly := Evaluate(Catalog(), stats, map[string]bool{}, time.Now())
	if !hasID(newly, "marathon-learner") {
		t.Errorf("earned = %v, want marathon-learner", earnedIDs(newly))
	}
}

func TestFullStackRequiresEveryActiveModule(t *testing.T) {
	reg := testReg(t)
	snap := progress.Snapshot{
		"html-css":     completedRecord("html-css", registry.TierFoundational, 90),
		"react-basics": completedRecord("react-basics", registry.TierCore, 95),
	}
	stats := BuildStats(reg, snap, nil)

	newly := Evaluate(Catalog(), stats, map[string]bool{}, time.Now())
	for _, want := range []string{"full-stack", "core-graduate", "sharp-shooter"} {
		if want == "sharp-shooter" {
			// Only two quizzes taken; below the five-quiz floor.
			if hasID(newly, want) {
				t.Errorf("%s should not unlock with 2 quizzes", want)
			}
			continue
		}
		if !hasID(newly, want) {
			t.Errorf("earned = %v, want %s", earnedIDs(newly), want)
		}
	}
}
