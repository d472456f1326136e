package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/fullstackacademy/academy/internal/registry"
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
			"thresholds": {"requiredLessons": 3, "requiredQuestions": 2},
			"status": "active",
			"routes": {"overview": "/modules/html-css", "lessons": "/modules/html-css/lessons", "quiz": "/modules/html-css/quiz"}
		},
		{
			"slug": "javascript-basics", "title": "JavaScript Basics", "description": "d",
			"tier": "foundational", "track": "frontend", "order": 2,
			"difficulty": "Beginner", "estimatedHours": 6, "prerequisites": ["html-css"],
			"thresholds": {"requiredLessons": 2, "requiredQuestions": 0},
			"status": "active",
			"routes": {"overview": "/modules/javascript-basics", "lessons": "/modules/javascript-basics/lessons", "quiz": "/modules/javascript-basics/quiz"}
		},
		{
			"slug": "react-patterns", "title": "React Patterns", "description": "d",
			"tier": "core", "track": "frontend", "order": 1,
			"difficulty": "Intermediate", "estimatedHours": 8, "prerequisites": ["javascript-basics"],
			"thresholds": {"requiredLessons": 2, "requiredQuestions": 2, "passingScore": 80},
			"status": "content-pending",
			"routes": {"overview": "/modules/react-patterns", "lessons": "/modules/react-patterns/lessons", "quiz": "/modules/react-patterns/quiz"}
		}
	],
	"globalSettings": {"staticRoutes": ["/"], "defaultPassingScore": 70}
}`

func testEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := registry.Load([]byte(registryDoc))
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return NewEngine(reg, map[string]int{"html-css": 3, "javascript-basics": 2})
}

func at(day int) time.Time {
	return time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)
}

func TestLessonCompletionIdempotent(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}

	var err error
	for i := 0; i < 3; i++ {
		snap, err = e.RecordLessonCompletion(snap, "html-css", "lesson-1", at(1))
		if err != nil {
			t.Fatal(err)
		}
	}

	rec := snap["html-css"]
	if rec.LessonsCompleted() != 1 {
		t.Errorf("lessons completed = %d, want 1 after repeated completion", rec.LessonsCompleted())
	}
	if rec.Status != InProgress {
		t.Errorf("status = %q, want in-progress", rec.Status)
	}
}

func TestSnapshotInputUnchanged(t *testing.T) {
	e := testEngine(t)
	before := Snapshot{}

	after, err := e.RecordLessonCompletion(before, "html-css", "lesson-1", at(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 0 {
		t.Error("input snapshot was mutated")
	}
	if len(after) != 1 {
		t.Error("returned snapshot missing new record")
	}
}

func TestCompletionRequiresLessonsAndQuiz(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	for _, id := range []string{"l1", "l2", "l3"} {
		snap, err = e.RecordLessonCompletion(snap, "html-css", id, at(1))
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := snap["html-css"].Status; got != InProgress {
		t.Fatalf("status after all lessons = %q, want in-progress until quiz passed", got)
	}

	snap, err = e.RecordQuizScore(snap, "html-css", 80, at(2))
	if err != nil {
		t.Fatal(err)
	}
	if got := snap["html-css"].Status; got != Completed {
		t.Fatalf("status after passing quiz = %q, want completed", got)
	}

	// html-css is one of two active modules.
	if got := e.OverallProgress(snap); got != 50 {
		t.Errorf("overall progress = %d, want 50", got)
	}
	if got := e.TierProgress(snap, registry.TierFoundational); got != 50 {
		t.Errorf("foundational tier progress = %d, want 50", got)
	}
}

func TestFailingQuizDoesNotComplete(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	for _, id := range []string{"l1", "l2", "l3"} {
		snap, err = e.RecordLessonCompletion(snap, "html-css", id, at(1))
		if err != nil {
			t.Fatal(err)
		}
	}
	snap, err = e.RecordQuizScore(snap, "html-css", 65, at(2))
	if err != nil {
		t.Fatal(err)
	}
	if got := snap["html-css"].Status; got != InProgress {
		t.Errorf("status with failing score = %q, want in-progress", got)
	}
}

func TestCompletionDoesNotRevert(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	for _, id := range []string{"l1", "l2", "l3"} {
		snap, err = e.RecordLessonCompletion(snap, "html-css", id, at(1))
		if err != nil {
			t.Fatal(err)
		}
	}
	snap, err = e.RecordQuizScore(snap, "html-css", 90, at(2))
	if err != nil {
		t.Fatal(err)
	}

	// A later failing retake keeps the module completed.
	snap, err = e.RecordQuizScore(snap, "html-css", 40, at(3))
	if err != nil {
		t.Fatal(err)
	}
	rec := snap["html-css"]
	if rec.Status != Completed {
		t.Errorf("status after failing retake = %q, want completed", rec.Status)
	}
	if rec.QuizScore == nil || *rec.QuizScore != 40 {
		t.Errorf("quiz score = %v, want latest attempt 40", rec.QuizScore)
	}
}

func TestModuleWithoutQuizCompletesOnLessons(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	for _, id := range []string{"l1", "l2"} {
		snap, err = e.RecordLessonCompletion(snap, "javascript-basics", id, at(1))
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := snap["javascript-basics"].Status; got != Completed {
		t.Errorf("status = %q, want completed without a quiz", got)
	}
}

func TestUnknownModuleRejected(t *testing.T) {
	e := testEngine(t)

	_, err := e.RecordLessonCompletion(Snapshot{}, "no-such-module", "l1", at(1))
	if !errors.Is(err, ErrUnknownModule) {
		t.Errorf("err = %v, want ErrUnknownModule", err)
	}
	_, err = e.RecordTimeSpent(Snapshot{}, "no-such-module", 10, at(1))
	if !errors.Is(err, ErrUnknownModule) {
		t.Errorf("err = %v, want ErrUnknownModule", err)
	}
}

func TestInvalidQuizScoreRejected(t *testing.T) {
	e := testEngine(t)
	for _, score := range []int{-1, 101} {
		if _, err := e.RecordQuizScore(Snapshot{}, "html-css", score, at(1)); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("score %d: err = %v, want ErrInvalidScore", score, err)
		}
	}
}

func TestTimeAndScoreAggregates(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	snap, err = e.RecordTimeSpent(snap, "html-css", 30, at(1))
	if err != nil {
		t.Fatal(err)
	}
	snap, err = e.RecordTimeSpent(snap, "javascript-basics", 45, at(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := e.TotalTimeSpent(snap); got != 75 {
		t.Errorf("total time = %d, want 75", got)
	}

	snap, err = e.RecordQuizScore(snap, "html-css", 80, at(2))
	if err != nil {
		t.Fatal(err)
	}
	snap, err = e.RecordQuizScore(snap, "javascript-basics", 91, at(2))
	if err != nil {
		t.Fatal(err)
	}
	// (80 + 91) / 2 = 85.5 rounds to 86.
	if got := e.AverageQuizScore(snap); got != 86 {
		t.Errorf("average quiz score = %d, want 86", got)
	}
}

func TestEmptyAggregates(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}

	if got := e.OverallProgress(snap); got != 0 {
		t.Errorf("overall progress = %d, want 0", got)
	}
	if got := e.TierProgress(snap, registry.TierQuality); got != 0 {
		t.Errorf("empty tier progress = %d, want 0", got)
	}
	if got := e.AverageQuizScore(snap); got != 0 {
		t.Errorf("average quiz score = %d, want 0", got)
	}
}

func TestCompletedModulesUnlockDependents(t *testing.T) {
	e := testEngine(t)
	snap := Snapshot{}
	var err error

	for _, id := range []string{"l1", "l2", "l3"} {
		snap, err = e.RecordLessonCompletion(snap, "html-css", id, at(1))
		if err != nil {
			t.Fatal(err)
		}
	}
	snap, err = e.RecordQuizScore(snap, "html-css", 85, at(2))
	if err != nil {
		t.Fatal(err)
	}

	completed := e.CompletedModules(snap)
	if !completed["html-css"] {
		t.Fatal("html-css should be in the completed set")
	}
	available := []string{}
	for _, m := range e.reg.AvailableModules(completed) {
		available = append(available, m.Slug)
	}
	if len(available) != 1 || available[0] != "javascript-basics" {
		t.Errorf("available = %v, want [javascript-basics]", available)
	}
}
