package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fullstackacademy/academy/internal/achievements"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/streak"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// File-backed DB; in-memory SQLite does not survive the connection
	// pool opening a second connection.
	s, err := Open(filepath.Join(t.TempDir(), "academy.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot() progress.Snapshot {
	score := 85
	return progress.Snapshot{
		"react-fundamentals": {
			ModuleSlug:       "react-fundamentals",
			Tier:             "foundational",
			CompletedLessons: []string{"l1", "l2"},
			TotalLessons:     3,
			QuizScore:        &score,
			TimeSpentMinutes: 42,
			Status:           progress.InProgress,
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if len(empty) != 0 {
		t.Fatal("expected empty snapshot from fresh store")
	}

	if err := repo.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := loaded["react-fundamentals"]
	if rec == nil {
		t.Fatal("record missing after round trip")
	}
	if rec.LessonsCompleted() != 2 || rec.TimeSpentMinutes != 42 {
		t.Errorf("record = %+v, lost fields in round trip", rec)
	}
	if rec.QuizScore == nil || *rec.QuizScore != 85 {
		t.Errorf("quiz score = %v, want 85", rec.QuizScore)
	}
}

func TestProgressSaveIsUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	snap := testSnapshot()
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap["react-fundamentals"].TimeSpentMinutes = 60
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded["react-fundamentals"].TimeSpentMinutes; got != 60 {
		t.Errorf("time spent = %d, want last write 60", got)
	}
	if len(loaded) != 1 {
		t.Errorf("snapshot has %d records, want 1", len(loaded))
	}
}

func TestStreakRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.StreakRepo()
	ctx := context.Background()

	fresh, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if fresh.Current != 0 || len(fresh.Milestones) == 0 {
		t.Fatalf("fresh record = %+v, want zero streak with default milestones", fresh)
	}

	rec, err := streak.Update(fresh, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), streak.ActivityLesson, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Current != 1 || len(loaded.History) != 1 {
		t.Errorf("loaded = %+v, lost state in round trip", loaded)
	}
}

func TestAchievementsKeepOriginalEarnedDate(t *testing.T) {
	s := openTestStore(t)
	repo := s.AchievementRepo()
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 0, 5)

	if err := repo.Add(ctx, []achievements.Earned{{AchievementID: "first-steps", EarnedAt: first}}); err != nil {
		t.Fatal(err)
	}
	// A replay with a newer date must not move the earned date.
	if err := repo.Add(ctx, []achievements.Earned{{AchievementID: "first-steps", EarnedAt: later}}); err != nil {
		t.Fatal(err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("earned = %v, want one row", all)
	}
	if !all[0].EarnedAt.Equal(first) {
		t.Errorf("earned date = %s, want original %s", all[0].EarnedAt, first)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	ctx := context.Background()

	if err := src.ProgressRepo().Save(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}
	rec, err := streak.Update(streak.NewRecord(), time.Now(), streak.ActivityQuiz, 25)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.StreakRepo().Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := src.AchievementRepo().Add(ctx, []achievements.Earned{
		{AchievementID: "first-steps", EarnedAt: time.Now().UTC()},
	}); err != nil {
		t.Fatal(err)
	}

	blob, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := openTestStore(t)
	result := dst.Import(ctx, blob)
	if !result.Success {
		t.Fatalf("import failed: %s", result.Message)
	}

	snap, err := dst.ProgressRepo().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap["react-fundamentals"] == nil {
		t.Error("progress missing after import")
	}
	loadedStreak, err := dst.StreakRepo().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loadedStreak.Current != 1 {
		t.Errorf("streak = %d, want 1", loadedStreak.Current)
	}
	earned, err := dst.AchievementRepo().All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(earned) != 1 || earned[0].AchievementID != "first-steps" {
		t.Errorf("achievements = %v", earned)
	}
}

func TestImportRejectsMalformedBlob(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ProgressRepo().Save(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	for name, blob := range map[string]string{
		"not json":       "{oops",
		"missing streak": `{"version": 1, "progress": {}, "achievements": []}`,
		"bad version":    `{"version": 99, "progress": {}, "streak": {"currentStreak": 0, "longestStreak": 0}, "achievements": []}`,
	} {
		result := s.Import(ctx, []byte(blob))
		if result.Success {
			t.Errorf("%s: import succeeded, want rejection", name)
		}
		if result.Message == "" {
			t.Errorf("%s: rejection carries no message", name)
		}
	}

	// Existing state untouched after rejected imports.
	snap, err := s.ProgressRepo().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap["react-fundamentals"] == nil {
		t.Error("rejected import wiped existing progress")
	}
}

func TestExportBlobShape(t *testing.T) {
	s := openTestStore(t)
	blob, err := s.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "exportedAt", "progress", "streak", "achievements"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("export blob missing %q", key)
		}
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ProgressRepo().Save(ctx, testSnapshot()); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	snap, err := s.ProgressRepo().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 0 {
		t.Errorf("progress after reset = %v, want empty", snap)
	}
}
