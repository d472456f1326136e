package achievements

import (
	"time"

	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/streak"
)

// Stats is the evaluation snapshot unlock predicates read. It is derived
// from progress and streak state; predicates never touch live state.
type Stats struct {
	CompletedModules   int
	TotalActiveModules int
	OverallProgress    int

	completedByTier map[registry.TierKey]int
	activeByTier    map[registry.TierKey]int

	CurrentStreak int
	LongestStreak int

	QuizzesTaken     int
	PerfectQuizzes   int
	HighScoreQuizzes int
	AverageQuizScore int

	TotalTimeMinutes int
	MaxLessonsOneDay int
}

// tierComplete reports whether every active module of a tier is completed.
func (s *Stats) tierComplete(tier registry.TierKey) bool {
	active := s.activeByTier[tier]
	return active > 0 && s.completedByTier[tier] >= active
}

// BuildStats derives an evaluation snapshot from the registry, a progress
// snapshot, and the streak record. Any of snap and streakRec may be empty.
func BuildStats(reg *registry.Registry, snap progress.Snapshot, streakRec *streak.Record) *Stats {
	stats := &Stats{
		completedByTier: make(map[registry.TierKey]int),
		activeByTier:    make(map[registry.TierKey]int),
	}

	active := reg.ActiveModules()
	stats.TotalActiveModules = len(active)
	for _, m := range active {
		stats.activeByTier[m.Tier]++
		rec, ok := snap[m.Slug]
		if !ok {
			continue
		}
		if rec.Status == progress.Completed {
			stats.CompletedModules++
			stats.completedByTier[m.Tier]++
		}
	}
	if len(active) > 0 {
		stats.OverallProgress = stats.CompletedModules * 100 / len(active)
	}

	sum := 0
	for _, rec := range snap {
		stats.TotalTimeMinutes += rec.TimeSpentMinutes
		if rec.QuizScore == nil {
			continue
		}
		stats.QuizzesTaken++
		sum += *rec.QuizScore
		if *rec.QuizScore == 100 {
			stats.PerfectQuizzes++
		}
		if *rec.QuizScore >= 90 {
			stats.HighScoreQuizzes++
		}
	}
	if stats.QuizzesTaken > 0 {
		stats.AverageQuizScore = sum / stats.QuizzesTaken
	}

	if streakRec != nil {
		stats.CurrentStreak = streakRec.Current
		stats.LongestStreak = streakRec.Longest
		stats.MaxLessonsOneDay = maxLessonsOneDay(streakRec.History)
	}
	return stats
}

// maxLessonsOneDay counts lesson completions per calendar day and returns
// the busiest day's count.
func maxLessonsOneDay(history []streak.Entry) int {
	perDay := make(map[string]int)
	maxCount := 0
	for _, e := range history {
		if e.Activity != streak.ActivityLesson {
			continue
		}
		key := e.Date.Format("2006-01-02")
		perDay[key]++
		if perDay[key] > maxCount {
			maxCount = perDay[key]
		}
	}
	return maxCount
}

// Earned records one unlocked achievement. Earned achievements are never
// retracted, even if the triggering condition later becomes false.
type Earned struct {
	AchievementID string    `json:"achievementId"`
	EarnedAt      time.Time `json:"earnedDate"`
}

// Evaluate checks every catalog entry not yet in the earned set against
// the stats snapshot and returns only the newly unlocked achievements.
// Re-running against unchanged snapshots yields nothing new.
func Evaluate(catalog []Achievement, stats *Stats, earned map[string]bool, now time.Time) []Earned {
	var newly []Earned
	for _, a := range catalog {
		if earned[a.ID] || a.Unlocked == nil {
			continue
		}
		if a.Unlocked(stats) {
			newly = append(newly, Earned{AchievementID: a.ID, EarnedAt: now})
		}
	}
	return newly
}
