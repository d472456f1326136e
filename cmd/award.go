package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fullstackacademy/academy/internal/achievements"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/store"
	"github.com/fullstackacademy/academy/internal/streak"
)

// Streak points awarded per activity.
const (
	lessonPoints = 10
	quizPoints   = 25
)

// awardAchievements re-evaluates the catalog against the latest learner
// state, persists anything newly unlocked, and returns it for display.
func awardAchievements(ctx context.Context, st *store.Store, reg *registry.Registry, snap progress.Snapshot, streakRec *streak.Record, now time.Time) ([]achievements.Earned, error) {
	all, err := st.AchievementRepo().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	earned := make(map[string]bool, len(all))
	for _, e := range all {
		earned[e.AchievementID] = true
	}

	stats := achievements.BuildStats(reg, snap, streakRec)
	newly := achievements.Evaluate(achievements.Catalog(), stats, earned, now)
	if len(newly) == 0 {
		return nil, nil
	}
	if err := st.AchievementRepo().Add(ctx, newly); err != nil {
		return nil, fmt.Errorf("save achievements: %w", err)
	}
	return newly, nil
}

func printNewAchievements(newly []achievements.Earned) {
	if len(newly) == 0 {
		return
	}
	byID := achievements.CatalogByID()
	for _, e := range newly {
		a := byID[e.AchievementID]
		fmt.Printf("Achievement unlocked: %s %s (%s) · %s\n", a.Icon, a.Title, a.Rarity.DisplayName(), a.Description)
	}
}

func printStreak(rec *streak.Record) {
	fmt.Printf("Streak: %d day(s) (longest %d, %d points)\n", rec.Current, rec.Longest, rec.TotalPoints())
}
