package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/streak"
)

var completeCmd = &cobra.Command{
	Use:   "complete <module> <lesson-id>",
	Short: "Mark a lesson as completed",
	Long: `Complete records a finished lesson for a module, updates the daily
streak, and unlocks any achievements the new state earns. Completing the
same lesson twice is a no-op for progress but still counts as activity.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runComplete,
}

var completeMinutes int

func init() {
	completeCmd.Flags().IntVar(&completeMinutes, "minutes", 0, "Minutes spent on the lesson")
}

func runComplete(cmd *cobra.Command, args []string) error {
	slug, lessonID := args[0], args[1]
	ctx := cmd.Context()
	now := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	docs, _ := loadDocs(cfg)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.ProgressRepo().Load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	engine := progress.NewEngine(reg, lessonTotals(docs))
	snap, err = engine.RecordLessonCompletion(snap, slug, lessonID, now)
	if err != nil {
		return err
	}
	if completeMinutes > 0 {
		snap, err = engine.RecordTimeSpent(snap, slug, completeMinutes, now)
		if err != nil {
			return err
		}
	}
	if err := st.ProgressRepo().Save(ctx, snap); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	streakRec, err := st.StreakRepo().Load(ctx)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	streakRec, err = streak.Update(streakRec, now, streak.ActivityLesson, lessonPoints)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if err := st.StreakRepo().Save(ctx, streakRec); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}

	rec := snap[slug]
	fmt.Printf("Completed lesson %s in %s (%d/%d lessons, status %s)\n",
		lessonID, slug, rec.LessonsCompleted(), rec.TotalLessons, rec.Status)
	printStreak(streakRec)

	newly, err := awardAchievements(ctx, st, reg, snap, streakRec, now)
	if err != nil {
		return err
	}
	printNewAchievements(newly)
	return nil
}
