package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/achievements"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/ui/components"
	"github.com/fullstackacademy/academy/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show learning progress, streak, and achievements",
	SilenceUsage: true,
	RunE:         runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
	streakRec, err := st.StreakRepo().Load(ctx)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	earned, err := st.AchievementRepo().All(ctx)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}

	engine := progress.NewEngine(reg, lessonTotals(docs))

	fmt.Println(theme.Title.Render("Fullstack Academy"))
	fmt.Println()

	overall := engine.OverallProgress(snap)
	bar := components.NewProgressBar("Overall", float64(overall)/100, true, 48)
	fmt.Println(bar.View())
	for _, tier := range registry.AllTiers() {
		if len(reg.ActiveModulesInTier(tier)) == 0 {
			continue
		}
		pct := engine.TierProgress(snap, tier)
		bar := components.NewProgressBar(fmt.Sprintf("%-12s", tier.DisplayName()), float64(pct)/100, true, 48)
		fmt.Println(bar.View())
	}
	fmt.Println()

	completed := engine.CompletedModules(snap)
	fmt.Printf("Modules completed: %d of %d active\n", len(completed), len(reg.ActiveModules()))
	if avg := engine.AverageQuizScore(snap); avg > 0 {
		fmt.Printf("Average quiz score: %d%%\n", avg)
	}
	if minutes := engine.TotalTimeSpent(snap); minutes > 0 {
		fmt.Printf("Time spent: %dh %dm\n", minutes/60, minutes%60)
	}
	printStreak(streakRec)
	for _, m := range streakRec.AchievedMilestones() {
		fmt.Printf("  milestone: %s (%d days)\n", m.Title, m.Threshold)
	}

	fmt.Printf("Achievements: %d of %d\n", len(earned), len(achievements.Catalog()))
	byID := achievements.CatalogByID()
	for _, e := range earned {
		a := byID[e.AchievementID]
		fmt.Printf("  %s %s · earned %s\n", a.Icon, a.Title, e.EarnedAt.Format("2006-01-02"))
	}

	if next := reg.AvailableModules(completed); len(next) > 0 {
		fmt.Println()
		fmt.Println(theme.Subtitle.Render("Up next:"))
		for _, m := range next {
			if completed[m.Slug] {
				continue
			}
			fmt.Printf("  %s (%s, %s)\n", m.Title, m.Tier.DisplayName(), m.Difficulty)
		}
	}
	return nil
}
