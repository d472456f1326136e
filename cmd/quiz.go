package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/app"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/streak"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <module>",
	Short: "Take a module's quiz",
	Long: `Quiz runs the module's quiz interactively. A finished run records the
score; an abandoned run records nothing. Retaking a quiz never removes a
completion already earned.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runQuizCmd,
}

func runQuizCmd(cmd *cobra.Command, args []string) error {
	slug := args[0]
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	mod, err := reg.Module(slug)
	if err != nil {
		return err
	}
	docs, _ := loadDocs(cfg)

	quiz, ok := docs.Quizzes[slug]
	if !ok {
		return fmt.Errorf("no quiz found for module %q", slug)
	}
	for i := range quiz.Questions {
		if err := quiz.Questions[i].Normalize(); err != nil {
			return fmt.Errorf("question %q: %w", quiz.Questions[i].ID, err)
		}
	}

	passingScore := reg.PassingScoreFor(slug)
	result, err := app.RunQuiz(mod.Title, quiz, passingScore)
	if err != nil {
		return err
	}
	if !result.Finished {
		fmt.Println("Quiz abandoned, nothing recorded.")
		return nil
	}

	now := time.Now()
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
	snap, err = engine.RecordQuizScore(snap, slug, result.Score, now)
	if err != nil {
		return err
	}
	if err := st.ProgressRepo().Save(ctx, snap); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	streakRec, err := st.StreakRepo().Load(ctx)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	streakRec, err = streak.Update(streakRec, now, streak.ActivityQuiz, quizPoints)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if err := st.StreakRepo().Save(ctx, streakRec); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}

	verdict := "did not pass"
	if result.Score >= passingScore {
		verdict = "passed"
	}
	fmt.Printf("Scored %d%% on %s (%d/%d correct), %s\n",
		result.Score, mod.Title, result.Correct, len(quiz.Questions), verdict)
	printStreak(streakRec)

	newly, err := awardAchievements(ctx, st, reg, snap, streakRec, now)
	if err != nil {
		return err
	}
	printNewAchievements(newly)
	return nil
}
