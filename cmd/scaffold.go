package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/llm"
	"github.com/fullstackacademy/academy/internal/registry"
	"github.com/fullstackacademy/academy/internal/scaffold"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <module>",
	Short: "Draft lesson and quiz content for a module",
	Long: `Scaffold asks an LLM provider to draft lesson and quiz documents for a
content-pending module. Drafts are validated against the content schemas
and written under the content directory for an author to review; they are
never publishable as-is.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScaffold,
}

var (
	scaffoldLessons   int
	scaffoldQuestions int
	scaffoldForce     bool
)

func init() {
	scaffoldCmd.Flags().IntVar(&scaffoldLessons, "lessons", 0, "Number of lessons to draft (default: module's required count)")
	scaffoldCmd.Flags().IntVar(&scaffoldQuestions, "questions", 0, "Number of quiz questions to draft (default: module's required count)")
	scaffoldCmd.Flags().BoolVar(&scaffoldForce, "force", false, "Overwrite existing content files")
}

func runScaffold(cmd *cobra.Command, args []string) error {
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
	if mod.Status == registry.StatusActive && !scaffoldForce {
		return fmt.Errorf("module %q already has published content (use --force to draft anyway)", slug)
	}

	llmCfg := llm.ConfigFromEnv()
	if cfg.Scaffold.Provider != "" {
		llmCfg.Provider = cfg.Scaffold.Provider
	}
	if cfg.Scaffold.Model != "" {
		llmCfg.Anthropic.Model = cfg.Scaffold.Model
		llmCfg.OpenAI.Model = cfg.Scaffold.Model
		llmCfg.Gemini.Model = cfg.Scaffold.Model
	}
	if err := llmCfg.Validate(); err != nil {
		return err
	}
	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		return err
	}

	svc := scaffold.NewService(provider)
	fmt.Printf("Drafting content for %s with %s...\n", mod.Title, provider.ModelID())

	lessons, err := svc.DraftLessons(ctx, &mod, scaffoldLessons)
	if err != nil {
		return fmt.Errorf("draft lessons: %w", err)
	}
	quiz, err := svc.DraftQuiz(ctx, &mod, scaffoldQuestions)
	if err != nil {
		return fmt.Errorf("draft quiz: %w", err)
	}

	lessonPath := filepath.Join(cfg.Content.Dir, "lessons", slug+".json")
	quizPath := filepath.Join(cfg.Content.Dir, "quizzes", slug+".json")
	if err := writeDraft(lessonPath, lessons, scaffoldForce); err != nil {
		return err
	}
	if err := writeDraft(quizPath, quiz, scaffoldForce); err != nil {
		return err
	}

	fmt.Printf("Wrote %d lesson(s) to %s\n", len(lessons), lessonPath)
	fmt.Printf("Wrote %d question(s) to %s\n", len(quiz.Questions), quizPath)
	fmt.Println("Review the drafts, then run `academy validate` before publishing.")
	return nil
}

func writeDraft(path string, doc any, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create content directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}
