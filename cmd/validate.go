package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/content"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate content documents against the registry",
	Long: `Validate checks every lesson and quiz document against the registry's
declared thresholds and schemas. In development mode completeness deficits
are warnings; in ci or production mode they fail the run.`,
	SilenceUsage: true,
	RunE:         runValidate,
}

func init() {
	validateCmd.Flags().String("mode", "", "Validation mode: development, ci, or production")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	modeStr, _ := cmd.Flags().GetString("mode")
	if modeStr == "" {
		modeStr = cfg.Validate.Mode
	}
	mode, err := content.ParseMode(modeStr)
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	docs, loadFindings := loadDocs(cfg)

	report := content.Validate(reg, docs, loadFindings, mode)
	for _, f := range report.Errors {
		fmt.Fprintf(os.Stderr, "error   %s\n", f)
	}
	for _, f := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning %s\n", f)
	}

	if report.Fatal() {
		return fmt.Errorf("validation failed with %d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))
	}
	fmt.Printf("validation passed (%d warning(s), mode %s)\n", len(report.Warnings), mode)
	return nil
}
