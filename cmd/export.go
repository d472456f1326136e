package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export learner state to a JSON backup",
	Long: `Export writes progress, streak, and achievement state as a single JSON
document. With no file argument the document goes to stdout.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := st.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	fmt.Printf("Exported learner state to %s\n", args[0])
	return nil
}
