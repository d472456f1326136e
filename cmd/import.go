package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore learner state from a JSON backup",
	Long: `Import replaces all learner state with the contents of a backup file
produced by export. The backup is validated before anything is touched; a
malformed file leaves existing state intact.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	result := st.Import(cmd.Context(), data)
	if !result.Success {
		return fmt.Errorf("import: %s", result.Message)
	}
	fmt.Println(result.Message)
	return nil
}
