package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:          "reset",
	Short:        "Erase all learner state",
	Long:         "Reset deletes all progress, streak, and achievement data. Export first if you might want it back.",
	SilenceUsage: true,
	RunE:         runReset,
}

var resetYes bool

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("This permanently erases all progress, streaks, and achievements. Type 'reset' to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(line) != "reset" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Println("All learner state erased.")
	return nil
}
