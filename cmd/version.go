package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X ...cmd.version=v1.2.3".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the academy version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("academy %s\n", version)
	},
}
