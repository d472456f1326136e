package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fullstackacademy/academy/internal/selfupdate"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Update academy to the latest release",
	Long: `Upgrade downloads the latest release for this platform, verifies its
checksum, and replaces the running binary in place.`,
	SilenceUsage: true,
	RunE:         runUpgrade,
}

var upgradeCheckOnly bool

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeCheckOnly, "check", false, "Only check whether a newer release exists")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	checker := selfupdate.NewChecker()

	if upgradeCheckOnly {
		result, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			return err
		}
		if !result.UpdateAvailable {
			fmt.Printf("academy %s is up to date\n", version)
			return nil
		}
		fmt.Printf("Update available: %s (running %s)\n%s\n", result.LatestVersion, version, result.ReleaseURL)
		return nil
	}

	err := checker.Update(ctx, &selfupdate.UpdateInput{CurrentVersion: version}, func(p selfupdate.UpdateProgress) {
		fmt.Println(p.Message)
	})
	switch {
	case errors.Is(err, selfupdate.ErrAlreadyLatest):
		fmt.Printf("academy %s is up to date\n", version)
		return nil
	case errors.Is(err, selfupdate.ErrDevBuild):
		return fmt.Errorf("this is a development build; install a released version to use upgrade")
	}
	return err
}
