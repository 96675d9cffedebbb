package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/msrdoc/internal/updater"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the msrdoc version and check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "msrdoc v%s\n", version)

			c := a.checker()
			if c == nil {
				return nil
			}
			latest, hasUpdate, err := c.CheckLatestWithCache(version)
			if err != nil {
				a.log.WithError(err).Debug("update check failed")
				return nil
			}
			if hasUpdate {
				fmt.Fprintf(out, "\nUpdate available: v%s. Run 'msrdoc upgrade' to update (or re-run the install script).\n", latest)
			}
			return nil
		},
	}
}

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade msrdoc to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			_, hasUpdate, err := updater.NewChecker(a.cfg.UpdateCheckInterval).CheckLatest(version)
			if err != nil {
				fmt.Fprintln(out, updater.CurlFallbackMessage(err))
				return fmt.Errorf("checking for updates: %w", err)
			}
			if !hasUpdate {
				fmt.Fprintln(out, "Already up to date.")
				return nil
			}

			newVer, err := updater.Upgrade(version)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), updater.CurlFallbackMessage(err))
				return fmt.Errorf("upgrade failed: %w", err)
			}
			fmt.Fprintf(out, "Upgraded to v%s. Restart msrdoc to use the new version.\n", newVer)
			return nil
		},
	}
}
