package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ea",
		Short:         "EverText autopilot (ea): run daily sessions for registered accounts",
		Long:          "ea keeps a roster of EverText accounts, drives their daily sessions over the game's websocket console, and serves the Discord slash commands that manage the roster.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newSettingsCmd(app),
		newRunCmd(app),
		newResetCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
