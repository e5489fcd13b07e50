package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the automation credential and notification settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCredentialCmd(app),
		newSettingsSetValueCmd("set-log-channel <channel-id>", "Mirror progress messages to a Discord channel", app.accounts.SetLogChannel),
		newSettingsSetValueCmd("set-admin-role <role-id>", "Grant admin commands to a Discord role", app.accounts.SetAdminRole),
		newSettingsMuteCmd(app, "mute", true),
		newSettingsMuteCmd(app, "unmute", false),
	)

	return cmd
}

func newSettingsShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.accounts.Settings(cmd.Context())
			if err != nil {
				return err
			}

			credential := "not set"
			if settings.CredentialRef != "" {
				credential = settings.CredentialRef
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "credential:  %s\n", credential)
			_, _ = fmt.Fprintf(out, "admin role:  %s\n", orNone(settings.AdminRoleID))
			_, _ = fmt.Fprintf(out, "log channel: %s\n", orNone(settings.LogChannelID))
			_, err = fmt.Fprintf(out, "muted:       %t\n", settings.MuteNotifications)
			return err
		},
	}
}

func newSettingsSetCredentialCmd(app *app) *cobra.Command {
	var value string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set-credential",
		Short: "Store the session cookie used to reach the game console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fromStdin {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read credential from stdin: %w", err)
				}
				value = string(raw)
			}

			if err := app.accounts.SetCredential(cmd.Context(), value); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Credential updated")
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Session cookie value")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the session cookie from stdin")
	cmd.MarkFlagsMutuallyExclusive("value", "stdin")
	cmd.MarkFlagsOneRequired("value", "stdin")

	return cmd
}

func newSettingsSetValueCmd(use, short string, set func(ctx context.Context, value string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := set(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Settings updated")
			return err
		},
	}
}

func newSettingsMuteCmd(app *app, use string, mute bool) *cobra.Command {
	short := "Stop mirroring progress messages to the log channel"
	if !mute {
		short = "Resume mirroring progress messages to the log channel"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.accounts.SetMute(cmd.Context(), mute); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Notifications muted: %t\n", mute)
			return err
		},
	}
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
