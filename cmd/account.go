package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/evertext-autopilot/internal/adapters/importfile"
	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage registered accounts",
	}

	cmd.AddCommand(
		newAccountAddCmd(app),
		newAccountRemoveCmd(app),
		newAccountListCmd(app),
		newAccountImportCmd(app),
		newAccountTogglePingCmd(app),
	)

	return cmd
}

func newAccountAddCmd(app *app) *cobra.Command {
	var account domain.Account

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an account or replace the one with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account.Name = args[0]
			if err := app.accounts.Add(cmd.Context(), account); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added account %s\n", strings.TrimSpace(account.Name))
			return err
		},
	}

	cmd.Flags().StringVar(&account.RestoreCode, "code", "", "Restore code used to log the account in")
	cmd.Flags().StringVar(&account.TargetServer, "server", "", "Server to select (default: first listed)")
	cmd.Flags().StringVar(&account.OwnerID, "owner", "", "Discord user ID of the owner")
	cmd.Flags().StringVar(&account.OwnerName, "owner-name", "", "Display name of the owner")
	cmd.Flags().BoolVar(&account.PingEnabled, "ping", false, "Mention the owner in progress messages")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := app.accounts.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("account %s: %w", args[0], domain.ErrAccountNotFound)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s\n", args[0])
			return err
		},
	}
}

func newAccountListCmd(app *app) *cobra.Command {
	var ownerID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"status"},
		Short:   "Show accounts and their run status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var accounts []domain.Account
			var err error
			if ownerID != "" {
				accounts, err = app.accounts.ListByOwner(cmd.Context(), ownerID)
			} else {
				accounts, err = app.accounts.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(accounts)
			}

			rendered, err := app.statusRenderer(accounts, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Only show accounts of this Discord user ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newAccountImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import accounts and settings from a YAML or JSON file",
		Long:  "import reads either a list of accounts or a document with an accounts list and a settings block. The JSON database of earlier deployments is accepted as is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := importfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			imported, err := app.accounts.Import(cmd.Context(), doc.Accounts)
			if err != nil {
				return err
			}

			if doc.Settings != nil {
				if err := applyImportedSettings(cmd, app, *doc.Settings); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", imported)
			return err
		},
	}
}

func applyImportedSettings(cmd *cobra.Command, app *app, settings importfile.Settings) error {
	ctx := cmd.Context()

	if settings.Credential != "" {
		if err := app.accounts.SetCredential(ctx, settings.Credential); err != nil {
			return fmt.Errorf("import credential: %w", err)
		}
	}
	if settings.AdminRoleID != "" {
		if err := app.accounts.SetAdminRole(ctx, settings.AdminRoleID); err != nil {
			return err
		}
	}
	if settings.LogChannelID != "" {
		if err := app.accounts.SetLogChannel(ctx, settings.LogChannelID); err != nil {
			return err
		}
	}
	if settings.Mute != nil {
		if err := app.accounts.SetMute(ctx, *settings.Mute); err != nil {
			return err
		}
	}

	return nil
}

func newAccountTogglePingCmd(app *app) *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "toggle-ping",
		Short: "Flip mentions for every account of one owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := app.accounts.TogglePing(cmd.Context(), ownerID)
			if errors.Is(err, domain.ErrNoOwnedAccounts) {
				return fmt.Errorf("owner %s: %w", ownerID, err)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Pings %s for owner %s\n", onOff(enabled), ownerID)
			return err
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Discord user ID of the owner")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
