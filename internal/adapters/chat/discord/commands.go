package discord

import "github.com/bwmarrin/discordgo"

// Commands is the slash command set registered on startup.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "add_account",
		Description: "Add a new game account",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Account Name", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "code", Description: "Restore Code", Required: true},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "toggle_server_selection", Description: "Enable server selection?", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "server", Description: "Target server (e.g., E-15, All)"},
		},
	},
	{
		Name:        "remove_account",
		Description: "Remove a game account",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Account Name", Required: true},
		},
	},
	{Name: "list_accounts", Description: "List all configured accounts"},
	{Name: "list_my_accounts", Description: "List only your accounts"},
	{Name: "toggle_ping", Description: "Toggle ping notifications for your accounts"},
	{
		Name:        "force_run",
		Description: "Force run automation. Use 'all' to run all your accounts.",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Account Name or 'all'"},
		},
	},
	{Name: "force_run_all", Description: "[ADMIN] Run all accounts in the system"},
	{Name: "force_stop_all", Description: "[ADMIN] Stop all running processes"},
	{Name: "mute_bot", Description: "[ADMIN] Mute automatic bot messages"},
	{Name: "unmute_bot", Description: "[ADMIN] Unmute automatic bot messages"},
	{
		Name:        "set_log_channel",
		Description: "[ADMIN] Set channel for automatic messages",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Log Channel", Required: true},
		},
	},
	{
		Name:        "set_admin_role",
		Description: "[ADMIN] Set admin role for bot management",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Admin Role", Required: true},
		},
	},
	{
		Name:        "set_cookies",
		Description: "[ADMIN] Set session cookie to bypass login",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "cookie", Description: "The 'session' cookie value", Required: true},
		},
	},
}
