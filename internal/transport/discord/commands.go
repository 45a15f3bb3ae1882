package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	commandDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/domain"
	"github.com/samber/lo"
)

var manageChannels = lo.ToPtr(int64(discordgo.PermissionManageChannels))

// slashCommands describes the application commands synced on startup.
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandDomain.CommandNameSetup.String(),
			Description:              "Sets up the n8n webhook for this channel.",
			DefaultMemberPermissions: manageChannels,
			DMPermission:             lo.ToPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        commandDomain.OptionURL,
					Description: "Webhook URL to use instead of the global one.",
					Required:    false,
				},
			},
		},
		{
			Name:                     commandDomain.CommandNameRemove.String(),
			Description:              "Removes the n8n webhook setup from this channel.",
			DefaultMemberPermissions: manageChannels,
			DMPermission:             lo.ToPtr(false),
		},
		{
			Name:                     commandDomain.CommandNameList.String(),
			Description:              "Lists all channels with configured n8n webhooks in this server.",
			DefaultMemberPermissions: manageChannels,
			DMPermission:             lo.ToPtr(false),
		},
		{
			Name:         commandDomain.CommandNameStatus.String(),
			Description:  "Checks if this channel is configured for n8n.",
			DMPermission: lo.ToPtr(false),
		},
		{
			Name:        commandDomain.CommandNamePrivacy.String(),
			Description: "Displays the bot's privacy policy.",
		},
		{
			Name:        commandDomain.CommandNameStats.String(),
			Description: "Displays bot statistics.",
		},
	}
}

// invitePermissions is the permission integer requested by the invite link.
const invitePermissions int64 = 277025508352

// inviteURL builds the OAuth2 link that adds the bot with the scopes it needs.
func inviteURL(applicationID string) string {
	return "https://discord.com/oauth2/authorize?client_id=" + applicationID +
		"&permissions=" + strconv.FormatInt(invitePermissions, 10) +
		"&scope=bot%20applications.commands"
}
