package discord

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	commandDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/domain"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	"github.com/samber/lo"
)

const maxMessageLength = 2000

// channelKind labels channel types the way payload consumers expect.
func channelKind(channel *discordgo.Channel) string {
	if channel == nil {
		return "TextChannel"
	}
	switch channel.Type {
	case discordgo.ChannelTypeDM:
		return "DMChannel"
	case discordgo.ChannelTypeGroupDM:
		return "GroupChannel"
	case discordgo.ChannelTypeGuildVoice:
		return "VoiceChannel"
	case discordgo.ChannelTypeGuildStageVoice:
		return "StageChannel"
	case discordgo.ChannelTypeGuildCategory:
		return "CategoryChannel"
	case discordgo.ChannelTypeGuildForum:
		return "ForumChannel"
	case discordgo.ChannelTypeGuildNewsThread, discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return "Thread"
	default:
		return "TextChannel"
	}
}

// memberPermissions computes a member's permissions in channel following
// Discord's hierarchy: guild roles, then the channel's @everyone, role and
// member overwrites. The guild owner and administrators hold every
// permission. channel may be nil, in which case only guild roles apply.
func memberPermissions(guild *discordgo.Guild, channel *discordgo.Channel, userID string, member *discordgo.Member) messageDomain.Permissions {
	if guild == nil || member == nil {
		return 0
	}
	if guild.OwnerID != "" && guild.OwnerID == userID {
		return messageDomain.Permissions(discordgo.PermissionAll)
	}

	roleIDs := append([]string{guild.ID}, member.Roles...)
	var bits int64
	for _, role := range guild.Roles {
		if lo.Contains(roleIDs, role.ID) {
			bits |= role.Permissions
		}
	}
	if bits&discordgo.PermissionAdministrator != 0 {
		return messageDomain.Permissions(discordgo.PermissionAll)
	}
	if channel == nil {
		return messageDomain.Permissions(bits)
	}

	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeRole && overwrite.ID == guild.ID {
			bits = bits&^overwrite.Deny | overwrite.Allow
		}
	}

	var deny, allow int64
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeRole && lo.Contains(member.Roles, overwrite.ID) {
			deny |= overwrite.Deny
			allow |= overwrite.Allow
		}
	}
	bits = bits&^deny | allow

	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember && overwrite.ID == userID {
			bits = bits&^overwrite.Deny | overwrite.Allow
		}
	}

	return messageDomain.Permissions(bits)
}

// mentionsUser reports whether msg mentions userID, through the parsed
// mention list or a raw token in the text.
func mentionsUser(msg *discordgo.Message, userID string) bool {
	if userID == "" {
		return false
	}
	if lo.ContainsBy(msg.Mentions, func(u *discordgo.User) bool { return u != nil && u.ID == userID }) {
		return true
	}
	return lo.SomeBy(messageDomain.MentionTokens(userID), func(token string) bool {
		return strings.Contains(msg.Content, token)
	})
}

// toMessage maps a gateway message to the domain model. channel and guild
// may be nil when they cannot be resolved.
func toMessage(msg *discordgo.Message, botID string, channel *discordgo.Channel, guild *discordgo.Guild) *messageDomain.Message {
	out := &messageDomain.Message{
		ID:          msg.ID,
		Content:     msg.Content,
		ChannelID:   msg.ChannelID,
		ChannelKind: channelKind(channel),
		GuildID:     msg.GuildID,
		CreatedAt:   msg.Timestamp,
		MentionsBot: mentionsUser(msg, botID),
	}

	if msg.Author != nil {
		out.Author = messageDomain.Author{
			ID:            msg.Author.ID,
			Username:      msg.Author.Username,
			Discriminator: msg.Author.Discriminator,
			Tag:           msg.Author.String(),
			Bot:           msg.Author.Bot,
		}
	}

	if msg.GuildID == "" {
		out.ChannelKind = "DMChannel"
		return out
	}

	if channel != nil {
		out.ChannelName = channel.Name
	}
	if guild != nil {
		out.GuildName = guild.Name
	}
	out.Link = messageDomain.MessageLink(msg.GuildID, msg.ChannelID, msg.ID)
	out.Permissions = memberPermissions(guild, channel, out.Author.ID, msg.Member)

	return out
}

// parsePrefixCommand extracts "<prefix>name [url]" from message text.
func parsePrefixCommand(content, prefix string) (commandDomain.CommandName, map[string]string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}

	name, err := commandDomain.ParseCommandName(fields[0])
	if err != nil {
		return "", nil, false
	}

	options := map[string]string{}
	if name == commandDomain.CommandNameSetup && len(fields) > 1 {
		options[commandDomain.OptionURL] = fields[1]
	}
	return name, options, true
}

// interactionOptions flattens string options of a slash command.
func interactionOptions(data discordgo.ApplicationCommandInteractionData) map[string]string {
	options := map[string]string{}
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			options[opt.Name] = opt.StringValue()
		}
	}
	return options
}

// splitMessage splits text into chunks within Discord's length limit,
// preferring newline boundaries.
func splitMessage(msg string, maxLen int) []string {
	if len(msg) <= maxLen {
		return []string{msg}
	}

	var chunks []string
	for len(msg) > 0 {
		if len(msg) <= maxLen {
			chunks = append(chunks, msg)
			break
		}

		cut := runeBoundary(msg, maxLen)
		if cut == 0 {
			cut = maxLen
		}
		if idx := strings.LastIndex(msg[:cut], "\n"); idx > maxLen/2 {
			cut = idx + 1
		}

		chunks = append(chunks, msg[:cut])
		msg = msg[cut:]
	}
	return chunks
}

// truncate shortens text to at most maxLen bytes without splitting a rune.
func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:runeBoundary(text, maxLen)]
}

// runeBoundary returns the largest index <= n that starts a rune in s.
func runeBoundary(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
