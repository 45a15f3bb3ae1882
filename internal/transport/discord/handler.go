package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	commandDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/domain"
	commandService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/command/service"
	messageDomain "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/message/domain"
	payloadService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/payload/service"
	relayService "github.com/reshetovitsme/n8n-discord-trigger/internal/modules/relay/service"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/config"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Intents requested from the gateway. Message content and members are
// privileged and must be enabled for the application.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Handler connects gateway events to the relay and command services
type Handler struct {
	cfg      *config.Config
	relay    *relayService.Service
	commands *commandService.Service
	builder  *payloadService.Builder
	session  *discordgo.Session
}

// New creates a new Discord handler
func New(cfg *config.Config, relay *relayService.Service, commands *commandService.Service, builder *payloadService.Builder) *Handler {
	return &Handler{
		cfg:      cfg,
		relay:    relay,
		commands: commands,
		builder:  builder,
	}
}

// NewSession creates a gateway session with the handler's events attached.
func (h *Handler) NewSession() (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + h.cfg.DiscordToken)
	if err != nil {
		return nil, oops.With("context", "failed to create discord session").Wrap(err)
	}
	session.Identify.Intents = Intents

	h.Register(session)
	return session, nil
}

// Register attaches event handlers to session.
func (h *Handler) Register(session *discordgo.Session) {
	h.session = session
	session.AddHandler(h.onReady)
	session.AddHandler(h.onMessageCreate)
	session.AddHandler(h.onInteractionCreate)
	h.commands.SetStatsProvider(h)
}

func (h *Handler) onReady(s *discordgo.Session, r *discordgo.Ready) {
	h.builder.SetBotID(r.User.ID)
	slog.Info("Logged in", "user", r.User.String(), "id", r.User.ID, "guilds", len(r.Guilds))

	appID := r.User.ID
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}
	slog.Info("Invite link", "url", inviteURL(appID))

	synced, err := s.ApplicationCommandBulkOverwrite(appID, h.cfg.DevGuildID, slashCommands())
	if err != nil {
		slog.Error("Failed to sync slash commands", "error", err, "guild_id", h.cfg.DevGuildID)
		return
	}
	slog.Info("Synced slash commands", "count", len(synced), "guild_id", h.cfg.DevGuildID)
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	ctx := context.Background()
	channel := h.channel(s, m.ChannelID)
	var guild *discordgo.Guild
	if m.GuildID != "" {
		guild = h.guild(s, m.GuildID)
	}

	msg := toMessage(m.Message, h.builder.BotID(), channel, guild)
	if m.GuildID != "" {
		if perms, err := s.State.MessagePermissions(m.Message); err == nil {
			msg.Permissions = messageDomain.Permissions(perms)
		}
	}
	outcome := h.relay.HandleMessage(ctx, msg)
	if outcome.Reply != "" {
		h.send(s, m.ChannelID, outcome.Reply)
	}

	if !outcome.Decision.ContinueToCommands() {
		return
	}

	name, options, ok := parsePrefixCommand(m.Content, h.cfg.CommandPrefix)
	if !ok {
		return
	}

	inv := &commandDomain.Invocation{
		Name:        name,
		GuildID:     msg.GuildID,
		GuildName:   msg.GuildName,
		ChannelID:   msg.ChannelID,
		ChannelName: msg.ChannelName,
		UserID:      msg.Author.ID,
		Permissions: msg.Permissions,
		Options:     options,
		Channels:    guildChannels{session: s, guildID: msg.GuildID},
	}
	reply := h.commands.Execute(ctx, inv)
	h.replyToMessage(s, msg, reply)
}

func (h *Handler) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	name, err := commandDomain.ParseCommandName(data.Name)
	if err != nil {
		slog.Warn("Unknown slash command", "name", data.Name)
		name = commandDomain.CommandName(data.Name)
	}

	inv := &commandDomain.Invocation{
		Name:      name,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Options:   interactionOptions(data),
		Channels:  guildChannels{session: s, guildID: i.GuildID},
	}

	if i.Member != nil {
		inv.Permissions = messageDomain.Permissions(i.Member.Permissions)
		if i.Member.User != nil {
			inv.UserID = i.Member.User.ID
		}
	} else if i.User != nil {
		inv.UserID = i.User.ID
	}
	if channel := h.channel(s, i.ChannelID); channel != nil {
		inv.ChannelName = channel.Name
	}
	if i.GuildID != "" {
		if guild := h.guild(s, i.GuildID); guild != nil {
			inv.GuildName = guild.Name
		}
	}

	reply := h.commands.Execute(context.Background(), inv)

	var flags discordgo.MessageFlags
	if reply.Ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncate(reply.Text, maxMessageLength),
			Flags:   flags,
		},
	})
	if err != nil {
		slog.Error("Failed to respond to interaction", "error", err, "command", inv.Name, "channel_id", i.ChannelID)
	}
}

// replyToMessage answers a prefix command. Ephemeral replies go to the
// author's DMs since channel messages are visible to everyone.
func (h *Handler) replyToMessage(s *discordgo.Session, msg *messageDomain.Message, reply *commandDomain.Reply) {
	channelID := msg.ChannelID
	if reply.Ephemeral && !msg.IsDirect() {
		dm, err := s.UserChannelCreate(msg.Author.ID)
		if err != nil {
			slog.Error("Failed to open DM channel", "error", err, "user_id", msg.Author.ID)
			return
		}
		channelID = dm.ID
	}
	h.send(s, channelID, reply.Text)
}

func (h *Handler) send(s *discordgo.Session, channelID, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			slog.Error("Failed to send message", "error", err, "channel_id", channelID)
			return
		}
	}
}

func (h *Handler) channel(s *discordgo.Session, channelID string) *discordgo.Channel {
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel
	}
	channel, err := s.Channel(channelID)
	if err != nil {
		slog.Debug("Could not resolve channel", "channel_id", channelID, "error", err)
		return nil
	}
	return channel
}

func (h *Handler) guild(s *discordgo.Session, guildID string) *discordgo.Guild {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild
	}
	guild, err := s.Guild(guildID)
	if err != nil {
		slog.Debug("Could not resolve guild", "guild_id", guildID, "error", err)
		return nil
	}
	return guild
}

// Stats reports joined guilds, their members and heartbeat latency.
func (h *Handler) Stats() commandDomain.Stats {
	if h.session == nil || h.session.State == nil {
		return commandDomain.Stats{}
	}

	h.session.State.RLock()
	guilds := h.session.State.Guilds
	members := lo.SumBy(guilds, func(g *discordgo.Guild) int { return g.MemberCount })
	count := len(guilds)
	h.session.State.RUnlock()

	return commandDomain.Stats{
		Guilds:  count,
		Members: members,
		Latency: h.session.HeartbeatLatency().Round(time.Millisecond),
	}
}

// guildChannels resolves channel names for /list from the state cache.
type guildChannels struct {
	session *discordgo.Session
	guildID string
}

func (g guildChannels) ChannelName(channelID string) (string, bool) {
	if g.session == nil || g.session.State == nil {
		return "", false
	}
	channel, err := g.session.State.Channel(channelID)
	if err != nil || channel.GuildID != g.guildID {
		return "", false
	}
	return channel.Name, true
}
