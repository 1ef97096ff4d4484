package home

import (
	"context"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/maronn/proc"
	"github.com/leeineian/maronn/sys"
)

var (
	playerMu   sync.RWMutex
	player     *proc.Orchestrator
	playerOnce sync.Once
	guildOnly  = []discord.InteractionContextType{discord.InteractionContextTypeGuild}
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		playerOnce.Do(func() { setupPlayer(ctx, client) })
	})
	sys.RegisterVoiceStateUpdateHandler(onPlayerVoiceStateUpdate)
}

func setupPlayer(ctx context.Context, client *bot.Client) {
	cfg := sys.GlobalConfig
	if cfg == nil {
		cfg = &sys.Config{HousekeepingScan: 100}
	}

	var history proc.HistoryStore
	if sys.DB != nil {
		history = sys.TrackHistory{}
	}

	bus := proc.NewBus()
	resolver := proc.NewResolver(proc.NewYouTubeProvider(), proc.ResolverOptions{
		SearchTimeout:    cfg.SearchTimeout,
		PlayTimeout:      cfg.PlayTimeout,
		AutocompleteRate: cfg.AutocompleteRate,
	})
	queue := proc.NewController(proc.ControllerOptions{
		Bus:      bus,
		Voice:    newVoiceConnector(client),
		Resolver: resolver,
		History:  history,
		Context:  ctx,
	})
	sweeper := newChannelSweeper(client, cfg.HousekeepingScan)
	presence := &gatewayPresence{client: client}
	rotator := proc.NewStatusRotator(presence, cfg.IdleStatuses, queue.PlayingCount)

	proc.NewLifecycle(proc.LifecycleOptions{
		Presence: presence,
		Sweeper:  sweeper,
		Renderer: &embedRenderer{client: client, footer: cfg.EmbedFooter, footerIcon: cfg.EmbedFooterIcon},
		Idle:     rotator,
		Context:  ctx,
	}).Attach(bus)

	playerMu.Lock()
	player = proc.NewOrchestrator(queue, resolver, sweeper)
	playerMu.Unlock()

	sys.RegisterDaemon(sys.LogStatusRotator, func(ctx context.Context) (bool, func(), func()) {
		return true, func() { rotator.Run(ctx) }, nil
	})
}

func currentPlayer() *proc.Orchestrator {
	playerMu.RLock()
	defer playerMu.RUnlock()
	return player
}

// ShutdownPlayer ends every Session and waits for background lookups.
func ShutdownPlayer() {
	if p := currentPlayer(); p != nil {
		p.Queue().Shutdown()
		p.Queue().Bus().Wait()
	}
}

// playerCommand wraps a handler with the guild and voice pre-checks shared
// by every player command.
func playerCommand(name string, h func(event *events.ApplicationCommandInteractionCreate, p *proc.Orchestrator, req proc.Request)) func(*events.ApplicationCommandInteractionCreate) {
	return func(event *events.ApplicationCommandInteractionCreate) {
		p := currentPlayer()
		if p == nil || event.GuildID() == nil {
			respond(event, proc.Response{Title: sys.ErrGuildOnly, Ephemeral: true}, false)
			return
		}
		user := event.User()
		sys.LogDebug(sys.MsgVoiceCommand, user.Username, user.ID, name, *event.GuildID())

		req, failure := checkVoiceAccess(event.Client(), *event.GuildID(), user.ID)
		if failure != "" {
			respond(event, proc.Response{Title: failure, Ephemeral: true}, false)
			return
		}
		req.TextChannelID = event.Channel().ID()
		req.UserName = user.Username
		h(event, p, req)
	}
}

// replyKind is how an interaction answer reaches Discord.
type replyKind int

const (
	replyCreate replyKind = iota
	replyEdit
	replySilent
)

// replyMode picks the delivery for resp. Only an interaction that was really
// acknowledged can have its response edited.
func replyMode(resp proc.Response, deferred bool) replyKind {
	switch {
	case resp.Silent:
		return replySilent
	case deferred:
		return replyEdit
	default:
		return replyCreate
	}
}

// respond delivers resp as the interaction's answer. deferred means the
// interaction was already acknowledged and the original response is edited.
func respond(event *events.ApplicationCommandInteractionCreate, resp proc.Response, deferred bool) {
	client := event.Client()
	name := event.Data.CommandName()
	footer, icon := "", ""
	if sys.GlobalConfig != nil {
		footer, icon = sys.GlobalConfig.EmbedFooter, sys.GlobalConfig.EmbedFooterIcon
	}

	switch replyMode(resp, deferred) {
	case replySilent:
		if !deferred {
			if err := event.DeferCreateMessage(true); err != nil {
				sys.LogDebug(sys.MsgVoiceRespondFail, name, err)
				return
			}
		}
		if err := client.Rest.DeleteInteractionResponse(event.ApplicationID(), event.Token()); err != nil {
			sys.LogDebug(sys.MsgVoiceRespondFail, name, err)
		}

	case replyEdit:
		embeds := []discord.Embed{buildEmbed(resp, footer, icon)}
		if _, err := client.Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), discord.MessageUpdate{Embeds: &embeds}); err != nil {
			sys.LogDebug(sys.MsgVoiceRespondFail, name, err)
		}

	default:
		msg := discord.MessageCreate{Embeds: []discord.Embed{buildEmbed(resp, footer, icon)}}
		if resp.Ephemeral {
			msg.Flags = discord.MessageFlagEphemeral
		}
		if err := event.CreateMessage(msg); err != nil {
			sys.LogDebug(sys.MsgVoiceRespondFail, name, err)
		}
	}
}
