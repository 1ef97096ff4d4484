package home

import (
	"context"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/voice"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
)

// voiceConnector owns one voice connection per guild.
type voiceConnector struct {
	client *bot.Client
	mu     sync.Mutex
	conns  map[snowflake.ID]voice.Conn
}

func newVoiceConnector(client *bot.Client) *voiceConnector {
	return &voiceConnector{client: client, conns: make(map[snowflake.ID]voice.Conn)}
}

func (v *voiceConnector) Join(ctx context.Context, guildID, channelID snowflake.ID) error {
	v.mu.Lock()
	conn, ok := v.conns[guildID]
	if !ok {
		conn = v.client.VoiceManager.CreateConn(guildID)
		v.conns[guildID] = conn
	}
	v.mu.Unlock()

	if err := conn.Open(ctx, channelID, false, false); err != nil {
		conn.Close(ctx)
		v.mu.Lock()
		delete(v.conns, guildID)
		v.mu.Unlock()
		return err
	}
	return nil
}

func (v *voiceConnector) Leave(ctx context.Context, guildID snowflake.ID) {
	v.mu.Lock()
	conn, ok := v.conns[guildID]
	delete(v.conns, guildID)
	v.mu.Unlock()
	if ok {
		conn.Close(ctx)
	}
}

// onPlayerVoiceStateUpdate tracks bot moves and disconnects, and ends a
// Session once no human is left in its channel.
func onPlayerVoiceStateUpdate(event *events.GuildVoiceStateUpdate) {
	p := currentPlayer()
	if p == nil {
		return
	}
	client := event.Client()
	guildID := event.VoiceState.GuildID
	queue := p.Queue()

	if event.VoiceState.UserID == client.ID() {
		if event.VoiceState.ChannelID == nil {
			if queue.Disconnected(guildID) {
				sys.LogVoice(sys.MsgVoiceLeaving, guildID)
			}
			return
		}
		queue.Rebind(guildID, *event.VoiceState.ChannelID)
		return
	}

	channelID, ok := queue.VoiceChannel(guildID)
	if !ok || channelID == 0 {
		return
	}

	humans := 0
	for state := range client.Caches.VoiceStates(guildID) {
		if state.ChannelID == nil || *state.ChannelID != channelID || state.UserID == client.ID() {
			continue
		}
		if m, ok := client.Caches.Member(guildID, state.UserID); !ok || !m.User.Bot {
			humans++
		}
	}
	if humans == 0 {
		queue.ChannelEmptied(guildID)
	}
}
