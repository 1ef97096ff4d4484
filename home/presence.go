package home

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/leeineian/maronn/sys"
)

const maxActivityName = 128

type gatewayPresence struct {
	client *bot.Client
}

func (p *gatewayPresence) SetListening(ctx context.Context, title string) error {
	return p.client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithListeningActivity(sys.TruncateRunes(title, maxActivityName)),
	)
}

func (p *gatewayPresence) SetIdle(ctx context.Context, status string) error {
	return p.client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithCustomActivity(sys.TruncateRunes(status, maxActivityName)),
	)
}
