package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/maronn/sys"
	"golang.org/x/time/rate"
)

const (
	// Discord refuses bulk deletion of messages older than two weeks.
	bulkDeleteMaxAge = 14*24*time.Hour - time.Hour
	bulkDeleteMax    = 100
)

// channelSweeper deletes the bot's own recent messages.
type channelSweeper struct {
	client  *bot.Client
	scan    int
	limiter *rate.Limiter
}

func newChannelSweeper(client *bot.Client, scan int) *channelSweeper {
	if scan <= 0 || scan > bulkDeleteMax {
		scan = bulkDeleteMax
	}
	return &channelSweeper{
		client:  client,
		scan:    scan,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

func (s *channelSweeper) SweepBotMessages(ctx context.Context, channelID snowflake.ID) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	msgs, err := s.client.Rest.GetMessages(channelID, 0, 0, 0, s.scan, rest.WithCtx(ctx))
	if err != nil {
		sys.LogHousekeeping(sys.MsgHousekeepingFetchErr, channelID, err)
		return 0, fmt.Errorf("fetch messages: %w", err)
	}

	ids := sweepableMessageIDs(msgs, s.client.ID(), time.Now())
	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		if err := s.client.Rest.DeleteMessage(channelID, ids[0], rest.WithCtx(ctx)); err != nil {
			return 0, err
		}
	default:
		if err := s.client.Rest.BulkDeleteMessages(channelID, ids, rest.WithCtx(ctx)); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// sweepableMessageIDs selects messages authored by selfID that are still
// young enough for bulk deletion.
func sweepableMessageIDs(msgs []discord.Message, selfID snowflake.ID, now time.Time) []snowflake.ID {
	var ids []snowflake.ID
	for _, m := range msgs {
		if m.Author.ID != selfID || !m.Author.Bot {
			continue
		}
		if now.Sub(m.ID.Time()) >= bulkDeleteMaxAge {
			continue
		}
		ids = append(ids, m.ID)
		if len(ids) == bulkDeleteMax {
			break
		}
	}
	return ids
}
