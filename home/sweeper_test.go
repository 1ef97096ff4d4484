package home

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

func TestSweepableMessageIDs(t *testing.T) {
	now := time.Now()
	self := snowflake.ID(1)
	msg := func(author snowflake.ID, bot bool, age time.Duration) discord.Message {
		return discord.Message{
			ID:     snowflake.New(now.Add(-age)),
			Author: discord.User{ID: author, Bot: bot},
		}
	}

	msgs := []discord.Message{
		msg(self, true, time.Minute),
		msg(2, false, time.Minute),
		msg(3, true, time.Minute),
		msg(self, true, 13*24*time.Hour),
		msg(self, true, 15*24*time.Hour),
	}
	got := sweepableMessageIDs(msgs, self, now)
	if len(got) != 2 || got[0] != msgs[0].ID || got[1] != msgs[3].ID {
		t.Errorf("expected own recent messages only, got %v", got)
	}
}

func TestSweepableMessageIDsCap(t *testing.T) {
	now := time.Now()
	var msgs []discord.Message
	for i := 0; i < 150; i++ {
		msgs = append(msgs, discord.Message{
			ID:     snowflake.New(now.Add(-time.Duration(i+1) * time.Second)),
			Author: discord.User{ID: 1, Bot: true},
		})
	}
	if got := sweepableMessageIDs(msgs, 1, now); len(got) != bulkDeleteMax {
		t.Errorf("expected %d ids, got %d", bulkDeleteMax, len(got))
	}
}

func TestNewChannelSweeperClampsScan(t *testing.T) {
	for _, scan := range []int{0, -5, 500} {
		if s := newChannelSweeper(nil, scan); s.scan != bulkDeleteMax {
			t.Errorf("scan %d: expected %d, got %d", scan, bulkDeleteMax, s.scan)
		}
	}
	if s := newChannelSweeper(nil, 20); s.scan != 20 {
		t.Errorf("expected 20, got %d", s.scan)
	}
}
