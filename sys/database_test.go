package sys

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func openTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := InitDatabase(context.Background(), path); err != nil {
		t.Fatalf("InitDatabase: %v", err)
	}
	t.Cleanup(CloseDatabase)
}

func TestBotConfig(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	if v, err := GetBotConfig(ctx, "missing"); err != nil || v != "" {
		t.Errorf("expected empty value, got %q, %v", v, err)
	}
	if err := SetBotConfig(ctx, "mode", "guild"); err != nil {
		t.Fatalf("SetBotConfig: %v", err)
	}
	if err := SetBotConfig(ctx, "mode", "global"); err != nil {
		t.Fatalf("SetBotConfig: %v", err)
	}
	if v, _ := GetBotConfig(ctx, "mode"); v != "global" {
		t.Errorf("expected upsert to win, got %q", v)
	}
}

func TestTrackHistory(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(1)
	other := snowflake.ID(2)
	var h TrackHistory

	for _, u := range []string{"a", "b", "c"} {
		if err := h.Record(ctx, guild, u); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := h.Record(ctx, other, "z"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := h.Recent(ctx, guild, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Errorf("expected newest first [c b], got %v", got)
	}
}

func TestTrackHistoryRetention(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	guild := snowflake.ID(1)

	for i := 0; i < historyRetention+10; i++ {
		if err := AddTrackHistory(ctx, guild, "u"); err != nil {
			t.Fatalf("AddTrackHistory: %v", err)
		}
	}
	var n int
	if err := DB.QueryRow("SELECT COUNT(*) FROM autoplay_history WHERE guild_id = ?", guild.String()).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != historyRetention {
		t.Errorf("expected %d rows, got %d", historyRetention, n)
	}
}

func TestDatabaseNotReady(t *testing.T) {
	CloseDatabase()
	if _, err := GetRecentTrackHistory(context.Background(), 1, 5); err == nil {
		t.Error("expected an error without a database")
	}
	if err := SetBotConfig(context.Background(), "k", "v"); err == nil {
		t.Error("expected an error without a database")
	}
}
