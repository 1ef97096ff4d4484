package sys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// historyRetention bounds how many autoplay history rows each guild keeps.
const historyRetention = 200

func InitDatabase(ctx context.Context, dataSourceName string) error {
	// The driver registers itself in init; referencing it keeps the import explicit.
	_ = sqlite3.SQLiteDriver{}

	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA cache_size=-2000;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := DB.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := DB.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS autoplay_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			url TEXT NOT NULL,
			played_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_autoplay_history_guild
			ON autoplay_history (guild_id, id DESC)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	LogDatabase(MsgDatabaseInitSuccess)
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// --- Bot Persistence ---

// BotConfig helpers are used by the loader for mode tracking and state.
func GetBotConfig(ctx context.Context, key string) (string, error) {
	if DB == nil {
		return "", errors.New(MsgDatabaseNotReady)
	}
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	if DB == nil {
		return errors.New(MsgDatabaseNotReady)
	}
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Autoplay History ---

// AddTrackHistory records that url was played in guildID and trims the
// guild's history to the retention window.
func AddTrackHistory(ctx context.Context, guildID snowflake.ID, url string) error {
	if DB == nil {
		return errors.New(MsgDatabaseNotReady)
	}
	if _, err := DB.ExecContext(ctx,
		"INSERT INTO autoplay_history (guild_id, url) VALUES (?, ?)",
		guildID.String(), url,
	); err != nil {
		return err
	}
	res, err := DB.ExecContext(ctx, `
		DELETE FROM autoplay_history
		WHERE guild_id = ? AND id NOT IN (
			SELECT id FROM autoplay_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?
		)
	`, guildID.String(), guildID.String(), historyRetention)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		LogDebug(MsgDatabaseHistoryPruned, n)
	}
	return nil
}

// GetRecentTrackHistory returns up to limit URLs, newest first.
func GetRecentTrackHistory(ctx context.Context, guildID snowflake.ID, limit int) ([]string, error) {
	if DB == nil {
		return nil, errors.New(MsgDatabaseNotReady)
	}
	rows, err := DB.QueryContext(ctx, `
		SELECT url FROM autoplay_history
		WHERE guild_id = ? ORDER BY id DESC LIMIT ?
	`, guildID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// TrackHistory adapts the autoplay_history table to the playback layer.
type TrackHistory struct{}

func (TrackHistory) Record(ctx context.Context, guildID snowflake.ID, url string) error {
	return AddTrackHistory(ctx, guildID, url)
}

func (TrackHistory) Recent(ctx context.Context, guildID snowflake.ID, limit int) ([]string, error) {
	return GetRecentTrackHistory(ctx, guildID, limit)
}
