package sys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

// DefaultIdleStatuses are shown while no guild is playing anything.
var DefaultIdleStatuses = []string{
	"Waiting for a song",
	"Silence is golden",
	"Tuning the strings",
	"Humming quietly",
	"Looking for the next banger",
	"Dusting off the vinyls",
}

type Config struct {
	Token        string
	GuildID      string
	DatabasePath string
	Silent       bool

	SearchTimeout    time.Duration
	PlayTimeout      time.Duration
	AutocompleteRate float64
	HousekeepingScan int

	IdleStatuses    []string
	EmbedFooter     string
	EmbedFooterIcon string
}

var GlobalConfig *Config

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New(MsgConfigMissingToken)
	}
	if c.GuildID != "" {
		if _, err := snowflake.Parse(c.GuildID); err != nil || len(c.GuildID) < 17 || len(c.GuildID) > 20 {
			return errors.New(MsgConfigInvalidGuildID)
		}
	}
	if c.SearchTimeout <= 0 || c.PlayTimeout <= 0 {
		return fmt.Errorf(MsgConfigInvalidNumber, "timeout", c.SearchTimeout.String())
	}
	if c.HousekeepingScan <= 0 || c.HousekeepingScan > 100 {
		return fmt.Errorf(MsgConfigInvalidNumber, "HOUSEKEEPING_SCAN", strconv.Itoa(c.HousekeepingScan))
	}
	return nil
}

// LoadConfig reads .env (if present) and the environment into GlobalConfig.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := configFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	dbPath := getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(getenv("SILENT"))

	searchMs, err := envInt(getenv, "SEARCH_TIMEOUT_MS", 2600)
	if err != nil {
		return nil, err
	}
	playMs, err := envInt(getenv, "PLAY_TIMEOUT_MS", 15000)
	if err != nil {
		return nil, err
	}
	scan, err := envInt(getenv, "HOUSEKEEPING_SCAN", 100)
	if err != nil {
		return nil, err
	}

	rate := 5.0
	if v := strings.TrimSpace(getenv("AUTOCOMPLETE_RATE")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf(MsgConfigInvalidNumber, "AUTOCOMPLETE_RATE", v)
		}
		rate = parsed
	}

	statuses := DefaultIdleStatuses
	if v := getenv("IDLE_STATUSES"); v != "" {
		statuses = nil
		for _, s := range strings.Split(v, "|") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
		if len(statuses) == 0 {
			statuses = DefaultIdleStatuses
		}
	}

	footer := getenv("EMBED_FOOTER")
	if footer == "" {
		footer = "Bot by " + GetProjectName()
	}

	return &Config{
		Token:            getenv("DISCORD_TOKEN"),
		GuildID:          strings.TrimSpace(getenv("GUILD_ID")),
		DatabasePath:     dbPath,
		Silent:           silent,
		SearchTimeout:    time.Duration(searchMs) * time.Millisecond,
		PlayTimeout:      time.Duration(playMs) * time.Millisecond,
		AutocompleteRate: rate,
		HousekeepingScan: scan,
		IdleStatuses:     statuses,
		EmbedFooter:      footer,
		EmbedFooterIcon:  getenv("EMBED_FOOTER_ICON"),
	}, nil
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf(MsgConfigInvalidNumber, key, v)
	}
	return n, nil
}

// GetProjectName derives a display name from the executable, falling back to
// the module path when running under `go run`.
func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "maronn"
	if err != nil {
		return projectName
	}
	projectName = strings.TrimSuffix(filepath.Base(exePath), ".exe")
	if projectName == "main" || strings.HasPrefix(projectName, "go_build_") || strings.HasSuffix(projectName, ".test") {
		projectName = "maronn"
		if modData, err := os.ReadFile("go.mod"); err == nil {
			lines := strings.Split(string(modData), "\n")
			if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
				parts := strings.Split(lines[0], "/")
				projectName = strings.TrimSpace(parts[len(parts)-1])
			}
		}
	}
	return projectName
}
