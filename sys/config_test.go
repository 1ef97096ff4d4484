package sys

import (
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := configFromEnv(envFrom(map[string]string{
		"DISCORD_TOKEN":  "token",
		"DATABASE_PATH":  "test.db",
		"IDLE_STATUSES":  " | ",
		"EMBED_FOOTER":   "",
		"SEARCH_TIMEOUT": "ignored",
	}))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.SearchTimeout != 2600*time.Millisecond {
		t.Errorf("unexpected search timeout %v", cfg.SearchTimeout)
	}
	if cfg.PlayTimeout != 15*time.Second {
		t.Errorf("unexpected play timeout %v", cfg.PlayTimeout)
	}
	if cfg.HousekeepingScan != 100 || cfg.AutocompleteRate != 5 {
		t.Errorf("unexpected scan/rate %d/%v", cfg.HousekeepingScan, cfg.AutocompleteRate)
	}
	if len(cfg.IdleStatuses) != len(DefaultIdleStatuses) {
		t.Errorf("blank status list should fall back to defaults, got %v", cfg.IdleStatuses)
	}
	if cfg.EmbedFooter == "" {
		t.Error("expected a default footer")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	cfg, err := configFromEnv(envFrom(map[string]string{
		"DISCORD_TOKEN":     "token",
		"DATABASE_PATH":     "x.db",
		"SILENT":            "true",
		"SEARCH_TIMEOUT_MS": "1000",
		"PLAY_TIMEOUT_MS":   "5000",
		"HOUSEKEEPING_SCAN": "50",
		"AUTOCOMPLETE_RATE": "2.5",
		"IDLE_STATUSES":     "one| two |",
		"EMBED_FOOTER":      "footer",
	}))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if !cfg.Silent || cfg.SearchTimeout != time.Second || cfg.PlayTimeout != 5*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.HousekeepingScan != 50 || cfg.AutocompleteRate != 2.5 {
		t.Errorf("unexpected scan/rate %d/%v", cfg.HousekeepingScan, cfg.AutocompleteRate)
	}
	if len(cfg.IdleStatuses) != 2 || cfg.IdleStatuses[1] != "two" {
		t.Errorf("unexpected statuses %q", cfg.IdleStatuses)
	}
	if cfg.EmbedFooter != "footer" || cfg.DatabasePath != "x.db" {
		t.Errorf("unexpected footer/path %q/%q", cfg.EmbedFooter, cfg.DatabasePath)
	}
}

func TestConfigFromEnvRejectsBadNumbers(t *testing.T) {
	for _, key := range []string{"SEARCH_TIMEOUT_MS", "PLAY_TIMEOUT_MS", "HOUSEKEEPING_SCAN", "AUTOCOMPLETE_RATE"} {
		for _, v := range []string{"abc", "-1", "0"} {
			_, err := configFromEnv(envFrom(map[string]string{"DATABASE_PATH": "x.db", key: v}))
			if err == nil {
				t.Errorf("%s=%q: expected an error", key, v)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Token:            "token",
			SearchTimeout:    time.Second,
			PlayTimeout:      time.Second,
			HousekeepingScan: 100,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "valid guild", mutate: func(c *Config) { c.GuildID = "123456789012345678" }},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: true},
		{name: "bad guild", mutate: func(c *Config) { c.GuildID = "abc" }, wantErr: true},
		{name: "short guild", mutate: func(c *Config) { c.GuildID = "12345" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.SearchTimeout = 0 }, wantErr: true},
		{name: "scan too large", mutate: func(c *Config) { c.HousekeepingScan = 101 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
