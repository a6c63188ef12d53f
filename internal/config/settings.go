package config

import (
	"os"
	"strconv"
)

// Settings are the process-level knobs read from the environment.
// Game-balance constants live in their own files and are not settable.
type Settings struct {
	Addr        string
	HostSecret  string
	DatabaseURL string // optional; enables finished-game archival
	SnapshotDir string // optional; enables local snapshot persistence
	BotFill     bool   // fill unclaimed teams with bots on start
	Debug       bool
}

func LoadSettings() Settings {
	return Settings{
		Addr:        envOr("ADDR", ":8080"),
		HostSecret:  envOr("HOST_SECRET", "kienquoc-dev-secret"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SnapshotDir: os.Getenv("SNAPSHOT_DIR"),
		BotFill:     envBool("BOT_FILL", true),
		Debug:       envBool("DEBUG", false),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
