package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Canvas
	CanvasURL   string
	CanvasToken string

	// HTTP attempts per call. 1 = no automatic retry; pacing between calls
	// is the rate-limit strategy, not backoff.
	HTTPMaxAttempts int

	// Pacing
	PagePause  time.Duration // between paginated fetches
	ApplyPause time.Duration // between association creates

	// Migration polling
	PollInterval time.Duration
	PollTimeout  time.Duration // 0 = poll until terminal
	MaxPolls     int           // 0 = unbounded

	// SFTP drop for decision logs
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local runs (missing file is fine).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		CanvasURL:   os.Getenv("CANVAS_URL"),
		CanvasToken: os.Getenv("CANVAS_TOKEN"),

		HTTPMaxAttempts: getenvInt("CANVAS_HTTP_MAX_ATTEMPTS", 1),

		PagePause:  time.Duration(getenvInt("CANVAS_PAGE_PAUSE_MS", 200)) * time.Millisecond,
		ApplyPause: time.Duration(getenvInt("APPLY_PAUSE_MS", 500)) * time.Millisecond,

		PollInterval: time.Duration(getenvInt("MIGRATION_POLL_SECONDS", 3)) * time.Second,
		PollTimeout:  time.Duration(getenvInt("MIGRATION_POLL_TIMEOUT_SECONDS", 0)) * time.Second,
		MaxPolls:     getenvInt("MIGRATION_MAX_POLLS", 0),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", true),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
