package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

type Config struct {
	// Seed drives layout selection and the computer's choices; 0 picks one from the clock.
	Seed     int64
	ShowOwn  bool
	Audit    bool
	LogLevel string
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	return Config{
		Seed:     getenvInt64("BATTLESHIP_SEED", 0),
		ShowOwn:  getenvBool("BATTLESHIP_SHOW_OWN", true),
		Audit:    getenvBool("BATTLESHIP_AUDIT", false),
		LogLevel: getenv("BATTLESHIP_LOG_LEVEL", "info"),
	}
}

// ResolveSeed returns Seed, or the current time when Seed is 0.
func (c Config) ResolveSeed(now time.Time) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return now.UnixNano()
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
