package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ioutils "github.com/handiism/flare/internal/io"
	"github.com/joho/godotenv"
)

// Settings holds all configuration options.
type Settings struct {
	// Playback settings
	Volume          int `json:"volume"`
	VolumeStep      int `json:"volume_step"`
	SeekStepSeconds int `json:"seek_step_seconds"`
	TickIntervalMs  int `json:"tick_interval_ms"`
	LoopIntervalMs  int `json:"loop_interval_ms"`

	// Track discovery
	TrackExtension string   `json:"track_extension"` // legacy fixed extension, e.g. ".mp3"
	Extensions     []string `json:"extensions"`      // empty means every regular file

	// Thumbnail settings
	ThumbnailCommand       string `json:"thumbnail_command"`
	ThumbnailKillTimeoutMs int    `json:"thumbnail_kill_timeout_ms"`
	ThumbnailMaxSize       int    `json:"thumbnail_max_size"` // pixels, 0 keeps original artwork

	// Display settings
	BarSlots    int    `json:"bar_slots"`
	FilledGlyph string `json:"filled_glyph"`
	EmptyGlyph  string `json:"empty_glyph"`

	// Logging
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	logFile := ""
	if cacheDir, err := os.UserCacheDir(); err == nil {
		logFile = filepath.Join(cacheDir, "flare", "flare.log")
	}

	return &Settings{
		Volume:          50,
		VolumeStep:      1,
		SeekStepSeconds: 5,
		TickIntervalMs:  500,
		LoopIntervalMs:  30,

		TrackExtension: "",
		Extensions:     nil,

		ThumbnailCommand:       "kitten",
		ThumbnailKillTimeoutMs: 2000,
		ThumbnailMaxSize:       600,

		BarSlots:    20,
		FilledGlyph: "■",
		EmptyGlyph:  "-",

		LogFile:  logFile,
		LogLevel: "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flare.json"
	}
	return filepath.Join(dir, "flare", "config.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from FLARE_* environment variables.
//
// A .env file in the working directory is loaded first; it never overrides
// variables that are already set in the environment.
func (s *Settings) ApplyEnv() {
	_ = godotenv.Load()

	s.Volume = getEnvInt("FLARE_VOLUME", s.Volume)
	s.VolumeStep = getEnvInt("FLARE_VOLUME_STEP", s.VolumeStep)
	s.SeekStepSeconds = getEnvInt("FLARE_SEEK_STEP", s.SeekStepSeconds)
	s.TickIntervalMs = getEnvInt("FLARE_TICK_INTERVAL_MS", s.TickIntervalMs)
	s.LoopIntervalMs = getEnvInt("FLARE_LOOP_INTERVAL_MS", s.LoopIntervalMs)
	s.TrackExtension = getEnv("FLARE_TRACK_EXTENSION", s.TrackExtension)
	s.ThumbnailCommand = getEnv("FLARE_THUMBNAIL_COMMAND", s.ThumbnailCommand)
	s.ThumbnailKillTimeoutMs = getEnvInt("FLARE_THUMBNAIL_KILL_TIMEOUT_MS", s.ThumbnailKillTimeoutMs)
	s.ThumbnailMaxSize = getEnvInt("FLARE_THUMBNAIL_MAX_SIZE", s.ThumbnailMaxSize)
	s.LogFile = getEnv("FLARE_LOG_FILE", s.LogFile)
	s.LogLevel = getEnv("FLARE_LOG_LEVEL", s.LogLevel)

	if exts := getEnv("FLARE_EXTENSIONS", ""); exts != "" {
		s.Extensions = splitList(exts)
	}
}

// Validate checks values that would break playback or rendering.
func (s *Settings) Validate() error {
	switch {
	case s.Volume < 0 || s.Volume > 100:
		return fmt.Errorf("volume must be between 0 and 100, got %d", s.Volume)
	case s.VolumeStep <= 0:
		return fmt.Errorf("volume_step must be positive, got %d", s.VolumeStep)
	case s.SeekStepSeconds <= 0:
		return fmt.Errorf("seek_step_seconds must be positive, got %d", s.SeekStepSeconds)
	case s.TickIntervalMs <= 0:
		return fmt.Errorf("tick_interval_ms must be positive, got %d", s.TickIntervalMs)
	case s.LoopIntervalMs <= 0:
		return fmt.Errorf("loop_interval_ms must be positive, got %d", s.LoopIntervalMs)
	case s.BarSlots <= 0:
		return fmt.Errorf("bar_slots must be positive, got %d", s.BarSlots)
	case len([]rune(s.FilledGlyph)) != 1 || len([]rune(s.EmptyGlyph)) != 1:
		return fmt.Errorf("bar glyphs must be single characters")
	}
	return nil
}

// TickInterval returns the engine position tick interval.
func (s *Settings) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMs) * time.Millisecond
}

// LoopInterval returns the session scheduling interval.
func (s *Settings) LoopInterval() time.Duration {
	return time.Duration(s.LoopIntervalMs) * time.Millisecond
}

// ThumbnailKillTimeout returns how long to wait for a thumbnail process to exit.
func (s *Settings) ThumbnailKillTimeout() time.Duration {
	return time.Duration(s.ThumbnailKillTimeoutMs) * time.Millisecond
}

// Glyphs returns the filled and empty bar glyphs.
func (s *Settings) Glyphs() (filled, empty rune) {
	filled, empty = '■', '-'
	if r := []rune(s.FilledGlyph); len(r) > 0 {
		filled = r[0]
	}
	if r := []rune(s.EmptyGlyph); len(r) > 0 {
		empty = r[0]
	}
	return filled, empty
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
