// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/user/framecheck/pkg/playback"
)

// Config represents the full configuration for framecheck.
type Config struct {
	// Decoding
	DefaultSequenceFPS float64 `yaml:"default_sequence_fps" toml:"default_sequence_fps"`
	FFmpegPath         string  `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	FFprobePath        string  `yaml:"ffprobe_path" toml:"ffprobe_path"`

	// Logging
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// Placeholders
	PlaceholderWidth      int    `yaml:"placeholder_width" toml:"placeholder_width"`
	PlaceholderHeight     int    `yaml:"placeholder_height" toml:"placeholder_height"`
	PlaceholderBackground string `yaml:"placeholder_background" toml:"placeholder_background"`

	// Playback
	ResumeDelayMs      int     `yaml:"resume_delay_ms" toml:"resume_delay_ms"`
	CompareFallbackFPS float64 `yaml:"compare_fallback_fps" toml:"compare_fallback_fps"`
	TickFallbackMs     int     `yaml:"tick_fallback_ms" toml:"tick_fallback_ms"`
	InitialMode        string  `yaml:"initial_mode" toml:"initial_mode"`
	WatchSequences     bool    `yaml:"watch_sequences" toml:"watch_sequences"`

	// Surface
	SurfaceWidth      int    `yaml:"surface_width" toml:"surface_width"`
	SurfaceHeight     int    `yaml:"surface_height" toml:"surface_height"`
	SurfaceBackground string `yaml:"surface_background" toml:"surface_background"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		DefaultSequenceFPS: 24,

		LogLevel:  "info",
		LogFormat: "console",

		PlaceholderWidth:      640,
		PlaceholderHeight:     480,
		PlaceholderBackground: "#404040",

		ResumeDelayMs:      100,
		CompareFallbackFPS: 30,
		TickFallbackMs:     41,
		InitialMode:        "loop",
		WatchSequences:     true,

		SurfaceWidth:      1280,
		SurfaceHeight:     720,
		SurfaceBackground: "#141414",
	}
}

// LoadFromFile loads configuration from a YAML file, or a TOML file when
// the name ends in .toml. Keys missing from the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.DefaultSequenceFPS <= 0 {
		return fmt.Errorf("default_sequence_fps must be positive, got %g", c.DefaultSequenceFPS)
	}
	if c.CompareFallbackFPS <= 0 {
		return fmt.Errorf("compare_fallback_fps must be positive, got %g", c.CompareFallbackFPS)
	}
	if c.PlaceholderWidth <= 0 || c.PlaceholderHeight <= 0 {
		return fmt.Errorf("placeholder size must be positive, got %dx%d", c.PlaceholderWidth, c.PlaceholderHeight)
	}
	if c.SurfaceWidth <= 0 || c.SurfaceHeight <= 0 {
		return fmt.Errorf("surface size must be positive, got %dx%d", c.SurfaceWidth, c.SurfaceHeight)
	}
	if c.ResumeDelayMs < 0 || c.TickFallbackMs <= 0 {
		return fmt.Errorf("resume_delay_ms must be >= 0 and tick_fallback_ms > 0")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	if _, err := playback.ParseMode(c.InitialMode); err != nil {
		return err
	}
	return nil
}

// Mode returns the initial playback mode, LOOP when unparsable.
func (c Config) Mode() playback.Mode {
	m, err := playback.ParseMode(c.InitialMode)
	if err != nil {
		return playback.Loop
	}
	return m
}

// ResumeDelay returns resume_delay_ms as a duration.
func (c Config) ResumeDelay() time.Duration {
	return time.Duration(c.ResumeDelayMs) * time.Millisecond
}

// TickFallback returns tick_fallback_ms as a duration.
func (c Config) TickFallback() time.Duration {
	return time.Duration(c.TickFallbackMs) * time.Millisecond
}

// ParseColor parses "#rrggbb" or "rrggbb". Anything else is black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.Black
	}
	channel := func(i int) uint8 {
		return hexValue(hex[i])<<4 | hexValue(hex[i+1])
	}
	return color.RGBA{R: channel(0), G: channel(2), B: channel(4), A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
