package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures; loading is handled by
// viper in viper_config.go.

// ServerConfig is the full process configuration.
type ServerConfig struct {
	Server     ServerSettings     `yaml:"server"`
	Dictionary DictionarySettings `yaml:"dictionary"`
	Game       GameSettings       `yaml:"game"`
	Room       RoomSettings       `yaml:"room"`
}

// ServerSettings contains the HTTP/websocket listener settings.
type ServerSettings struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	MaxRequestSize int64 `yaml:"maxRequestSize"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// DictionarySettings selects the word-list source. Mode is explicit:
// "file" loads Path, "fallback" installs the built-in test list.
type DictionarySettings struct {
	Mode string `yaml:"mode"`
	Path string `yaml:"path"`
}

// GameSettings are the engine timings shared by every room.
type GameSettings struct {
	CountdownMs        int     `yaml:"countdownMs"`
	InitialBombSeconds int     `yaml:"initialBombSeconds"`
	BombDecayFactor    float64 `yaml:"bombDecayFactor"`
	EndGraceMs         int     `yaml:"endGraceMs"`
}

// RoomSettings cover code allocation and room lifecycle.
type RoomSettings struct {
	CodeAlphabet     string        `yaml:"codeAlphabet"`
	CodeLength       int           `yaml:"codeLength"`
	IdleTimeout      time.Duration `yaml:"idleTimeout"`
	CommandQueueSize int           `yaml:"commandQueueSize"`
}

// DefaultConfig returns a configuration with every tunable at its
// production default. Host and port still have to come from the
// environment or a config file.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       20,
			RateLimitBurst:  40,
			MaxRequestSize:  1 << 20,
			LogLevel:        "info",
			LogFormat:       "json",
		},
		Dictionary: DictionarySettings{
			Mode: "file",
			Path: "words.txt",
		},
		Game: GameSettings{
			CountdownMs:        3000,
			InitialBombSeconds: 10,
			BombDecayFactor:    0.97,
			EndGraceMs:         3000,
		},
		Room: RoomSettings{
			CodeAlphabet:     "ABCDEFGHJKLMNPQRSTUVWXYZ",
			CodeLength:       4,
			IdleTimeout:      10 * time.Minute,
			CommandQueueSize: 1024,
		},
	}
}

// Validate checks the configuration for internally consistent values.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST must be set")
	}
	switch c.Dictionary.Mode {
	case "file", "fallback":
	default:
		return fmt.Errorf("dictionary.mode must be file or fallback, got %q", c.Dictionary.Mode)
	}
	if c.Dictionary.Mode == "file" && c.Dictionary.Path == "" {
		return fmt.Errorf("dictionary.path must be set in file mode")
	}
	if c.Game.CountdownMs < 0 {
		return fmt.Errorf("game.countdownMs must not be negative")
	}
	if c.Game.InitialBombSeconds < 1 {
		return fmt.Errorf("game.initialBombSeconds must be at least 1")
	}
	if c.Game.BombDecayFactor <= 0 || c.Game.BombDecayFactor > 1 {
		return fmt.Errorf("game.bombDecayFactor must be in (0, 1], got %v", c.Game.BombDecayFactor)
	}
	if len(c.Room.CodeAlphabet) == 0 {
		return fmt.Errorf("room.codeAlphabet must not be empty")
	}
	if c.Room.CodeLength < 1 {
		return fmt.Errorf("room.codeLength must be at least 1")
	}
	if c.Room.CommandQueueSize < 1 {
		return fmt.Errorf("room.commandQueueSize must be at least 1")
	}
	return nil
}
