package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: environment variables > config file > defaults.
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/fuseparty")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short env names for the settings operators touch most.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("dictionary.mode", "DICTIONARY_MODE")
	v.BindEnv("dictionary.path", "DICTIONARY_PATH")

	def := DefaultConfig()
	v.SetDefault("server.readtimeout", def.Server.ReadTimeout.String())
	v.SetDefault("server.writetimeout", def.Server.WriteTimeout.String())
	v.SetDefault("server.idletimeout", def.Server.IdleTimeout.String())
	v.SetDefault("server.shutdowntimeout", def.Server.ShutdownTimeout.String())
	v.SetDefault("server.ratelimit", def.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", def.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", def.Server.MaxRequestSize)
	v.SetDefault("server.loglevel", def.Server.LogLevel)
	v.SetDefault("server.logformat", def.Server.LogFormat)

	v.SetDefault("dictionary.mode", def.Dictionary.Mode)
	v.SetDefault("dictionary.path", def.Dictionary.Path)

	v.SetDefault("game.countdownms", def.Game.CountdownMs)
	v.SetDefault("game.initialbombseconds", def.Game.InitialBombSeconds)
	v.SetDefault("game.bombdecayfactor", def.Game.BombDecayFactor)
	v.SetDefault("game.endgracems", def.Game.EndGraceMs)

	v.SetDefault("room.codealphabet", def.Room.CodeAlphabet)
	v.SetDefault("room.codelength", def.Room.CodeLength)
	v.SetDefault("room.idletimeout", def.Room.IdleTimeout.String())
	v.SetDefault("room.commandqueuesize", def.Room.CommandQueueSize)

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
