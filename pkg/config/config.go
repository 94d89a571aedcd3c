package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// TTY is the terminal device the escape sequences are exchanged over
	TTY string `mapstructure:"tty"`

	// Timeout bounds a clipboard read; zero waits for the terminal forever
	Timeout time.Duration `mapstructure:"timeout"`

	// ProbeTimeout bounds a DECRQM mode query
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// ChunkSize is the most bytes requested from the device per read
	ChunkSize int `mapstructure:"chunk_size"`

	Log   LogConfig   `mapstructure:"log"`
	Copy  CopyConfig  `mapstructure:"copy"`
	Paste PasteConfig `mapstructure:"paste"`
}

type CopyConfig struct {
	TrimNewline bool `mapstructure:"trim_newline"`
}

type PasteConfig struct {
	NoNewline bool `mapstructure:"no_newline"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config search paths
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.termclip")
	viper.AddConfigPath("/etc/termclip/")

	// Environment variable overrides
	viper.SetEnvPrefix("TERMCLIP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// With SetEnvPrefix("TERMCLIP"), these become: TERMCLIP_TTY, TERMCLIP_LOG_LEVEL, etc.
	viper.BindEnv("tty")
	viper.BindEnv("timeout")
	viper.BindEnv("probe_timeout")
	viper.BindEnv("chunk_size")
	viper.BindEnv("log.level")
	viper.BindEnv("log.format")
	viper.BindEnv("log.debug")
	viper.BindEnv("copy.trim_newline")
	viper.BindEnv("paste.no_newline")

	SetDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("tty", "/dev/tty")
	viper.SetDefault("timeout", "0s")
	viper.SetDefault("probe_timeout", "1s")
	viper.SetDefault("chunk_size", 4096)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.debug", false)
	viper.SetDefault("copy.trim_newline", false)
	viper.SetDefault("paste.no_newline", false)
}

// Validate rejects values the terminal layer cannot work with.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("invalid probe_timeout %s: must be positive", c.ProbeTimeout)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk_size %d: must be positive", c.ChunkSize)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be 'console' or 'json')", c.Log.Format)
	}
	return nil
}
