// This file defines the configuration structure for the application.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port            int `mapstructure:"port"`
	JobTTLMinutes   int `mapstructure:"job_ttl_minutes"`
	CleanupInterval int `mapstructure:"cleanup_interval"` // minutes, 0 disables
	Output          struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"output"`
	Voice struct {
		Name   string  `mapstructure:"name"`
		Speed  float64 `mapstructure:"speed"`
		Pitch  float64 `mapstructure:"pitch"`
		Format string  `mapstructure:"format"`
	} `mapstructure:"voice"`
	Synthesis struct {
		Chain     []string `mapstructure:"chain"`
		Preferred string   `mapstructure:"preferred"`
	} `mapstructure:"synthesis"`
	Subtitles struct {
		SpeakingRateWPM     int     `mapstructure:"speaking_rate_wpm"`
		MinDuration         float64 `mapstructure:"min_duration"`
		MaxDuration         float64 `mapstructure:"max_duration"`
		MaxCharsPerLine     int     `mapstructure:"max_chars_per_line"`
		MaxCharsPerSubtitle int     `mapstructure:"max_chars_per_subtitle"`
		MinGap              float64 `mapstructure:"min_gap"`
	} `mapstructure:"subtitles"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	// Environment variable overrides, e.g. SLIDECAST_OUTPUT_PATH
	// overrides the `output.path` key.
	viper.SetEnvPrefix("SLIDECAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("port", 8080)
	viper.SetDefault("job_ttl_minutes", 60)
	viper.SetDefault("cleanup_interval", 30)
	viper.SetDefault("output.path", "./narrations")
	viper.SetDefault("voice.name", "en-US-Standard-A")
	viper.SetDefault("voice.speed", 1.0)
	viper.SetDefault("voice.pitch", 0.0)
	viper.SetDefault("voice.format", "mp3")
	viper.SetDefault("synthesis.chain", []string{"mockvoice"})
	viper.SetDefault("synthesis.preferred", "")
	viper.SetDefault("subtitles.speaking_rate_wpm", 150)
	viper.SetDefault("subtitles.min_duration", 1.0)
	viper.SetDefault("subtitles.max_duration", 7.0)
	viper.SetDefault("subtitles.max_chars_per_line", 42)
	viper.SetDefault("subtitles.max_chars_per_subtitle", 84)
	viper.SetDefault("subtitles.min_gap", 0.1)
}
