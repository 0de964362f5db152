package config

import "time"

// Config represents the complete application configuration. Values are
// layered by viper: defaults, then the config file, then GAMELENS_*
// environment variables, then flags.
type Config struct {
	HTTP          HTTPConfig          `mapstructure:"http"`
	Steam         SteamConfig         `mapstructure:"steam"`
	OpenCritic    OpenCriticConfig    `mapstructure:"opencritic"`
	HowLongToBeat HowLongToBeatConfig `mapstructure:"howlongtobeat"`
	Logging       LoggingConfig       `mapstructure:"logging"`

	// Workers bounds how many games are aggregated at once. Zero runs
	// every requested game in parallel.
	Workers int `mapstructure:"workers"`
}

// HTTPConfig configures the client shared by every source.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// SteamConfig configures the Steam store source and its app index.
type SteamConfig struct {
	StoreURL string `mapstructure:"store_url"`
	// AppListURL is the Steam Web API GetAppList endpoint.
	AppListURL string `mapstructure:"app_list_url"`
	// AppListPath, when set, loads the app index from a snapshot written
	// by `gamelens applist` instead of the network.
	AppListPath string `mapstructure:"app_list_path"`
}

// OpenCriticConfig configures the OpenCritic source.
type OpenCriticConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HowLongToBeatConfig configures the HowLongToBeat source.
type HowLongToBeatConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}
