package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid config")

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"http.timeout":           "10s",
		"http.user_agent":        "gamelens",
		"steam.store_url":        "https://store.steampowered.com/",
		"steam.app_list_url":     "https://api.steampowered.com/ISteamApps/GetAppList/v2/",
		"steam.app_list_path":    "",
		"opencritic.base_url":    "https://api.opencritic.com/api/",
		"howlongtobeat.base_url": "https://howlongtobeat.com/",
		"logging.level":          "info",
		"workers":                0,
	}
}

// Load decodes merged settings (typically viper.AllSettings()) into a
// validated Config.
func Load(settings map[string]any) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the sources cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var problems []string
	if c.HTTP.Timeout <= 0 {
		problems = append(problems, "http.timeout must be positive")
	}
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}

	for key, value := range map[string]string{
		"steam.store_url":        c.Steam.StoreURL,
		"steam.app_list_url":     c.Steam.AppListURL,
		"opencritic.base_url":    c.OpenCritic.BaseURL,
		"howlongtobeat.base_url": c.HowLongToBeat.BaseURL,
	} {
		if err := validateURL(value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func validateURL(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("is required")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
