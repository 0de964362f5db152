package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gamelens/gamelens/internal/config"
	"github.com/gamelens/gamelens/internal/core/engine"
	"github.com/gamelens/gamelens/internal/core/source"
	"github.com/gamelens/gamelens/internal/observability"
	"github.com/gamelens/gamelens/internal/output"
)

func init() {
	rootCmd.Flags().String("names-file", "", "Read name groups from a file, one per line (use - for stdin)")
	rootCmd.Flags().StringP("output", "o", "text", "Output format: text, table, markdown, json, yaml")
	rootCmd.Flags().Int("concurrency", 0, "Games aggregated at once (0 uses the workers setting)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	namesFile, err := cmd.Flags().GetString("names-file")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}

	groups, err := resolveNameGroups(args, namesFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}
	if concurrency < 0 {
		return fmt.Errorf("--concurrency must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency == 0 {
		concurrency = cfg.Workers
	}

	logger := observability.CLILogger
	client := newHTTPClient(cfg)
	batch := &engine.Batch{
		Aggregator: &engine.Aggregator{
			Sources: buildSources(cfg, client),
			Logger:  logger,
		},
		Concurrency: concurrency,
		Logger:      logger,
	}

	games, err := batch.Run(cmd.Context(), groups)
	if err != nil {
		return err
	}

	rendered, err := output.FormatGames(format, games)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

// buildSources returns the sources in display-name priority order.
func buildSources(cfg *config.Config, client *http.Client) []engine.Source {
	index := &source.AppIndex{
		SnapshotPath: cfg.Steam.AppListPath,
		ListURL:      cfg.Steam.AppListURL,
		Client:       client,
		UserAgent:    cfg.HTTP.UserAgent,
	}

	return []engine.Source{
		&source.SteamSource{
			Index:     index,
			Client:    client,
			StoreURL:  cfg.Steam.StoreURL,
			UserAgent: cfg.HTTP.UserAgent,
		},
		&source.OpenCriticSource{
			Client:    client,
			BaseURL:   cfg.OpenCritic.BaseURL,
			UserAgent: cfg.HTTP.UserAgent,
		},
		&source.HowLongToBeatSource{
			Client:    client,
			BaseURL:   cfg.HowLongToBeat.BaseURL,
			UserAgent: cfg.HTTP.UserAgent,
		},
	}
}
