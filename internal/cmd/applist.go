package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gamelens/gamelens/internal/core/source"
	"github.com/gamelens/gamelens/internal/observability"
)

var applistCmd = &cobra.Command{
	Use:   "applist <file>",
	Short: "Download the Steam app list into a snapshot file",
	Long: `Download the full Steam app list and write it as a JSON snapshot.

Point steam.app_list_path at the snapshot to skip the download on every run.`,
	Args: cobra.ExactArgs(1),
	RunE: runAppList,
}

func init() {
	rootCmd.AddCommand(applistCmd)
}

func runAppList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apps, err := source.FetchAppList(cmd.Context(), newHTTPClient(cfg), cfg.Steam.AppListURL, cfg.HTTP.UserAgent)
	if err != nil {
		return err
	}

	path := args[0]
	if err := writeAppSnapshotFile(path, apps); err != nil {
		return err
	}

	if logger := observability.CLILogger; logger != nil {
		logger.Info("Steam app list snapshot written",
			zap.String("path", path),
			zap.Int("apps", len(apps)))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d apps to %s\n", len(apps), path)
	return err
}

// writeAppSnapshotFile replaces path atomically so a failed download never
// leaves a truncated snapshot behind.
func writeAppSnapshotFile(path string, apps []source.App) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck // no-op after rename

	if err := source.WriteAppSnapshot(tmp, apps); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
