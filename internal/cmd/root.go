package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gamelens/gamelens/internal/config"
	"github.com/gamelens/gamelens/internal/observability"
)

const (
	binaryName = "gamelens"
	envPrefix  = "GAMELENS"
)

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd looks up every name group given on the command line.
var rootCmd = &cobra.Command{
	Use:   binaryName + " [flags] <name[|alias...]>...",
	Short: "Aggregate Steam, OpenCritic and HowLongToBeat data for games",
	Long: `gamelens looks each game up on Steam, OpenCritic and HowLongToBeat
concurrently and prints one merged report per game.

A game may be given several names separated by "|". Each source keeps the
answer for the first name it recognises:

  gamelens "celeste|celeste classic" "portal 2"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLookup,
}

// Execute runs the root command. This is called by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gamelens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		if appConfigDir := gfconfig.GetAppConfigDir(binaryName); appConfigDir != "" {
			viper.AddConfigPath(appConfigDir)
			viper.SetConfigName("config")
		} else if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName("." + binaryName)
		}

		// Also search in current directory
		viper.AddConfigPath("./config")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables with prefix
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	readErr := viper.ReadInConfig()

	// The logger honours logging.level, so it is built after the config file is read.
	observability.InitCLILogger(binaryName, viper.GetString("logging.level"), verbose)

	var notFound viper.ConfigFileNotFoundError
	switch {
	case readErr == nil:
		observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
	case errors.As(readErr, &notFound):
		observability.CLILogger.Debug("No config file found, using defaults and environment variables")
	case cfgFile != "":
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Failed to read config file", readErr)
	default:
		observability.CLILogger.Warn("Error reading config file", zap.Error(readErr))
	}
}

// setDefaults sets default configuration values
func setDefaults() {
	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}
}

// loadConfig decodes the merged viper settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
