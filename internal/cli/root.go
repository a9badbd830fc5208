package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glabrego/storyreel/internal/config"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var (
	cfgFile string
	v       *viper.Viper
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storyreel",
	Short: "storyreel - a terminal feed of short news video stories",
	Long: `storyreel plays the short vertical video stories of a news site as an
endless feed: one story per screen, more stories loading as you approach
the end, and the current story reflected in the address line.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (STORYREEL_*)
3. Config file (~/.storyreel/config.yaml)
4. Defaults`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storyreel %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.storyreel/config.yaml)")
	rootCmd.PersistentFlags().String("host", "", "host the feed is served for, e.g. sagar.mojonetwork.in")
	rootCmd.PersistentFlags().String("base-path", "", "path prefix of story addresses")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite cache path")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables, then binds the flags.
func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	flags := map[string]string{
		"host":      "host",
		"base-path": "base_path",
		"db-path":   "db_path",
		"log-level": "log_level",
	}
	for flag, key := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			_ = loaded.BindPFlag(key, f)
		}
	}
	v = loaded
	return nil
}
