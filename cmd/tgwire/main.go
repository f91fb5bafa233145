// Package main is the entry point for the tgwire CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/config"
	"github.com/flemzord/tgwire/pkg/telegram"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfgPath is the --config persistent flag.
var cfgPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tgwire:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tgwire",
		Short:         "Telegram bot toolkit: send messages, poll updates, run a bot daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")
	root.AddCommand(
		versionCmd(),
		initCmd(),
		configCmd(),
		getMeCmd(),
		sendCmd(),
		updatesCmd(),
		historyCmd(),
		listenCmd(),
		serviceCmd(),
		mcpCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tgwire %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads the configuration from --config or the standard locations.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		resolved, err := config.ResolvePath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return config.Load(path)
}

// newClient builds an API client from the loaded configuration.
func newClient(cfg *config.Config) (*telegram.Client, error) {
	opts := []telegram.Option{telegram.WithBaseURL(cfg.Bot.APIURL)}
	if cfg.Bot.RateLimit > 0 {
		opts = append(opts, telegram.WithRateLimit(cfg.Bot.RateLimit))
	}
	return telegram.NewClient(cfg.Bot.Token, opts...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
