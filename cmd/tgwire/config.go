package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate the configuration and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := cfgPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				resolved, err := config.ResolvePath()
				if err != nil {
					return err
				}
				path = resolved
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			fmt.Printf("Configuration OK (%s)\n", path)
			printSummary(os.Stdout, cfg)
			return nil
		},
	})
	return cmd
}

// printSummary renders the effective configuration. Only the public bot ID
// part of the token is shown.
func printSummary(w io.Writer, cfg *config.Config) {
	botID, _, _ := strings.Cut(cfg.Bot.Token, ":")
	fmt.Fprintf(w, "  bot id:        %s\n", botID)
	fmt.Fprintf(w, "  api:           %s\n", cfg.Bot.APIURL)
	fmt.Fprintf(w, "  polling:       timeout=%ds limit=%s\n", cfg.Polling.Timeout, limitLabel(cfg.Polling.Limit))
	if cfg.Ops.Enabled {
		fmt.Fprintf(w, "  ops:           %s\n", cfg.Ops.Bind)
	} else {
		fmt.Fprintf(w, "  ops:           disabled\n")
	}
	if cfg.Recorder.Enabled {
		fmt.Fprintf(w, "  recorder:      %s (keep %d)\n", cfg.Recorder.Path, cfg.Recorder.Keep)
	} else {
		fmt.Fprintf(w, "  recorder:      disabled\n")
	}
	fmt.Fprintf(w, "  announcements: %d\n", len(cfg.Announcements))
	fmt.Fprintf(w, "  log:           %s %s\n", cfg.Log.Level, cfg.Log.Format)
}

func limitLabel(n int) string {
	if n <= 0 {
		return "server-default"
	}
	return strconv.Itoa(n)
}
