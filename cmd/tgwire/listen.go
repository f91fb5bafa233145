package main

import (
	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/daemon"
)

func listenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the long-polling daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			return daemon.Run(daemon.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
				LogLevel:   logLevel,
			})
		},
	}
	cmd.Flags().String("log-level", "", "Override log.level from the config (debug, info, warn, error)")
	return cmd
}
