package main

import (
	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/mcpserver"
	"github.com/flemzord/tgwire/pkg/telegram"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve bot tools over the Model Context Protocol on stdio",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			return mcpserver.New(client, telegram.NewRegistry(), version).ServeStdio()
		},
	}
}
