package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/recorder"
	"github.com/flemzord/tgwire/pkg/telegram"
)

func updatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Poll once for pending updates",
		Long: `Polls getUpdates once and prints the batch as JSON. The batch is not
confirmed back to the server, so the same updates are delivered again to
the next poll or to a running daemon.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timeout, _ := cmd.Flags().GetInt("timeout")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			poller, err := telegram.NewRegistry().Poller(client)
			if err != nil {
				return err
			}

			updates, err := poller.Poll(cmd.Context(), timeout, limit)
			if err != nil {
				return err
			}
			if len(updates) == 0 {
				fmt.Println("no pending updates")
				return nil
			}
			return printJSON(os.Stdout, updates)
		},
	}
	cmd.Flags().Int("timeout", 0, "Long-poll hold time in seconds (0 returns immediately)")
	cmd.Flags().Int("limit", 0, "Max updates per batch (1-100)")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show updates recorded by the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chatID, _ := cmd.Flags().GetInt64("chat")
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := recorder.Open(cfg.Recorder.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var rows []recorder.StoredUpdate
			if chatID != 0 {
				rows, err = store.ByChat(cmd.Context(), chatID, limit)
			} else {
				rows, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(os.Stdout, rows)
			}
			if len(rows) == 0 {
				fmt.Println("no recorded updates")
				return nil
			}
			for _, r := range rows {
				sender := r.Sender
				if sender == "" {
					sender = "-"
				}
				fmt.Printf("%s  %-14s chat=%-12d %s: %s\n",
					r.ReceivedAt.Format(time.RFC3339), r.Kind, r.ChatID, sender, r.Text)
			}
			return nil
		},
	}
	cmd.Flags().Int64("chat", 0, "Only updates for this chat ID")
	cmd.Flags().Int("limit", 20, "Max rows to show")
	cmd.Flags().Bool("json", false, "Print full updates as JSON")
	return cmd
}
