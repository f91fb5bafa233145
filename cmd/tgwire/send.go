package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/pkg/telegram"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a text message to a chat",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chat, _ := cmd.Flags().GetString("chat")
			text, _ := cmd.Flags().GetString("text")
			parseMode, _ := cmd.Flags().GetString("parse-mode")
			replyTo, _ := cmd.Flags().GetInt64("reply-to")
			silent, _ := cmd.Flags().GetBool("silent")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			msg, err := client.SendMessage(cmd.Context(), telegram.ChatRef(chat), text, &telegram.SendMessageOptions{
				ParseMode:           telegram.ParseMode(parseMode),
				ReplyToMessageID:    replyTo,
				DisableNotification: silent,
			})
			if err != nil {
				return err
			}
			fmt.Printf("message %d sent to chat %d\n", msg.MessageID, msg.Chat.ID)
			return nil
		},
	}
	cmd.Flags().String("chat", "", "Target chat: numeric ID or @channelusername")
	cmd.Flags().String("text", "", "Message text")
	cmd.Flags().String("parse-mode", "", "Markdown, MarkdownV2, or HTML")
	cmd.Flags().Int64("reply-to", 0, "Message ID to reply to")
	cmd.Flags().Bool("silent", false, "Deliver without notification sound")
	_ = cmd.MarkFlagRequired("chat")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func getMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getme",
		Short: "Show the authenticated bot account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			me, err := client.GetMe(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, me)
		},
	}
}
