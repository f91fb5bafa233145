// Package mcpserver exposes the bot over the Model Context Protocol, so MCP
// clients (editors, agents) can send messages and read updates through a
// stdio session without speaking the Bot API themselves.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flemzord/tgwire/pkg/telegram"
)

// Server wraps an MCP stdio server around a bot client. Polling goes through
// the shared Registry, so an MCP session and a daemon in the same process
// never compete for the getUpdates queue.
type Server struct {
	client   *telegram.Client
	registry *telegram.Registry
	mcp      *server.MCPServer
}

// New builds the MCP server and registers the bot tools.
func New(client *telegram.Client, registry *telegram.Registry, version string) *Server {
	s := &Server{
		client:   client,
		registry: registry,
		mcp: server.NewMCPServer("tgwire", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}

	s.mcp.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send a text message to a Telegram chat."),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Target chat: numeric ID or @channelusername."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text."),
		),
		mcp.WithString("parse_mode",
			mcp.Description("Optional formatting: Markdown, MarkdownV2, or HTML."),
		),
		mcp.WithNumber("reply_to",
			mcp.Description("Message ID to reply to."),
		),
		mcp.WithBoolean("silent",
			mcp.Description("Deliver without notification sound."),
		),
	), s.handleSendMessage)

	s.mcp.AddTool(mcp.NewTool("get_updates",
		mcp.WithDescription("Poll for new updates. Each update is delivered exactly once per credential."),
		mcp.WithNumber("timeout",
			mcp.Description("Long-poll hold time in seconds (0 returns immediately)."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max updates per batch (1-100)."),
		),
	), s.handleGetUpdates)

	s.mcp.AddTool(mcp.NewTool("get_me",
		mcp.WithDescription("Return the authenticated bot account."),
	), s.handleGetMe)

	return s
}

// ServeStdio blocks serving the MCP session on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := req.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := &telegram.SendMessageOptions{
		ParseMode:           telegram.ParseMode(req.GetString("parse_mode", "")),
		ReplyToMessageID:    int64(req.GetInt("reply_to", 0)),
		DisableNotification: req.GetBool("silent", false),
	}

	msg, err := s.client.SendMessage(ctx, telegram.ChatRef(chatID), text, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("send failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("sent message %d to chat %d", msg.MessageID, msg.Chat.ID)), nil
}

func (s *Server) handleGetUpdates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	poller, err := s.registry.Poller(s.client)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updates, err := poller.Poll(ctx, req.GetInt("timeout", 0), req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("poll failed: %v", err)), nil
	}
	if len(updates) == 0 {
		return mcp.NewToolResultText("no new updates"), nil
	}

	data, err := json.MarshalIndent(updates, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode updates: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetMe(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	me, err := s.client.GetMe(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getMe failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(me, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode user: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
