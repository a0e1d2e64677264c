// Package telegram sends admin notifications through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"collector_backend/platform/apperr"
	"collector_backend/platform/config"
	"collector_backend/platform/logger"
)

const (
	apiBaseURL     = "https://api.telegram.org"
	requestTimeout = 10 * time.Second
)

// Client sends messages to the configured admin chats. A nil Client is a
// no-op, used when the notifier is not configured.
type Client struct {
	token   string
	chatIDs []int64
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a Telegram client, or nil when notifications are
// disabled in the configuration.
func NewClient(cfg config.TelegramConfig, log *logger.Logger) *Client {
	if !cfg.IsTelegramEnabled() {
		return nil
	}
	return &Client{
		token:   cfg.GetTelegramBotToken(),
		chatIDs: cfg.GetTelegramAdminChatIDs(),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Broadcast sends the text to every admin chat concurrently. Failed
// deliveries are logged per chat; one failing chat does not stop the rest.
func (c *Client) Broadcast(ctx context.Context, text string) {
	if c == nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, chatID := range c.chatIDs {
		g.Go(func() error {
			if err := c.sendMessage(ctx, chatID, text); err != nil {
				c.log.DispatchError("telegram", chatID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", apiBaseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "telegram api unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, body)
	}
	return nil
}
