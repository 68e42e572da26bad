// Package telegram sends plain text messages through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
)

var ErrNotConfigured = errors.New("telegram bot token not configured")

type Client struct {
	token          string
	baseURL        string
	defaultChatIDs []string
	httpClient     *http.Client
}

func NewClient(cfg config.TelegramConfig) *Client {
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &Client{
		token:          cfg.BotToken,
		baseURL:        base,
		defaultChatIDs: cfg.DefaultChatIDs,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// Recipients returns chatIDs, or the configured defaults when empty.
func (c *Client) Recipients(chatIDs []string) []string {
	if len(chatIDs) > 0 {
		return chatIDs
	}
	return c.defaultChatIDs
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text to one chat. One attempt, bounded by ctx.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out apiResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram sendMessage: status %d: %s", resp.StatusCode, out.Description)
	}
	return nil
}

// Broadcast sends text to every chat and joins the failures.
func (c *Client) Broadcast(ctx context.Context, chatIDs []string, text string) error {
	var errs []error
	for _, id := range chatIDs {
		if err := c.SendMessage(ctx, id, text); err != nil {
			slog.Warn("telegram send failed", "chat_id", id, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
