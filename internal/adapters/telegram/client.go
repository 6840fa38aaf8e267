// Package telegram is the presentation adapter: it moves events between
// the Bot API and the dialogue engine's vocabulary. Nothing else in the
// bot talks to the platform.
package telegram

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultAPIBase = "https://api.telegram.org"

// Client is a hand-rolled Bot API client covering the handful of methods
// the bot needs. Safe for concurrent use.
type Client struct {
	http    *resty.Client
	timeout time.Duration
}

// NewClient builds a client for the given bot token. timeout bounds every
// call except the long poll, which sets its own deadline.
func NewClient(token string, timeout time.Duration) *Client {
	hc := resty.New().
		SetBaseURL(defaultAPIBase + "/bot" + token).
		SetHeader("Accept", "application/json")

	return &Client{http: hc, timeout: timeout}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, body any, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/" + method)
	if err != nil {
		return errors.Wrapf(err, "calling %s", method)
	}

	var api apiResponse
	if err := json.Unmarshal(resp.Body(), &api); err != nil {
		return errors.Wrapf(err, "decoding %s response", method)
	}
	if !api.OK {
		return errors.Errorf("%s failed: %s", method, api.Description)
	}
	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return errors.Wrapf(err, "decoding %s result", method)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates past offset. pollTimeout is the
// server-side hold; the request deadline leaves headroom on top of it.
func (c *Client) GetUpdates(ctx context.Context, offset int64, pollTimeout time.Duration) ([]Update, error) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout+10*time.Second)
	defer cancel()

	body := map[string]any{
		"offset":          offset,
		"timeout":         int(pollTimeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", body, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markdown bool, markup *InlineKeyboardMarkup) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markdown {
		body["parse_mode"] = "Markdown"
	}
	if markup != nil {
		body["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", body, nil)
}

func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, markdown bool, markup *InlineKeyboardMarkup) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markdown {
		body["parse_mode"] = "Markdown"
	}
	if markup != nil {
		body["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageText", body, nil)
}

// AnswerCallbackQuery stops the client-side spinner after a button click.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil)
}

// Me returns the bot's own id, used as a startup credential check.
func (c *Client) Me(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var me User
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return 0, err
	}
	return me.ID, nil
}
