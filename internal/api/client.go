// Package api is the thin client for the remote backend. The wire format is
// the backend's business; this core only threads results through the local
// store and the sync engine.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"swipe/internal/store"
)

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}
}

// Ping probes backend reachability. Any error means offline.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: status %d", resp.StatusCode)
	}
	return nil
}

// MessagesSince fetches every message the server confirmed after the given
// unix-millis checkpoint.
func (c *Client) MessagesSince(ctx context.Context, since int64) ([]store.Message, error) {
	u := c.baseURL + "/v1/messages?since=" + strconv.FormatInt(since, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("backend rejected request",
			zap.String("path", "/v1/messages"),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("messages since: status %d", resp.StatusCode)
	}

	var body struct {
		Messages []store.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("backend response unreadable",
			zap.String("path", "/v1/messages"),
			zap.Error(err))
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return body.Messages, nil
}

// SendText delivers a text message and returns the server-assigned id.
// Requests carry an idempotency key so drain retries cannot double-send.
func (c *Client) SendText(ctx context.Context, chatID, content string) (string, error) {
	payload := map[string]string{"content": content}
	var body struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, "/v1/chats/"+url.PathEscape(chatID)+"/messages", payload, &body)
	if err != nil {
		return "", err
	}
	return body.ID, nil
}

// SendPayment performs a wallet transfer and returns the transaction hash.
func (c *Client) SendPayment(ctx context.Context, chatID string, amount float64, memo, recipientID string) (string, error) {
	payload := map[string]any{
		"chatId":      chatID,
		"amount":      amount,
		"memo":        memo,
		"recipientId": recipientID,
	}
	var body struct {
		TxHash string `json:"txHash"`
	}
	if err := c.post(ctx, "/v1/wallet/transfer", payload, &body); err != nil {
		return "", err
	}
	return body.TxHash, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn("backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn("backend response unreadable",
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
