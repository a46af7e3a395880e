// Package insight calls the external AI text-generation endpoint that
// turns the transaction list into a short natural-language analysis.
// One request in flight per user action; no retries, no caching.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"carteira/internal/core"
)

// ErrNoTransactions is returned when there is nothing to analyze; the
// request is never sent.
var ErrNoTransactions = errors.New("no transactions to analyze")

// RemoteServiceError marks an unreachable or misbehaving AI endpoint.
// It is always surfaced as a user-facing failure message, never as
// content.
type RemoteServiceError struct {
	Status  int
	Message string
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("insight service: %s", e.Message)
	}
	return fmt.Sprintf("insight service: status %d", e.Status)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type generateRequest struct {
	Transactions []core.Transaction `json:"transactions"`
}

type generateResponse struct {
	Insight string `json:"insight"`
	Error   string `json:"error"`
}

// Generate posts the transactions and returns the sanitized HTML
// fragment of the analysis.
func (c *Client) Generate(ctx context.Context, txs []core.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", ErrNoTransactions
	}

	body, err := json.Marshal(generateRequest{Transactions: txs})
	if err != nil {
		return "", fmt.Errorf("marshal insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "Insight endpoint unreachable", "error", err)
		return "", &RemoteServiceError{Message: "service unreachable"}
	}
	defer resp.Body.Close()

	var decoded generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	// A non-2xx status is never success, whatever the body says.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil {
			msg = decoded.Error
		}
		return "", &RemoteServiceError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &RemoteServiceError{Status: resp.StatusCode, Message: "malformed response"}
	}
	if decoded.Error != "" {
		return "", &RemoteServiceError{Status: resp.StatusCode, Message: decoded.Error}
	}
	if strings.TrimSpace(decoded.Insight) == "" {
		return "", &RemoteServiceError{Status: resp.StatusCode, Message: "empty insight"}
	}

	return Sanitize(decoded.Insight), nil
}

// tagPattern matches any HTML tag; Sanitize keeps only the closed set
// the insight contract allows.
var tagPattern = regexp.MustCompile(`(?i)</?([a-z0-9]+)[^>]*>`)

var allowedTags = map[string]bool{
	"p":      true,
	"strong": true,
	"ul":     true,
	"li":     true,
}

// Sanitize strips every tag outside p/strong/ul/li, including any
// attributes on allowed tags.
func Sanitize(html string) string {
	return tagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		name := strings.ToLower(tagPattern.FindStringSubmatch(tag)[1])
		if !allowedTags[name] {
			return ""
		}
		if strings.HasPrefix(tag, "</") {
			return "</" + name + ">"
		}
		return "<" + name + ">"
	})
}
