// Package entropy supplies world seeds when the caller did not pick one.
// Seeds come from random.org when an API key is configured and from
// crypto/rand otherwise.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const endpoint = "https://api.random.org/json-rpc/4/invoke"

// Client draws seeds from random.org.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Seed returns a non-zero seed. Falls back to crypto/rand on any API failure.
func (c *Client) Seed() int64 {
	if !c.Enabled() {
		return Seed()
	}
	s, err := c.fetch()
	if err != nil || s == 0 {
		slog.Debug("random.org seed unavailable, using crypto/rand", "error", err)
		return Seed()
	}
	return s
}

func (c *Client) fetch() (int64, error) {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": c.apiKey,
			"n":      2,
			"min":    0,
			"max":    1<<31 - 1,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("random.org: %s", result.Error.Message)
	}
	data := result.Result.Random.Data
	if len(data) < 2 {
		return 0, fmt.Errorf("random.org returned %d integers", len(data))
	}
	return data[0]<<31 | data[1], nil
}

// Seed returns a non-zero seed from crypto/rand.
func Seed() int64 {
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand failed; fall back to the clock.
			return time.Now().UnixNano() | 1
		}
		// Keep it positive so it prints cleanly in logs and file names.
		n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
		if n != 0 {
			return n
		}
	}
}
