// Package client talks to a running debtgauge daemon over its HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/debtgauge/internal/daemon"
	"github.com/theirongolddev/debtgauge/internal/gauge"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrBadInput indicates the daemon rejected the gauge inputs.
	ErrBadInput = errors.New("client: daemon rejected input")
	// ErrUnrepresentable indicates the layout could not be encoded, e.g. NaN
	// geometry from a negative credit limit.
	ErrUnrepresentable = errors.New("client: layout not representable")
)

// Client queries one daemon.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the daemon listening on addr. A bare host:port is
// treated as plain HTTP.
func New(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		base: addr,
		http: &http.Client{},
	}
}

// Healthy reports whether the daemon answers its health probe.
func (c *Client) Healthy(ctx context.Context) bool {
	_, err := c.get(ctx, "/healthz", nil)
	return err == nil
}

// Status returns the daemon's runtime status and latest snapshot.
func (c *Client) Status(ctx context.Context) (daemon.Status, error) {
	var st daemon.Status
	body, err := c.get(ctx, "/v1/status", nil)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("client: parsing status: %w", err)
	}
	return st, nil
}

// Layout asks the daemon to compute one gauge.
func (c *Client) Layout(ctx context.Context, in gauge.Input) (gauge.Output, error) {
	q := url.Values{}
	q.Set("balance", formatFloat(in.Balance))
	q.Set("credit", formatFloat(in.Credit))
	q.Set("padding", formatFloat(in.Padding))
	q.Set("width", formatFloat(in.TrackWidth))

	body, err := c.get(ctx, "/v1/layout", q)
	if err != nil {
		return gauge.Output{}, err
	}
	var resp struct {
		Layout gauge.Output `json:"layout"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return gauge.Output{}, fmt.Errorf("client: parsing layout: %w", err)
	}
	return resp.Layout, nil
}

// Accounts returns every stored account laid out at width. A width of 0 uses
// the daemon's default.
func (c *Client) Accounts(ctx context.Context, width float64) ([]daemon.AccountLayout, error) {
	var q url.Values
	if width > 0 {
		q = url.Values{"width": {formatFloat(width)}}
	}
	body, err := c.get(ctx, "/v1/accounts", q)
	if err != nil {
		return nil, err
	}
	var out []daemon.AccountLayout
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("client: parsing accounts: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "debtgauge-client/1.0")

	resp, err := c.http.Do(req) //nolint:gosec // URL is the user's own daemon address
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("client: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadInput, strings.TrimSpace(string(body)))
	case http.StatusUnprocessableEntity:
		return nil, ErrUnrepresentable
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
