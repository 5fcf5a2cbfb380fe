// internal/erpapi/client.go
package erpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// Config holds the ERP endpoint and credentials.
type Config struct {
	BaseURL    string `json:"base_url"`
	Token      string `json:"token"`
	TimeoutSec int    `json:"timeout_sec"`
}

// Client talks to the ERP REST API. Responses are JSON arrays of records;
// the server still serves them as ISO-8859-1, so the body goes through a
// charset-aware reader before decoding.
type Client struct {
	log  zerolog.Logger
	cfg  Config
	http *http.Client
}

func New(log zerolog.Logger, cfg Config) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if cfg.TimeoutSec <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		log:  log,
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Proveedores fetches the full supplier dump. No windowing: the ERP
// endpoint only supports complete extracts.
func (c *Client) Proveedores(ctx context.Context) ([]Record, error) {
	return c.fetchList(ctx, "/proveedores", nil)
}

// Productos fetches the product rows for one supplier inside [desde, hasta]
// (both "2006-01-02").
func (c *Client) Productos(ctx context.Context, kprv, desde, hasta string) ([]Record, error) {
	q := url.Values{}
	q.Set("kprv", kprv)
	q.Set("desde", desde)
	q.Set("hasta", hasta)
	return c.fetchList(ctx, "/productos", q)
}

func (c *Client) fetchList(ctx context.Context, path string, q url.Values) ([]Record, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("bad base_url: %w", err)
	}
	u.Path = u.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: http %d", path, resp.StatusCode)
	}

	// transcode legacy encodings (latin-1 etc.) based on Content-Type
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset %s: %w", path, err)
	}

	var items []Record
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		// anything that is not a JSON list is fatal for the run
		return nil, fmt.Errorf("decode %s: expected a list: %w", path, err)
	}

	c.log.Debug().Str("path", path).Int("records", len(items)).Msg("ERP fetch OK")
	return items, nil
}
