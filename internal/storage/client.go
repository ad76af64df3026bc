package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal object-storage client for the hosted backend's
// /storage/v1 REST API.
type Client struct {
	BaseURL string
	APIKey  string
	Bucket  string

	HTTP *http.Client
}

func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Bucket) != ""
}

// Upload stores body at path, replacing an existing object.
func (c *Client) Upload(ctx context.Context, path, contentType string, body []byte) error {
	if !c.Configured() {
		return errors.New("storage is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	c.authorize(req)
	return c.do(req, "upload")
}

// Remove deletes the given object paths in one call.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	if !c.Configured() {
		return errors.New("storage is not configured")
	}
	if len(paths) == 0 {
		return nil
	}
	b, err := json.Marshal(map[string]any{"prefixes": paths})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base()+"/storage/v1/object/"+url.PathEscape(c.Bucket), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req, "remove")
}

// PublicURL is the unauthenticated URL of an object in a public bucket.
func (c *Client) PublicURL(path string) string {
	return c.base() + "/storage/v1/object/public/" + url.PathEscape(c.Bucket) + "/" + escapePath(path)
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return errors.New("storage is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base()+"/storage/v1/bucket/"+url.PathEscape(c.Bucket), nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.do(req, "ping")
}

func (c *Client) objectURL(path string) string {
	return c.base() + "/storage/v1/object/" + url.PathEscape(c.Bucket) + "/" + escapePath(path)
}

func (c *Client) authorize(req *http.Request) {
	key := strings.TrimSpace(c.APIKey)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("apikey", key)
}

func (c *Client) do(req *http.Request, op string) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("storage %s http %d: %s", op, resp.StatusCode, strings.TrimSpace(string(bb)))
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 20 * time.Second}
}

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
