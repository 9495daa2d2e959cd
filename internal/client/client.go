// Package client is the Go data layer for the portal API: a typed REST
// client plus the list-view and form-draft state the browser front end keeps
// per page. It holds only disposable copies; server state stays the sole
// source of truth and lists are re-fetched after every mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stpi-ops/portal/internal/domain"
)

// APIError carries the status code and the server's {"error": ...} message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to one portal deployment.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient overrides the transport. Intended for tests.
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	c := New(base)
	c.hc = hc
	return c
}

// Resource is the typed surface of one route family. CreatePath differs from
// the base path only for co-locations (POST /api/projects/add).
type Resource[T any] struct {
	c          *Client
	path       string
	createPath string
}

func (c *Client) DatacomRF() Resource[domain.Customer] {
	return resourceAt[domain.Customer](c, "/api/datacom/rf")
}

func (c *Client) DatacomLAN() Resource[domain.Customer] {
	return resourceAt[domain.Customer](c, "/api/datacom/lan")
}

func (c *Client) Incubation() Resource[domain.Customer] {
	return resourceAt[domain.Customer](c, "/api/incubation")
}

func (c *Client) EximSTPI() Resource[domain.Unit] {
	return resourceAt[domain.Unit](c, "/api/exim/stpi")
}

func (c *Client) EximNonSTPI() Resource[domain.Unit] {
	return resourceAt[domain.Unit](c, "/api/exim/non-stpi")
}

func (c *Client) CoLocations() Resource[domain.CoLocation] {
	r := resourceAt[domain.CoLocation](c, "/api/projects")
	r.createPath = "/api/projects/add"
	return r
}

func resourceAt[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: path, createPath: path}
}

func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one record by id. Only the co-location routes serve a
// single-record GET; on the other route families the server has no such
// route and this returns a 404 APIError.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.path+"/"+id, nil, &out)
	return out, err
}

// Create posts a draft body; the server injects the discriminator and the id.
func (r Resource[T]) Create(ctx context.Context, body any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.createPath, body, &out)
	return out, err
}

func (r Resource[T]) Update(ctx context.Context, id string, body any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.path+"/"+id, body, &out)
	return out, err
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
