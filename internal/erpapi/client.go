// Package erpapi is the HTTP client for the remote ERP Mini API. Every
// piece of business data the dashboard shows lives behind this boundary;
// the dashboard itself persists nothing.
package erpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the fallback API host used when no base URL is
// configured.
const DefaultBaseURL = "http://127.0.0.1:4000/api/v1"

// Client talks to the ERP Mini API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the given base URL, falling back to
// DefaultBaseURL when empty.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Auth carries the per-request credentials: the bearer token obtained at
// login and the branch scope most endpoints require.
type Auth struct {
	Token    string
	BranchID int64
}

// Envelope is a decoded top-level response object. Report endpoints wrap
// their row lists in a domain-specific field; callers pick the field they
// expect and treat absence as an empty list.
type Envelope map[string]json.RawMessage

// List extracts a raw list field from the envelope. A missing or null
// field yields an empty list, not an error.
func (e Envelope) List(field string) ([]map[string]any, error) {
	raw, ok := e[field]
	if !ok || string(raw) == "null" {
		return []map[string]any{}, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("erpapi: decode %s list: %w", field, err)
	}
	return records, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("erpapi: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("erpapi: status %d", e.StatusCode)
}

type apiStatus struct {
	Error   bool   `json:"error"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Report fetches a report envelope.
func (c *Client) Report(ctx context.Context, auth Auth, path string, params url.Values) (Envelope, error) {
	var env Envelope
	if err := c.get(ctx, auth, path, params, &env); err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) get(ctx context.Context, auth Auth, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, auth, out)
}

func (c *Client) post(ctx context.Context, auth Auth, path string, in, out any) error {
	body := &bytes.Buffer{}
	if in != nil {
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, auth, out)
}

func (c *Client) do(req *http.Request, auth Auth, out any) error {
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
	if auth.BranchID > 0 {
		req.Header.Set("X-Branch-ID", strconv.FormatInt(auth.BranchID, 10))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erpapi: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var status apiStatus
		_ = json.NewDecoder(resp.Body).Decode(&status)
		return &APIError{StatusCode: resp.StatusCode, Message: status.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erpapi: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
