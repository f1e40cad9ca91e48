package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// defaultTimeout bounds a single catalog request end to end.
const defaultTimeout = 30 * time.Second

// RemoteMatch is the catalog's answer to a duplicate check.
type RemoteMatch struct {
	// Exists is true when the catalog already holds an entry for the
	// queried address code, galaxy, and mode.
	Exists bool `json:"exists"`

	// ID is the catalog entry id when Exists is true.
	ID string `json:"id,omitempty"`

	// Status is the entry's review state: pending, approved, rejected.
	Status string `json:"status,omitempty"`

	// Name is the name under which the entry was cataloged.
	Name string `json:"name,omitempty"`

	// Planets lists the names of bodies the catalog holds for the
	// entry, used to detect locally-known bodies missing remotely.
	Planets []string `json:"planets,omitempty"`
}

// SubmitResult is a successful submission response.
type SubmitResult struct {
	// ID is the submission id assigned by the catalog.
	ID string `json:"id"`

	// Status is the initial review state, normally pending.
	Status string `json:"status,omitempty"`
}

// Sink accepts discovery submissions. The HTTP client and the offline
// spool both implement it; callers never branch on the transport.
type Sink interface {
	// DuplicateCheck asks whether the catalog already holds an entry
	// for the address code in the given galaxy and game mode.
	DuplicateCheck(ctx context.Context, code, galaxy string, mode model.Mode) (*RemoteMatch, error)

	// Submit sends one system-level discovery. A returned error is
	// transient, permanent, or a conflict; see errors.go.
	Submit(ctx context.Context, payload *SubmissionPayload) (*SubmitResult, error)
}

// Client talks to the remote catalog over HTTPS.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithClientLogger sets the logger used for request-level debug output.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a catalog client. baseURL is the catalog API root,
// apiKey authenticates every request via the X-Catalog-Key header.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: "wayfarer",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DuplicateCheck implements Sink. A 404 means the catalog holds
// nothing for the key and is reported as a non-match, not an error.
func (c *Client) DuplicateCheck(ctx context.Context, code, galaxy string, mode model.Mode) (*RemoteMatch, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("galaxy", galaxy)
	q.Set("mode", string(mode))
	endpoint := fmt.Sprintf("%s/v1/systems/lookup?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build duplicate check request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transient(fmt.Errorf("duplicate check failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var match RemoteMatch
		if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
			return nil, transient(fmt.Errorf("failed to decode duplicate check response: %w", err))
		}
		return &match, nil
	case resp.StatusCode == http.StatusNotFound:
		return &RemoteMatch{Exists: false}, nil
	case resp.StatusCode >= 500:
		return nil, transient(fmt.Errorf("catalog returned HTTP %d", resp.StatusCode))
	default:
		return nil, &PermanentError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
}

// Submit implements Sink.
func (c *Client) Submit(ctx context.Context, payload *SubmissionPayload) (*SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	endpoint := c.baseURL + "/v1/systems"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build submission request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "submitting discovery",
		slog.String("name", payload.Name),
		slog.String("code", payload.AddressCode),
		slog.String("galaxy", payload.Galaxy))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transient(fmt.Errorf("submission failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var result SubmitResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, transient(fmt.Errorf("failed to decode submission response: %w", err))
		}
		return &result, nil
	case resp.StatusCode == http.StatusConflict:
		var conflict struct {
			ExistingID string `json:"existing_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err != nil {
			return nil, &ConflictError{}
		}
		return nil, &ConflictError{ExistingID: conflict.ExistingID}
	case resp.StatusCode >= 500:
		return nil, transient(fmt.Errorf("catalog returned HTTP %d", resp.StatusCode))
	default:
		return nil, &PermanentError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
}

// setHeaders attaches authentication and identification headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Catalog-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
}

// readMessage extracts an error message from a rejection body. The
// catalog sends {"error": "..."}; anything else becomes the raw text.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return string(bytes.TrimSpace(data))
}
