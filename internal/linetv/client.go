package linetv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/logging"
)

const (
	// DefaultBaseURL is the public static host serving the catalog.
	DefaultBaseURL = "https://static.linetv.tw/"
	// DramasPath is the catalog payload relative to the base URL.
	DramasPath = "interview/dramas-sample.json"

	defaultUserAgent = "reel/0.1"
	requestTimeout   = 10 * time.Second
)

// Fetcher loads the drama catalog. It is implemented by *Client and can be
// faked in tests.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]Drama, []byte, error)
}

var _ Fetcher = (*Client)(nil)

// Options configure a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// Client talks to the catalog host. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	log       logrus.FieldLogger
}

// NewClient builds a Client. The base URL is validated on each request so a
// bad value surfaces as ErrInvalidURL from the call that uses it.
func NewClient(opts Options) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		log:       logging.OrDiscard(opts.Log),
	}
}

// Fetch retrieves and decodes the catalog at path. The raw body is returned
// alongside the decoded dramas so callers can persist it.
func (c *Client) Fetch(ctx context.Context, path string) ([]Drama, []byte, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("client is nil")
	}
	raw, err := c.Get(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	dramas, err := DecodeDramas(raw)
	if err != nil {
		c.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("catalog decode failed")
		return nil, nil, newError(ErrDecode, path, http.StatusOK, err)
	}
	return dramas, raw, nil
}

// FetchDramas retrieves the default catalog.
func (c *Client) FetchDramas(ctx context.Context) ([]Drama, []byte, error) {
	return c.Fetch(ctx, DramasPath)
}

// Get issues one GET for path and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target, err := c.resolve(path)
	if err != nil {
		return nil, newError(ErrInvalidURL, path, 0, err)
	}

	requestID := newRequestID()
	log := c.log.WithFields(logrus.Fields{"path": path, "request_id": requestID})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, newError(ErrInvalidURL, path, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("catalog request failed")
		return nil, newError(ErrConnection, path, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).Round(time.Millisecond),
	})
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("catalog returned non-200 status")
		return nil, newError(ErrInvalidResponse, path, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("catalog body read failed")
		return nil, newError(ErrConnection, path, resp.StatusCode, err)
	}
	if len(body) == 0 {
		log.Warn("catalog returned empty body")
		return nil, newError(ErrInvalidData, path, resp.StatusCode, nil)
	}

	log.WithField("bytes", len(body)).Debug("catalog fetched")
	return body, nil
}

// resolve joins the base URL with a relative path, keeping the path's query.
func (c *Client) resolve(path string) (*url.URL, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", c.baseURL)
	}

	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, errors.New("path must be relative")
	}

	u := base.JoinPath(ref.Path)
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return u, nil
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
