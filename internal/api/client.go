// Package api talks to the career-services REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// RequestIDHeader carries the correlation id of each call.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
	Session           session.Session
	HTTPClient        *http.Client
	Logger            *logger.Logger
}

// Client issues authenticated JSON requests. It is safe for concurrent use.
type Client struct {
	baseURL   string
	hc        *http.Client
	limiter   *rate.Limiter
	userAgent string
	session   session.Session
	log       *logger.Logger
}

// New validates opts and builds a client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, apperrors.NewValidationError("api.base_url", fmt.Sprintf("invalid base url %q", opts.BaseURL), err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "careerdesk"
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:   base.String(),
		hc:        hc,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
		session:   opts.Session,
		log:       log.With("component", "api"),
	}, nil
}

// Session returns the identity the client authenticates as.
func (c *Client) Session() session.Session {
	return c.session
}

// List fetches a whole collection.
func (c *Client) List(ctx context.Context, col catalog.Collection) ([]record.Record, error) {
	body, err := c.do(ctx, http.MethodGet, col.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	return record.DecodeEnvelope(body, col.EnvelopeKey)
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, col catalog.Collection, id string) (record.Record, error) {
	body, err := c.do(ctx, http.MethodGet, col.Endpoint+"/"+url.PathEscape(id), nil)
	if err != nil {
		return record.Record{}, err
	}
	return record.DecodeOne(body, col.ItemKey)
}

// Create posts a new record and returns the stored copy.
func (c *Client) Create(ctx context.Context, col catalog.Collection, payload map[string]any) (record.Record, error) {
	body, err := c.do(ctx, http.MethodPost, col.Endpoint, payload)
	if err != nil {
		return record.Record{}, err
	}
	return record.DecodeOne(body, col.ItemKey)
}

// Apply registers the signed-in student for a listing.
func (c *Client) Apply(ctx context.Context, col catalog.Collection, id string) error {
	payload := map[string]any{}
	if c.session.Claims.UserID != "" {
		payload["student_id"] = c.session.Claims.UserID
	}
	_, err := c.do(ctx, http.MethodPost, col.Endpoint+"/"+url.PathEscape(id)+"/apply", payload)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	endpoint := method + " " + path
	requestID := RequestIDFrom(ctx)
	log := c.log.With("request_id", requestID, "method", method, "path", path)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewAPIError(endpoint, 0, "request cancelled", err)
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.NewAPIError(endpoint, 0, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.NewAPIError(endpoint, 0, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		log.Error(err, "request failed")
		return nil, apperrors.NewAPIError(endpoint, 0, "", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewAPIError(endpoint, res.StatusCode, "read response", err)
	}

	log.With("status", res.StatusCode, "duration_ms", time.Since(start).Milliseconds()).Debug("request completed")

	if res.StatusCode >= 400 {
		return nil, apperrors.NewAPIError(endpoint, res.StatusCode, errorMessage(res.StatusCode, body), nil)
	}
	return body, nil
}

// errorMessage prefers the backend's own {"message": ...} or {"error": ...}.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return "unexpected status"
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id in ctx, minting one when absent.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
