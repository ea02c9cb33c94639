package backend

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Gateway is the remote review service as seen by the rest of reviewdeck.
// *Client implements it; tests substitute scripted fakes.
type Gateway interface {
	ListApps(ctx context.Context) ([]AppSummary, error)
	GetApp(ctx context.Context, appID string) (*AppDetail, error)
	CrawlApp(ctx context.Context, appID string) (*AppDetail, error)
	AnalyzeApp(ctx context.Context, appID string) error
	DeleteApp(ctx context.Context, appID string) error
	TopicModelApp(ctx context.Context, appID string) (*TopicResult, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to the review service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *log.Logger
}

const (
	defaultAPIBase   = "127.0.0.1:8000"
	defaultUserAgent = "reviewdeck/0.1"
	maxErrorBody     = 1 << 20
	requestIDHeader  = "X-Request-ID"
)

// NewClient builds a Client for apiBase (host:port or full URL). The HTTP
// client has no timeout: crawling and analysis can legitimately take minutes,
// and cancellation is left to ctx.
func NewClient(apiBase string, logger *log.Logger) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		log:       logger,
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListApps retrieves the roster.
func (c *Client) ListApps(ctx context.Context) ([]AppSummary, error) {
	var payload []AppSummary
	if err := c.do(ctx, call{op: "list apps", method: http.MethodGet, path: "/api/apps"}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetApp retrieves the full detail of one app.
func (c *Client) GetApp(ctx context.Context, appID string) (*AppDetail, error) {
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	var payload AppDetail
	req := call{
		op:       "get app",
		method:   http.MethodGet,
		path:     appPath(appID),
		rawPath:  appRawPath(appID),
		classify: notFoundFor(appID),
	}
	if err := c.do(ctx, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CrawlApp asks the backend to collect app info and reviews for appID.
func (c *Client) CrawlApp(ctx context.Context, appID string) (*AppDetail, error) {
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	var payload AppDetail
	req := call{
		op:     "crawl app",
		method: http.MethodPost,
		path:   "/api/apps/crawl",
		body:   AppRequest{AppID: strings.TrimSpace(appID)},
		classify: func(status int, detail string) error {
			if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
				return &ValidationError{Field: "app_id", Detail: detail}
			}
			return nil
		},
	}
	if err := c.do(ctx, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AnalyzeApp triggers AI analysis. The acknowledgement carries no display
// data; callers re-fetch with GetApp.
func (c *Client) AnalyzeApp(ctx context.Context, appID string) error {
	if err := ValidateAppID(appID); err != nil {
		return err
	}
	req := call{
		op:     "analyze app",
		method: http.MethodPost,
		path:   "/api/apps/analyze",
		body:   AppRequest{AppID: appID},
	}
	return c.do(ctx, req, &Ack{})
}

// DeleteApp removes the app and its reviews from the backend.
func (c *Client) DeleteApp(ctx context.Context, appID string) error {
	if err := ValidateAppID(appID); err != nil {
		return err
	}
	req := call{
		op:       "delete app",
		method:   http.MethodDelete,
		path:     appPath(appID),
		rawPath:  appRawPath(appID),
		classify: notFoundFor(appID),
	}
	return c.do(ctx, req, &Ack{})
}

// TopicModelApp runs topic modeling over the app's reviews.
func (c *Client) TopicModelApp(ctx context.Context, appID string) (*TopicResult, error) {
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	var payload TopicModelingResponse
	req := call{
		op:     "topic modeling",
		method: http.MethodPost,
		path:   "/api/apps/topic-modeling",
		body:   AppRequest{AppID: appID},
		classify: func(status int, detail string) error {
			switch status {
			case http.StatusBadRequest, http.StatusUnprocessableEntity:
				return &InsufficientDataError{AppID: appID, Detail: detail}
			case http.StatusNotFound:
				return &NotFoundError{AppID: appID, Detail: detail}
			}
			return nil
		},
	}
	if err := c.do(ctx, req, &payload); err != nil {
		return nil, err
	}
	return &payload.Result, nil
}

// call describes one request. classify maps a failed status to a taxonomy
// error; returning nil falls back to UpstreamError.
type call struct {
	op       string
	method   string
	path     string
	rawPath  string
	body     any
	classify func(status int, detail string) error
}

func (c *Client) do(ctx context.Context, req call, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: req.path, RawPath: req.rawPath}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return &UpstreamError{Op: req.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL.String(), body)
	if err != nil {
		return &UpstreamError{Op: req.op, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(requestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("request failed", "op", req.op, "request_id", requestID, "err", err)
		return &UpstreamError{Op: req.op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("request", "op", req.op, "method", req.method, "path", req.path,
		"status", resp.StatusCode, "request_id", requestID, "took", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		if req.classify != nil {
			if classified := req.classify(resp.StatusCode, detail); classified != nil {
				return classified
			}
		}
		return &UpstreamError{Op: req.op, Status: resp.StatusCode, Detail: detail}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty acknowledgements are fine.
			return nil
		}
		return &UpstreamError{Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readDetail pulls the optional "detail" string out of an error body. FastAPI
// style validation errors carry a list there; those yield no detail.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}

func notFoundFor(appID string) func(int, string) error {
	return func(status int, detail string) error {
		if status == http.StatusNotFound {
			return &NotFoundError{AppID: appID, Detail: detail}
		}
		return nil
	}
}

func appPath(appID string) string {
	return "/api/apps/" + appID
}

func appRawPath(appID string) string {
	return "/api/apps/" + url.PathEscape(appID)
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
