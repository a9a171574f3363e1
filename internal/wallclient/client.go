package wallclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/dto"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/moderation"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

// DefaultTimeout bounds each API call.
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the wall server.
type APIError struct {
	Status            int
	Message           string
	RetryAfterSeconds int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wall api: %d %s", e.Status, e.Message)
}

// Client talks to the wall's HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	adminToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithAdminToken sends the moderator credential on admin calls.
func (c *Client) WithAdminToken(token string) *Client {
	c.adminToken = token
	return c
}

func (c *Client) Submit(ctx context.Context, clientID, message string, mood *models.Mood) (*models.Confession, error) {
	req := dto.CreateConfessionRequest{Message: message}
	if mood != nil {
		m := string(*mood)
		req.Mood = &m
	}
	var out models.Confession
	if err := c.do(ctx, http.MethodPost, "/api/confessions", clientHeader(clientID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) React(ctx context.Context, clientID string, contentID uuid.UUID) (*services.ReactResult, error) {
	var out dto.ReactResponse
	path := "/api/confessions/" + contentID.String() + "/react"
	if err := c.do(ctx, http.MethodPost, path, clientHeader(clientID), nil, &out); err != nil {
		return nil, err
	}
	return &services.ReactResult{Added: out.Added, AlreadyReacted: out.AlreadyReacted, Hearts: out.Hearts}, nil
}

func (c *Client) Report(ctx context.Context, contentID uuid.UUID, reason models.ReportReason, details string) (*models.Report, error) {
	var out models.Report
	path := "/api/confessions/" + contentID.String() + "/report"
	req := dto.CreateReportRequest{Reason: string(reason), Details: details}
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Feed(ctx context.Context, clientID string, mood *models.Mood) ([]services.FeedItem, error) {
	q := url.Values{}
	if clientID != "" {
		q.Set("client_id", clientID)
	}
	if mood != nil {
		q.Set("mood", string(*mood))
	}
	path := "/api/confessions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Confessions []services.FeedItem `json:"confessions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Confessions, nil
}

func (c *Client) BoardConfig(ctx context.Context) (*dto.BoardConfigResponse, error) {
	var out dto.BoardConfigResponse
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportGroups lists reports grouped by confession. An empty status lists all.
func (c *Client) ReportGroups(ctx context.Context, status string) ([]moderation.ReportGroup, error) {
	path := "/api/admin/reports"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out struct {
		Groups []moderation.ReportGroup `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, path, c.adminHeader(), nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

func (c *Client) MarkReviewed(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPut, "/api/admin/reports/review", c.adminHeader(), idsRequest(ids), nil)
}

func (c *Client) Resolve(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPut, "/api/admin/reports/resolve", c.adminHeader(), idsRequest(ids), nil)
}

func (c *Client) DeleteConfession(ctx context.Context, contentID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/confessions/"+contentID.String(), c.adminHeader(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message
		}
		if s := resp.Header.Get("Retry-After"); s != "" {
			apiErr.RetryAfterSeconds, _ = strconv.Atoi(s)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) adminHeader() http.Header {
	h := http.Header{}
	if c.adminToken != "" {
		h.Set("X-Admin-Token", c.adminToken)
	}
	return h
}

func clientHeader(clientID string) http.Header {
	h := http.Header{}
	h.Set("X-Client-ID", clientID)
	return h
}

func idsRequest(ids []uuid.UUID) dto.ReportIDsRequest {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return dto.ReportIDsRequest{IDs: raw}
}
