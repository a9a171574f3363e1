package wallclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/identity"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/profanity"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

// LastPostKey holds the time of the last accepted submission.
const LastPostKey = "freedom-wall-last-post"

// Backend is the part of the wall API a Session drives. *Client implements it.
type Backend interface {
	Submit(ctx context.Context, clientID, message string, mood *models.Mood) (*models.Confession, error)
	React(ctx context.Context, clientID string, contentID uuid.UUID) (*services.ReactResult, error)
	Report(ctx context.Context, contentID uuid.UUID, reason models.ReportReason, details string) (*models.Report, error)
	Feed(ctx context.Context, clientID string, mood *models.Mood) ([]services.FeedItem, error)
}

// ReportOutcome says whether a report was sent. AlreadyReported means this
// client had filed one before and nothing was sent.
type ReportOutcome struct {
	Report          *models.Report
	AlreadyReported bool
}

// Session is one browser-like client: a persisted token, the local submit
// interval, and local reacted/reported state.
type Session struct {
	backend  Backend
	kv       identity.KV
	identity *identity.Identity
	limiter  *ratelimit.Limiter

	mu      sync.Mutex
	reacted map[uuid.UUID]bool
	hearts  map[uuid.UUID]int64
}

// NewSession restores the session's state from kv.
func NewSession(backend Backend, kv identity.KV) *Session {
	s := &Session{
		backend:  backend,
		kv:       kv,
		identity: identity.New(kv),
		limiter:  ratelimit.NewLimiter(),
		reacted:  map[uuid.UUID]bool{},
		hearts:   map[uuid.UUID]int64{},
	}
	if raw, ok, err := kv.Get(LastPostKey); err == nil && ok {
		if last, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.limiter.Restore(last)
		}
	}
	return s
}

func (s *Session) ClientID() string {
	return s.identity.Get()
}

// Welcome reports whether this is the client's first visit, and marks it visited.
func (s *Session) Welcome() bool {
	if s.identity.Visited() {
		return false
	}
	s.identity.MarkVisited()
	return true
}

// ResetIdentity drops the token. Reactions made under the old token stay on
// the server but are no longer attributed to this client.
func (s *Session) ResetIdentity() {
	s.identity.Reset()
	s.mu.Lock()
	s.reacted = map[uuid.UUID]bool{}
	s.hearts = map[uuid.UUID]int64{}
	s.mu.Unlock()
}

// Submit posts a confession. Length, the local submit interval and the
// profanity filter are checked before anything is sent.
func (s *Session) Submit(ctx context.Context, text string, mood *models.Mood) (*models.Confession, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &services.ValidationError{Field: "message", Message: "message is required"}
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, &services.ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("message must be at most %d characters", models.MaxMessageLength),
		}
	}
	if d := s.limiter.Check(); !d.Allowed {
		return nil, &services.RateLimitedError{RetryAfterSeconds: d.RetryAfterSeconds}
	}
	if profanity.Contains(text) {
		return nil, services.ErrProfanityRejected
	}

	c, err := s.backend.Submit(ctx, s.ClientID(), text, mood)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests && apiErr.RetryAfterSeconds > 0 {
			return nil, &services.RateLimitedError{RetryAfterSeconds: apiErr.RetryAfterSeconds}
		}
		return nil, err
	}

	s.limiter.Record()
	if err := s.kv.Set(LastPostKey, s.limiter.LastSuccess().Format(time.RFC3339Nano)); err != nil {
		slog.Warn("failed to persist submit time", "error", err)
	}
	return c, nil
}

// React hearts a confession. A confession this session already reacted to
// is not sent again; the last count seen for it is returned instead.
func (s *Session) React(ctx context.Context, contentID uuid.UUID) (*services.ReactResult, error) {
	s.mu.Lock()
	done := s.reacted[contentID]
	hearts := s.hearts[contentID]
	s.mu.Unlock()
	if done {
		return &services.ReactResult{AlreadyReacted: true, Hearts: hearts}, nil
	}

	res, err := s.backend.React(ctx, s.ClientID(), contentID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.reacted[contentID] = true
	s.hearts[contentID] = res.Hearts
	s.mu.Unlock()
	return res, nil
}

// Report files a report unless this client already reported contentID.
func (s *Session) Report(ctx context.Context, contentID uuid.UUID, reason models.ReportReason, details string) (*ReportOutcome, error) {
	if s.identity.HasReported(contentID.String()) {
		return &ReportOutcome{AlreadyReported: true}, nil
	}

	r, err := s.backend.Report(ctx, contentID, reason, details)
	if err != nil {
		return nil, err
	}
	if err := s.identity.MarkReported(contentID.String()); err != nil {
		slog.Warn("failed to persist reported confession", "content_id", contentID.String(), "error", err)
	}
	return &ReportOutcome{Report: r}, nil
}

// Feed loads the wall and refreshes the local reacted flags and counts from it.
func (s *Session) Feed(ctx context.Context, mood *models.Mood) ([]services.FeedItem, error) {
	items, err := s.backend.Feed(ctx, s.ClientID(), mood)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for _, it := range items {
		s.hearts[it.ID] = it.Hearts
		if it.Reacted {
			s.reacted[it.ID] = true
		}
	}
	s.mu.Unlock()
	return items, nil
}
