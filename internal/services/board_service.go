package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/profanity"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/reaction"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

// FeedLimit caps the number of confessions returned by one feed request.
const FeedLimit = 200

// BoardService handles the public side of the wall: posting, reacting,
// reporting and reading.
type BoardService struct {
	store   store.Store
	matcher *profanity.Matcher
	tracker *ratelimit.Tracker
	dedup   *reaction.Deduplicator
	now     func() time.Time
}

func NewBoardService(s store.Store, matcher *profanity.Matcher, tracker *ratelimit.Tracker) *BoardService {
	return &BoardService{
		store:   s,
		matcher: matcher,
		tracker: tracker,
		dedup:   reaction.NewDeduplicator(s),
		now:     time.Now,
	}
}

// FeedItem is a confession as shown on the wall.
type FeedItem struct {
	models.Confession
	Hearts   int64 `json:"hearts"`
	Reacted  bool  `json:"reacted"`
	IsLatest bool  `json:"is_latest"`
}

// ReactResult is the outcome of a react call. AlreadyReacted is not an error.
type ReactResult struct {
	Added          bool  `json:"added"`
	AlreadyReacted bool  `json:"already_reacted"`
	Hearts         int64 `json:"hearts"`
}

// Submit posts a confession. Checks run cheapest first: length, the
// client's submit interval, then the profanity filter. The interval slot is
// reserved before the insert and given back if the submission fails.
func (s *BoardService) Submit(ctx context.Context, clientID, message string, mood *models.Mood) (*models.Confession, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, invalid("message", "message is required")
	}
	if n := utf8.RuneCountInString(message); n > models.MaxMessageLength {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, invalid("message", "message must be at most %d characters", models.MaxMessageLength)
	}
	if mood != nil && !mood.Valid() {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, invalid("mood", "unknown mood %q", string(*mood))
	}
	if clientID == "" {
		return nil, invalid("client_id", "client id is required")
	}

	d, release := s.tracker.Reserve(clientID)
	if !d.Allowed {
		metrics.Submissions.WithLabelValues("rate_limited").Inc()
		return nil, &RateLimitedError{RetryAfterSeconds: d.RetryAfterSeconds}
	}

	if s.matcher.Matches(message) {
		release()
		metrics.Submissions.WithLabelValues("profanity").Inc()
		return nil, ErrProfanityRejected
	}

	confession := &models.Confession{
		Message: message,
		Mood:    mood,
	}
	err := s.store.CreateConfession(ctx, confession)
	switch store.Classify(err) {
	case store.OutcomeCreated:
		metrics.Submissions.WithLabelValues("created").Inc()
		return confession, nil
	case store.OutcomeConflictConstraint:
		release()
		metrics.Submissions.WithLabelValues("window_closed").Inc()
		return nil, ErrPostingWindowClosed
	default:
		release()
		metrics.Submissions.WithLabelValues("error").Inc()
		slog.Error("confession insert failed", "action", "submit", "client_id", clientID, "error", err)
		return nil, ErrStoreUnavailable
	}
}

// React adds a heart from clientID. Repeats are absorbed.
func (s *BoardService) React(ctx context.Context, clientID string, contentID uuid.UUID) (*ReactResult, error) {
	if clientID == "" {
		return nil, invalid("client_id", "client id is required")
	}

	ids := []uuid.UUID{contentID}
	counts, err := s.store.CountReactions(ctx, ids, models.ReactionHeart)
	if err != nil {
		return nil, s.unavailable("react", contentID, err)
	}
	reacted, err := s.store.HasReacted(ctx, clientID, ids, models.ReactionHeart)
	if err != nil {
		return nil, s.unavailable("react", contentID, err)
	}

	state := &reaction.State{Count: counts[contentID], Reacted: reacted[contentID]}
	out, err := s.dedup.React(ctx, state, contentID, clientID, models.ReactionHeart)
	if err != nil {
		metrics.Reactions.WithLabelValues("error").Inc()
		if store.Classify(err) == store.OutcomeConflictConstraint {
			return nil, ErrConfessionNotFound
		}
		return nil, s.unavailable("react", contentID, err)
	}

	if out.AlreadyReacted {
		metrics.Reactions.WithLabelValues("already_reacted").Inc()
	} else {
		metrics.Reactions.WithLabelValues("added").Inc()
	}
	return &ReactResult{Added: out.Added, AlreadyReacted: out.AlreadyReacted, Hearts: out.NewCount}, nil
}

// Report files a complaint against a confession.
func (s *BoardService) Report(ctx context.Context, contentID uuid.UUID, reason models.ReportReason, details string) (*models.Report, error) {
	if !reason.Valid() {
		return nil, invalid("reason", "unknown reason %q", string(reason))
	}
	report := &models.Report{ConfessionID: contentID, Reason: reason}
	if details = strings.TrimSpace(details); details != "" {
		if utf8.RuneCountInString(details) > models.MaxReportDetailsLength {
			return nil, invalid("details", "details must be at most %d characters", models.MaxReportDetailsLength)
		}
		report.Details = &details
	}

	err := s.store.CreateReport(ctx, report)
	switch store.Classify(err) {
	case store.OutcomeCreated:
		metrics.Reports.WithLabelValues(string(reason)).Inc()
		return report, nil
	case store.OutcomeConflictConstraint:
		return nil, ErrConfessionNotFound
	default:
		return nil, s.unavailable("report", contentID, err)
	}
}

// Feed returns confessions newest first with heart counts. When clientID is
// set each item also says whether that client has reacted.
func (s *BoardService) Feed(ctx context.Context, clientID string, mood *models.Mood) ([]FeedItem, error) {
	if mood != nil && !mood.Valid() {
		return nil, invalid("mood", "unknown mood %q", string(*mood))
	}
	confessions, err := s.store.ListConfessions(ctx, store.ConfessionFilter{Mood: mood, Limit: FeedLimit})
	if err != nil {
		return nil, s.unavailable("feed", uuid.Nil, err)
	}

	ids := make([]uuid.UUID, len(confessions))
	for i, c := range confessions {
		ids[i] = c.ID
	}
	counts, err := s.store.CountReactions(ctx, ids, models.ReactionHeart)
	if err != nil {
		return nil, s.unavailable("feed", uuid.Nil, err)
	}
	reacted := map[uuid.UUID]bool{}
	if clientID != "" {
		if reacted, err = s.store.HasReacted(ctx, clientID, ids, models.ReactionHeart); err != nil {
			return nil, s.unavailable("feed", uuid.Nil, err)
		}
	}

	now := s.now()
	items := make([]FeedItem, len(confessions))
	for i, c := range confessions {
		items[i] = FeedItem{
			Confession: c,
			Hearts:     counts[c.ID],
			Reacted:    reacted[c.ID],
			IsLatest:   c.IsLatest(now),
		}
	}
	return items, nil
}

func (s *BoardService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *BoardService) unavailable(action string, contentID uuid.UUID, err error) error {
	attrs := []any{"action", action, "error", err}
	if contentID != uuid.Nil {
		attrs = append(attrs, "content_id", contentID.String())
	}
	slog.Error("store call failed", attrs...)
	return ErrStoreUnavailable
}
