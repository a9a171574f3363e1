package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/moderation"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

// ModerationService is the moderator action surface over the state machine.
type ModerationService struct {
	machine *moderation.StateMachine
}

func NewModerationService(s moderation.Store) *ModerationService {
	return &ModerationService{machine: moderation.NewStateMachine(s)}
}

// ListReportGroups returns grouped reports, optionally only those in status.
func (s *ModerationService) ListReportGroups(ctx context.Context, status string) ([]moderation.ReportGroup, error) {
	var filter *models.ReportStatus
	if status != "" {
		st := models.ReportStatus(status)
		if !st.Valid() {
			return nil, invalid("status", "status must be pending, reviewed, or resolved")
		}
		filter = &st
	}

	groups, err := s.machine.FetchReportGroups(ctx, filter)
	if err != nil {
		slog.Error("fetch report groups failed", "action", "list_reports", "error", err)
		return nil, ErrStoreUnavailable
	}
	return groups, nil
}

func (s *ModerationService) MarkReviewed(ctx context.Context, rawIDs []string) error {
	return s.apply(ctx, "review", rawIDs, s.machine.MarkReviewed)
}

func (s *ModerationService) Resolve(ctx context.Context, rawIDs []string) error {
	return s.apply(ctx, "resolve", rawIDs, s.machine.Resolve)
}

func (s *ModerationService) apply(ctx context.Context, action string, rawIDs []string, fn func(context.Context, []uuid.UUID) error) error {
	ids, err := parseIDs(rawIDs)
	if err != nil {
		return err
	}

	err = fn(ctx, ids)
	switch {
	case err == nil:
		metrics.ModerationActions.WithLabelValues(action, "ok").Inc()
		return nil
	case errors.Is(err, moderation.ErrNoReports):
		return invalid("ids", "at least one report id is required")
	case store.Classify(err) == store.OutcomeNotFound:
		metrics.ModerationActions.WithLabelValues(action, "not_found").Inc()
		return ErrReportNotFound
	default:
		metrics.ModerationActions.WithLabelValues(action, "error").Inc()
		slog.Error("moderation batch failed", "action", action, "count", len(ids), "error", err)
		return ErrStoreUnavailable
	}
}

// DeleteConfession removes a confession together with its reports and reactions.
func (s *ModerationService) DeleteConfession(ctx context.Context, contentID uuid.UUID) error {
	err := s.machine.DeleteContent(ctx, contentID)
	switch {
	case err == nil:
		metrics.ModerationActions.WithLabelValues("delete", "ok").Inc()
		return nil
	case store.Classify(err) == store.OutcomeNotFound:
		metrics.ModerationActions.WithLabelValues("delete", "not_found").Inc()
		return ErrConfessionNotFound
	default:
		metrics.ModerationActions.WithLabelValues("delete", "error").Inc()
		slog.Error("confession delete failed", "action", "delete", "content_id", contentID.String(), "error", err)
		return ErrStoreUnavailable
	}
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, invalid("ids", "at least one report id is required")
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, invalid("ids", "invalid report id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
