package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

var (
	ErrNoReports         = errors.New("no report ids given")
	ErrInvalidTransition = errors.New("invalid report status transition")
)

// Store is the part of store.Store moderation needs.
type Store interface {
	ListReports(ctx context.Context, f store.ReportFilter) ([]models.Report, error)
	GetConfessions(ctx context.Context, ids []uuid.UUID) ([]models.Confession, error)
	UpdateReportStatus(ctx context.Context, ids []uuid.UUID, status models.ReportStatus) error
	DeleteConfession(ctx context.Context, id uuid.UUID) error
}

// StateMachine moves reports pending -> reviewed -> resolved and removes
// confessions. Every batch either applies to all ids or fails as a whole.
type StateMachine struct {
	store Store
}

func NewStateMachine(s Store) *StateMachine {
	return &StateMachine{store: s}
}

// MarkReviewed sets every report to reviewed regardless of its prior status.
func (m *StateMachine) MarkReviewed(ctx context.Context, ids []uuid.UUID) error {
	return m.transition(ctx, ids, models.ReportReviewed)
}

// Resolve sets every report to resolved regardless of its prior status.
func (m *StateMachine) Resolve(ctx context.Context, ids []uuid.UUID) error {
	return m.transition(ctx, ids, models.ReportResolved)
}

func (m *StateMachine) transition(ctx context.Context, ids []uuid.UUID, to models.ReportStatus) error {
	if len(ids) == 0 {
		return ErrNoReports
	}
	// Reports never move back to pending; the source status does not matter.
	if !models.ReportPending.CanTransitionTo(to) {
		return fmt.Errorf("%w: to %s", ErrInvalidTransition, to)
	}
	if err := m.store.UpdateReportStatus(ctx, ids, to); err != nil {
		return fmt.Errorf("set %d reports to %s: %w", len(ids), to, err)
	}
	slog.Info("reports updated", "action", "set_"+string(to), "count", len(ids))
	return nil
}

// DeleteContent removes a confession; the store cascades to its reports and reactions.
func (m *StateMachine) DeleteContent(ctx context.Context, contentID uuid.UUID) error {
	if err := m.store.DeleteConfession(ctx, contentID); err != nil {
		return fmt.Errorf("delete confession %s: %w", contentID, err)
	}
	slog.Info("confession deleted", "action", "delete_content", "content_id", contentID.String())
	return nil
}

// FetchReportGroups loads reports, optionally only those in status, groups
// them and attaches a preview of each confession that still exists.
func (m *StateMachine) FetchReportGroups(ctx context.Context, status *models.ReportStatus) ([]ReportGroup, error) {
	reports, err := m.store.ListReports(ctx, store.ReportFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	groups := GroupByStatus(reports, status)
	if len(groups) == 0 {
		return []ReportGroup{}, nil
	}

	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ContentID
	}
	confessions, err := m.store.GetConfessions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load confessions: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Confession, len(confessions))
	for i := range confessions {
		byID[confessions[i].ID] = &confessions[i]
	}
	for i := range groups {
		groups[i].Confession = byID[groups[i].ContentID]
	}
	return groups, nil
}
