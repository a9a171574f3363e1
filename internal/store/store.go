// Package store defines the persistence contract of the wall and the typed
// outcome every adapter reports, so callers never inspect driver error text.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
)

// Adapters wrap driver errors around these sentinels.
var (
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrConstraintViolation = errors.New("constraint violated")
	ErrNotFound            = errors.New("record not found")
)

// Outcome classifies the result of a store write.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeConflictUnique
	OutcomeConflictConstraint
	OutcomeNotFound
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeConflictUnique:
		return "conflict_unique"
	case OutcomeConflictConstraint:
		return "conflict_constraint"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// Classify maps a store error to its Outcome. A nil error is OutcomeCreated.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrUniqueViolation):
		return OutcomeConflictUnique
	case errors.Is(err, ErrConstraintViolation):
		return OutcomeConflictConstraint
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFailure
	}
}

// ConfessionFilter narrows a feed query. Zero value returns everything.
type ConfessionFilter struct {
	Mood  *models.Mood
	Limit int
}

// ReportFilter narrows a report query. Zero value returns everything.
type ReportFilter struct {
	Status       *models.ReportStatus
	ConfessionID *uuid.UUID
}

// Store is the persistence contract. Implementations must honour the
// (confession, client, type) uniqueness of reactions, apply bulk status
// updates atomically and cascade confession deletes to reactions and reports.
type Store interface {
	CreateConfession(ctx context.Context, c *models.Confession) error
	ListConfessions(ctx context.Context, f ConfessionFilter) ([]models.Confession, error)
	GetConfessions(ctx context.Context, ids []uuid.UUID) ([]models.Confession, error)

	CreateReaction(ctx context.Context, r *models.Reaction) error
	CountReactions(ctx context.Context, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]int64, error)
	HasReacted(ctx context.Context, clientHash string, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]bool, error)

	CreateReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, f ReportFilter) ([]models.Report, error)
	// UpdateReportStatus sets status on every id or on none; an unknown id
	// fails the whole batch with ErrNotFound.
	UpdateReportStatus(ctx context.Context, ids []uuid.UUID, status models.ReportStatus) error
	DeleteConfession(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
}

// UniqueIDs returns ids with duplicates removed, preserving order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
