// Package reaction guarantees at most one reaction per (confession, client,
// type) by guarding locally and interpreting the store's uniqueness outcome.
package reaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

// Inserter is the part of the store the deduplicator writes through.
type Inserter interface {
	CreateReaction(ctx context.Context, r *models.Reaction) error
}

// State is the caller's view of one confession: its displayed count and
// whether this client has reacted.
type State struct {
	Count   int64
	Reacted bool
}

// Outcome of a react attempt. Exactly one of Added and AlreadyReacted is set.
type Outcome struct {
	Added          bool
	NewCount       int64
	AlreadyReacted bool
}

type Deduplicator struct {
	store Inserter
}

func NewDeduplicator(s Inserter) *Deduplicator {
	return &Deduplicator{store: s}
}

// React records a reaction. A client already marked as reacted never reaches
// the store. A uniqueness conflict is absorbed as AlreadyReacted; any other
// store failure is returned and state is left untouched.
func (d *Deduplicator) React(ctx context.Context, state *State, contentID uuid.UUID, clientID string, t models.ReactionType) (Outcome, error) {
	if state.Reacted {
		return Outcome{AlreadyReacted: true, NewCount: state.Count}, nil
	}

	err := d.store.CreateReaction(ctx, &models.Reaction{
		ConfessionID: contentID,
		ClientHash:   clientID,
		ReactionType: t,
	})
	switch store.Classify(err) {
	case store.OutcomeCreated:
		state.Count++
		state.Reacted = true
		return Outcome{Added: true, NewCount: state.Count}, nil
	case store.OutcomeConflictUnique:
		state.Reacted = true
		return Outcome{AlreadyReacted: true, NewCount: state.Count}, nil
	default:
		return Outcome{}, fmt.Errorf("create reaction: %w", err)
	}
}
