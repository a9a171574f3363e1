package reaction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store/inmemory"
)

type countingInserter struct {
	calls int
	err   error
}

func (c *countingInserter) CreateReaction(context.Context, *models.Reaction) error {
	c.calls++
	return c.err
}

func seed(t *testing.T, s *inmemory.Store) uuid.UUID {
	t.Helper()
	c := models.Confession{Message: "salamat sa lahat"}
	require.NoError(t, s.CreateConfession(context.Background(), &c))
	return c.ID
}

func TestReact_TwiceCountsOnce(t *testing.T) {
	s := inmemory.New()
	id := seed(t, s)
	d := NewDeduplicator(s)
	ctx := context.Background()

	state := &State{Count: 4}
	first, err := d.React(ctx, state, id, "client-a", models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Added: true, NewCount: 5}, first)

	second, err := d.React(ctx, state, id, "client-a", models.ReactionHeart)
	require.NoError(t, err)
	assert.True(t, second.AlreadyReacted)
	assert.Equal(t, int64(5), state.Count)
	assert.True(t, state.Reacted)

	counts, err := s.CountReactions(ctx, []uuid.UUID{id}, models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[id])
}

func TestReact_GuardSkipsStore(t *testing.T) {
	ins := &countingInserter{}
	d := NewDeduplicator(ins)

	out, err := d.React(context.Background(), &State{Count: 2, Reacted: true}, uuid.New(), "c", models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, Outcome{AlreadyReacted: true, NewCount: 2}, out)
	assert.Zero(t, ins.calls)
}

func TestReact_UniqueConflictFromAnotherSession(t *testing.T) {
	s := inmemory.New()
	id := seed(t, s)
	d := NewDeduplicator(s)
	ctx := context.Background()

	// The same client reacted earlier from a session that lost its local state.
	_, err := d.React(ctx, &State{}, id, "client-a", models.ReactionHeart)
	require.NoError(t, err)

	state := &State{Count: 1}
	out, err := d.React(ctx, state, id, "client-a", models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, Outcome{AlreadyReacted: true, NewCount: 1}, out)
	assert.True(t, state.Reacted)
	assert.Equal(t, int64(1), state.Count)
}

func TestReact_OtherFailuresSurface(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connectivity", errors.New("dial tcp: i/o timeout")},
		{"constraint", store.ErrConstraintViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduplicator(&countingInserter{err: tt.err})
			state := &State{Count: 7}

			_, err := d.React(context.Background(), state, uuid.New(), "c", models.ReactionHeart)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, &State{Count: 7}, state)
		})
	}
}
