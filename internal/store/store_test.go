package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeCreated},
		{"unique", ErrUniqueViolation, OutcomeConflictUnique},
		{"wrapped unique", fmt.Errorf("insert reaction: %w", ErrUniqueViolation), OutcomeConflictUnique},
		{"constraint", fmt.Errorf("insert: %w", ErrConstraintViolation), OutcomeConflictConstraint},
		{"not found", ErrNotFound, OutcomeNotFound},
		{"other", errors.New("connection refused"), OutcomeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, b, a, b, a}))
	assert.Empty(t, UniqueIDs(nil))
}
