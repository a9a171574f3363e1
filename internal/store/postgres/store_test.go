package postgres

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.New(log.New(io.Discard, "", log.LstdFlags), logger.Config{LogLevel: logger.Silent}),
	})
	require.NoError(t, err)

	return New(gormDB), mock
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want store.Outcome
	}{
		{"nil", nil, store.OutcomeCreated},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_reactions_once"}, store.OutcomeConflictUnique},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "chk_confessions_posting_window"}, store.OutcomeConflictConstraint},
		{"foreign key", &pgconn.PgError{Code: "23503"}, store.OutcomeConflictConstraint},
		{"other sqlstate", &pgconn.PgError{Code: "40001"}, store.OutcomeFailure},
		{"record not found", gorm.ErrRecordNotFound, store.OutcomeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, store.OutcomeConflictUnique},
		{"connection", errors.New("dial tcp: connection refused"), store.OutcomeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.Classify(translate(tt.err)))
		})
	}
}

func TestCreateConfession(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "confessions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c := models.Confession{Message: "thank you, kuya guard"}
	require.NoError(t, s.CreateConfession(context.Background(), &c))
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConfession_PostingWindowClosed(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "confessions"`).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "chk_confessions_posting_window"})
	mock.ExpectRollback()

	err := s.CreateConfession(context.Background(), &models.Confession{Message: "too late"})
	assert.Equal(t, store.OutcomeConflictConstraint, store.Classify(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReaction_Duplicate(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reactions"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_reactions_once"})
	mock.ExpectRollback()

	r := models.Reaction{ConfessionID: uuid.New(), ClientHash: "client", ReactionType: models.ReactionHeart}
	err := s.CreateReaction(context.Background(), &r)
	assert.True(t, errors.Is(err, store.ErrUniqueViolation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountReactions(t *testing.T) {
	s, mock := setupMockStore(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT confession_id, COUNT\(\*\) AS count FROM "reactions" WHERE .*confession_id IN \(\$1,\$2\) AND reaction_type = \$3.* GROUP BY`).
		WithArgs(a, b, models.ReactionHeart).
		WillReturnRows(sqlmock.NewRows([]string{"confession_id", "count"}).AddRow(a.String(), 3))

	counts, err := s.CountReactions(context.Background(), []uuid.UUID{a, b}, models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[a])
	assert.Zero(t, counts[b])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReports_ByStatus(t *testing.T) {
	s, mock := setupMockStore(t)
	id, confessionID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE status = \$1 ORDER BY created_at DESC`).
		WithArgs(models.ReportPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "confession_id", "reason", "details", "status", "created_at", "updated_at"}).
			AddRow(id.String(), confessionID.String(), "spam", nil, "pending", now, now))

	pending := models.ReportPending
	reports, err := s.ListReports(context.Background(), store.ReportFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, id, reports[0].ID)
	assert.Equal(t, confessionID, reports[0].ConfessionID)
	assert.Equal(t, models.ReasonSpam, reports[0].Reason)
	assert.Nil(t, reports[0].Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReportStatus(t *testing.T) {
	s, mock := setupMockStore(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reports" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := s.UpdateReportStatus(context.Background(), []uuid.UUID{a, b, a}, models.ReportReviewed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReportStatus_UnknownIDRollsBack(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reports" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := s.UpdateReportStatus(context.Background(), []uuid.UUID{uuid.New(), uuid.New()}, models.ReportResolved)
	assert.Equal(t, store.OutcomeNotFound, store.Classify(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConfession_Cascades(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reactions" WHERE confession_id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM "reports" WHERE confession_id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "confessions" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteConfession(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConfession_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reactions"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "reports"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "confessions"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteConfession(context.Background(), id)
	assert.Equal(t, store.OutcomeNotFound, store.Classify(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
