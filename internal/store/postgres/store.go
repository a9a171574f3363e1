// Package postgres implements store.Store on PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store"
)

// SQLSTATE codes the store distinguishes.
const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

// translate wraps driver errors around the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", store.ErrUniqueViolation, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrUniqueViolation, pgErr.ConstraintName)
		case codeCheckViolation, codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrConstraintViolation, pgErr.ConstraintName)
		}
	}
	return err
}

func withMood(mood *models.Mood) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if mood == nil {
			return db
		}
		return db.Where("mood = ?", *mood)
	}
}

func withStatus(status *models.ReportStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", *status)
	}
}

// === Confessions ===

func (s *Store) CreateConfession(ctx context.Context, c *models.Confession) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) ListConfessions(ctx context.Context, f store.ConfessionFilter) ([]models.Confession, error) {
	var confessions []models.Confession
	q := s.db.WithContext(ctx).Scopes(withMood(f.Mood)).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&confessions).Error; err != nil {
		return nil, translate(err)
	}
	return confessions, nil
}

func (s *Store) GetConfessions(ctx context.Context, ids []uuid.UUID) ([]models.Confession, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var confessions []models.Confession
	err := s.db.WithContext(ctx).Where("id IN ?", store.UniqueIDs(ids)).Find(&confessions).Error
	if err != nil {
		return nil, translate(err)
	}
	return confessions, nil
}

// DeleteConfession removes dependents explicitly as well, so the cascade
// holds on schemas created without the foreign keys.
func (s *Store) DeleteConfession(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("confession_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("confession_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Confession{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("confession %s: %w", id, store.ErrNotFound)
		}
		return nil
	})
	return translate(err)
}

// === Reactions ===

func (s *Store) CreateReaction(ctx context.Context, r *models.Reaction) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

type reactionCount struct {
	ConfessionID uuid.UUID
	Count        int64
}

func (s *Store) CountReactions(ctx context.Context, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []reactionCount
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("confession_id, COUNT(*) AS count").
		Where("confession_id IN ? AND reaction_type = ?", store.UniqueIDs(ids), t).
		Group("confession_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		counts[r.ConfessionID] = r.Count
	}
	return counts, nil
}

func (s *Store) HasReacted(ctx context.Context, clientHash string, ids []uuid.UUID, t models.ReactionType) (map[uuid.UUID]bool, error) {
	reacted := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 || clientHash == "" {
		return reacted, nil
	}

	var found []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("client_hash = ? AND reaction_type = ? AND confession_id IN ?", clientHash, t, store.UniqueIDs(ids)).
		Pluck("confession_id", &found).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, id := range found {
		reacted[id] = true
	}
	return reacted, nil
}

// === Reports ===

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) ListReports(ctx context.Context, f store.ReportFilter) ([]models.Report, error) {
	var reports []models.Report
	q := s.db.WithContext(ctx).Scopes(withStatus(f.Status))
	if f.ConfessionID != nil {
		q = q.Where("confession_id = ?", *f.ConfessionID)
	}
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, translate(err)
	}
	return reports, nil
}

func (s *Store) UpdateReportStatus(ctx context.Context, ids []uuid.UUID, status models.ReportStatus) error {
	ids = store.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("updated %d of %d reports: %w", res.RowsAffected, len(ids), store.ErrNotFound)
		}
		return nil
	})
	return translate(err)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
