package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionType string

const ReactionHeart ReactionType = "heart"

// Reaction is a single endorsement of a confession by one client.
// (confession_id, client_hash, reaction_type) is unique.
type Reaction struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ConfessionID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_once,priority:1" json:"confession_id"`
	ClientHash   string       `gorm:"size:64;not null;uniqueIndex:idx_reactions_once,priority:2" json:"-"`
	ReactionType ReactionType `gorm:"size:20;not null;uniqueIndex:idx_reactions_once,priority:3" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
