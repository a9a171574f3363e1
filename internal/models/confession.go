package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxMessageLength is the longest message, in characters, a confession may carry.
const MaxMessageLength = 500

// LatestWindow is how long a confession is shown with the "latest" badge.
const LatestWindow = 24 * time.Hour

// Mood is the optional feeling a poster attaches to a confession.
type Mood string

const (
	MoodGratitude Mood = "Gratitude"
	MoodRegret    Mood = "Regret"
	MoodLove      Mood = "Love"
	MoodApology   Mood = "Apology"
	MoodHope      Mood = "Hope"
	MoodOthers    Mood = "Others"
)

// Moods lists every accepted mood in display order.
var Moods = []Mood{MoodGratitude, MoodRegret, MoodLove, MoodApology, MoodHope, MoodOthers}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

// Confession is one anonymous entry on the wall.
type Confession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Message   string     `gorm:"type:varchar(500);not null" json:"message"`
	Mood      *Mood      `gorm:"type:varchar(30);index" json:"mood,omitempty"`
	Flagged   bool       `gorm:"not null;default:false" json:"flagged"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	Reactions []Reaction `gorm:"foreignKey:ConfessionID;constraint:OnDelete:CASCADE" json:"-"`
	Reports   []Report   `gorm:"foreignKey:ConfessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Confession) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsLatest reports whether the confession was posted within LatestWindow of now.
func (c *Confession) IsLatest(now time.Time) bool {
	return now.Sub(c.CreatedAt) <= LatestWindow
}
