package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxReportDetailsLength bounds the free-text details of a report.
const MaxReportDetailsLength = 500

type ReportReason string

const (
	ReasonHarassment    ReportReason = "harassment"
	ReasonSexualContent ReportReason = "sexual_content"
	ReasonSelfHarm      ReportReason = "self_harm"
	ReasonPersonalInfo  ReportReason = "personal_info"
	ReasonSpam          ReportReason = "spam"
	ReasonOther         ReportReason = "other"
)

var reasonLabels = map[ReportReason]string{
	ReasonHarassment:    "Harassment or hate speech",
	ReasonSexualContent: "Sexual or explicit content",
	ReasonSelfHarm:      "Encouragement of self-harm",
	ReasonPersonalInfo:  "Personal information / doxxing",
	ReasonSpam:          "Spam or malicious content",
	ReasonOther:         "Other",
}

// ReportReasons lists every reason in display order.
var ReportReasons = []ReportReason{
	ReasonHarassment, ReasonSexualContent, ReasonSelfHarm,
	ReasonPersonalInfo, ReasonSpam, ReasonOther,
}

func (r ReportReason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

// Label returns the moderator-facing description of the reason.
func (r ReportReason) Label() string {
	if l, ok := reasonLabels[r]; ok {
		return l
	}
	return string(r)
}

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether a moderator action may move a report into next.
// Reports never go back to pending.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	return next == ReportReviewed || next == ReportResolved
}

// Report is a complaint filed against a confession.
type Report struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ConfessionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"confession_id"`
	Reason       ReportReason `gorm:"size:30;not null" json:"reason"`
	Details      *string      `gorm:"size:500" json:"details,omitempty"`
	Status       ReportStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return nil
}
