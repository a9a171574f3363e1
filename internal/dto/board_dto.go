package dto

import "time"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

type CreateConfessionRequest struct {
	Message string  `json:"message" validate:"required"`
	Mood    *string `json:"mood,omitempty" validate:"omitempty,mood"`
}

type CreateReportRequest struct {
	Reason  string `json:"reason" validate:"required,reason"`
	Details string `json:"details,omitempty"`
}

type ReactResponse struct {
	Added          bool   `json:"added"`
	AlreadyReacted bool   `json:"already_reacted"`
	Hearts         int64  `json:"hearts"`
	Message        string `json:"message,omitempty"`
}

type ReasonOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// BoardConfigResponse is what a client needs to render the submit and report forms.
type BoardConfigResponse struct {
	Moods                 []string       `json:"moods"`
	Reasons               []ReasonOption `json:"reasons"`
	MaxMessageLength      int            `json:"max_message_length"`
	MaxDetailsLength      int            `json:"max_details_length"`
	SubmitIntervalSeconds int            `json:"submit_interval_seconds"`
	PostingClosesAt       *time.Time     `json:"posting_closes_at,omitempty"`
}
