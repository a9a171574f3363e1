package dto

import "time"

type ReportIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type AdminSessionRequest struct {
	Token string `json:"token" validate:"required"`
}

type AdminSessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
