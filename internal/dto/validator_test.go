package dto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidate_Confession(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateConfessionRequest
		field string
	}{
		{"ok", CreateConfessionRequest{Message: "hi", Mood: strPtr("Hope")}, ""},
		{"no mood", CreateConfessionRequest{Message: "hi"}, ""},
		{"long message left to the service", CreateConfessionRequest{Message: strings.Repeat("é", 600)}, ""},
		{"empty", CreateConfessionRequest{}, "message"},
		{"bad mood", CreateConfessionRequest{Message: "hi", Mood: strPtr("Angry")}, "mood"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(tt.req)
			if tt.field == "" {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidate_Report(t *testing.T) {
	assert.Nil(t, Validate(CreateReportRequest{Reason: "self_harm"}))

	fe := Validate(CreateReportRequest{Reason: "meh"})
	require.NotNil(t, fe)
	assert.Equal(t, "reason", fe.Field)

	// Details length is checked after trimming, in the service.
	assert.Nil(t, Validate(CreateReportRequest{Reason: "spam", Details: "  " + strings.Repeat("x", 500) + "  "}))
}

func TestValidate_ReportIDs(t *testing.T) {
	assert.Nil(t, Validate(ReportIDsRequest{IDs: []string{uuid.NewString()}}))

	fe := Validate(ReportIDsRequest{})
	require.NotNil(t, fe)
	assert.Equal(t, "ids", fe.Field)

	fe = Validate(ReportIDsRequest{IDs: []string{uuid.NewString(), "nope"}})
	require.NotNil(t, fe)
	assert.Equal(t, "ids", fe.Field)
	assert.Equal(t, "ids must contain valid ids", fe.Message)
}
