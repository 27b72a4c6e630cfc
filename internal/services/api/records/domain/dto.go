// Package domain holds DTOs for records http and service contracts
package domain

import "time"

// Amount values allowed when a record is successful
const (
	AmountMany     = "many"
	AmountNormal   = "normal"
	AmountLittle   = "little"
	AmountAbnormal = "abnormal"
)

// ValidAmount reports whether s is one of the allowed amount values
func ValidAmount(s string) bool {
	switch s {
	case AmountMany, AmountNormal, AmountLittle, AmountAbnormal:
		return true
	}
	return false
}

// CreateInput is the input for creating a bowel record
// date and time are civil values in the fixed KST zone; the canonical record
// date is derived server-side and may differ from Date
type CreateInput struct {
	Date            string  `json:"date" validate:"required" example:"2024-03-10"`
	Time            string  `json:"time" validate:"required" example:"07:30"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1,max=120" example:"10"`
	Success         bool    `json:"success"`
	Amount          *string `json:"amount,omitempty" validate:"omitempty,oneof=many normal little abnormal" example:"normal"`
	Memo            *string `json:"memo,omitempty" validate:"omitempty,max=2000"`
}

// UpdateInput is the limited-field edit patch, nil fields are untouched
type UpdateInput struct {
	Memo       *string `json:"memo,omitempty" validate:"omitempty,max=2000"`
	Amount     *string `json:"amount,omitempty" validate:"omitempty,oneof=many normal little abnormal"`
	Success    *bool   `json:"success,omitempty"`
	RecordDate *string `json:"record_date,omitempty" example:"2024-03-10"`
}

// Record is a persisted bowel record
type Record struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Success         bool      `json:"success"`
	Amount          *string   `json:"amount,omitempty"`
	Memo            *string   `json:"memo,omitempty"`
	RecordDate      string    `json:"record_date"`
	DayIndex        int       `json:"day_index"`
}

// CreateResult carries the created record plus the date-mismatch warning flag
// the record is always filed under the derived date, mismatch is informational
type CreateResult struct {
	Record       Record `json:"record"`
	DateMismatch bool   `json:"date_mismatch"`
}

// DaySummary is one calendar day's aggregate for the month view
type DaySummary struct {
	Date         string `json:"date"`
	Count        int    `json:"count"`
	SuccessCount int    `json:"success_count"`
}
