// Package domain holds DTOs for timer http and service contracts
package domain

import "time"

// Status is the externally visible timer state for one user
type Status struct {
	Active           bool       `json:"active"`
	RemainingSeconds int        `json:"remaining_seconds"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	HasAddedTime     bool       `json:"has_added_time"`
	Completed        bool       `json:"completed"`
	ShowResultPrompt bool       `json:"show_result_prompt"`
}

// AddTimeInput extends the current run, one-shot per run
type AddTimeInput struct {
	Seconds int `json:"seconds" validate:"required,min=1,max=3600" example:"180"`
}

// VisibilityInput is the host visibility signal from the client
type VisibilityInput struct {
	Hidden bool `json:"hidden"`
}

// CompleteInput confirms a finished run and files the record
type CompleteInput struct {
	Success bool    `json:"success"`
	Amount  *string `json:"amount,omitempty" validate:"omitempty,oneof=many normal little abnormal"`
	Memo    *string `json:"memo,omitempty" validate:"omitempty,max=2000"`
}
