// Package domain holds DTOs for foods http and service contracts
package domain

// Categories a food can be filed under
const (
	CategoryHelpful = "helpful"
	CategoryHarmful = "harmful"
)

// ListInput filters and pages the food listing
type ListInput struct {
	Category string `json:"category,omitempty" validate:"omitempty,oneof=helpful harmful" example:"helpful"`
	Page     int    `json:"page,omitempty" validate:"omitempty,min=1" example:"1"`
	PageSize int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=100" example:"20"`
}

// Food is one recommendation entry
type Food struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}
