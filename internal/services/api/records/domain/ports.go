package domain

import "context"

// ServicePort defines the service contract for records
type ServicePort interface {
	Create(ctx context.Context, userID string, in CreateInput) (CreateResult, error)
	ListByDate(ctx context.Context, userID, date string) ([]Record, error)
	GetByID(ctx context.Context, userID, id string) (Record, error)
	Update(ctx context.Context, userID, id string, in UpdateInput) (Record, error)
	Delete(ctx context.Context, userID, id string) error
	MonthSummary(ctx context.Context, userID, month string) ([]DaySummary, error)
}

// CreatorPort is the narrow cross-module surface other modules use to file
// a record on a user's behalf (the timer module's completion handoff)
type CreatorPort interface {
	Create(ctx context.Context, userID string, in CreateInput) (CreateResult, error)
}
