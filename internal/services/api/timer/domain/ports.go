package domain

import (
	"context"

	recordsdom "gutlog/internal/services/api/records/domain"
)

// ServicePort defines the service contract for the timer
type ServicePort interface {
	Status(ctx context.Context, userID string) (Status, error)
	Start(ctx context.Context, userID string) (Status, error)
	Pause(ctx context.Context, userID string) (Status, error)
	AddTime(ctx context.Context, userID string, seconds int) (Status, error)
	Reset(ctx context.Context, userID string) (Status, error)
	Visibility(ctx context.Context, userID string, hidden bool) (Status, error)
	Complete(ctx context.Context, userID string, in CompleteInput) (recordsdom.CreateResult, error)
}
