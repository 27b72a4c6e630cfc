package domain

import "context"

// ServicePort defines the service contract for foods
type ServicePort interface {
	List(ctx context.Context, in ListInput) ([]Food, int, error)
}
