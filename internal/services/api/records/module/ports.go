package module

import (
	"context"

	recordsdom "gutlog/internal/services/api/records/domain"
	recordssvc "gutlog/internal/services/api/records/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptRecordsPort adapts the records service to the domain port interfaces
type adaptRecordsPort struct{ svc recordssvc.Service }

// Create implements the domain CreatorPort interface for cross-module handoff
func (a adaptRecordsPort) Create(
	ctx context.Context, userID string, in recordsdom.CreateInput,
) (recordsdom.CreateResult, error) {
	return a.svc.Create(ctx, userID, in)
}
