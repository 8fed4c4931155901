package sync

import (
	"context"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/crdt"
	"github.com/iudanet/screensync/internal/models"
)

// Resolver picks a resolution for a newly detected conflict. The orchestrator
// applies whatever it returns; RequiresUserInput leaves the case open.
type Resolver interface {
	Resolve(ctx context.Context, port backend.Port, conflict *models.ConflictCase) (models.Resolution, error)
}

// ManualResolver leaves every conflict to the user.
type ManualResolver struct{}

func (ManualResolver) Resolve(context.Context, backend.Port, *models.ConflictCase) (models.Resolution, error) {
	return models.RequiresUserInput(), nil
}

// BackendHintResolver asks the backend for a resolution. Invalid hints fall
// back to RequiresUserInput.
type BackendHintResolver struct{}

func (BackendHintResolver) Resolve(ctx context.Context, port backend.Port, conflict *models.ConflictCase) (models.Resolution, error) {
	hint, err := port.ResolveConflict(ctx, conflict)
	if err != nil {
		return models.Resolution{}, err
	}
	if hint.Validate() != nil {
		return models.RequiresUserInput(), nil
	}
	return hint, nil
}

// LastWriteWinsResolver keeps whichever side was written last.
type LastWriteWinsResolver struct{}

func (LastWriteWinsResolver) Resolve(_ context.Context, _ backend.Port, conflict *models.ConflictCase) (models.Resolution, error) {
	return crdt.ResolveLWW(conflict), nil
}

// ResolverByName maps a configuration value to a resolver.
func ResolverByName(name string) (Resolver, bool) {
	switch name {
	case "", "manual":
		return ManualResolver{}, true
	case "backend":
		return BackendHintResolver{}, true
	case "lww", "last-write-wins":
		return LastWriteWinsResolver{}, true
	default:
		return nil, false
	}
}
