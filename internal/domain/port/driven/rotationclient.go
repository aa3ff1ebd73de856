package driven

import (
	"context"

	"apexbot/internal/domain/model"
)

// RotationClient defines the driven port for the upstream map-rotation API.
type RotationClient interface {
	// Current fetches the current battle-royale map rotation.
	Current(ctx context.Context) (*model.MapRotation, error)
}
