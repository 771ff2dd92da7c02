package settings

import "context"

// System defines the public contract for settings operations.
type System interface {
	Source

	Handler() *Handler
	Update(ctx context.Context, cmd UpdateCommand) (*Settings, error)

	// Threshold resolves the current confidence threshold. It never fails.
	Threshold(ctx context.Context) float64
}
