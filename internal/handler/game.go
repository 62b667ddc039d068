package handler

import (
	"context"

	"github.com/osse101/GameDevClicker_Go/internal/game"
)

// Sessions is the slice of the session manager the HTTP layer needs: run a
// function against a profile's engine while holding that profile's lock.
type Sessions interface {
	WithSession(ctx context.Context, profileID string, fn func(*game.Engine) error) error
}
