package utils

import (
	"context"
	"time"
)

const (
	DefaultAPITimeout   = 10 * time.Second
	DefaultImageTimeout = 6 * time.Second
)

// WithTimeout bounds ctx by d, or by DefaultAPITimeout when d is not positive.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultAPITimeout
	}

	return context.WithTimeout(ctx, d)
}
