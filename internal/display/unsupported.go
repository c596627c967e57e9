//go:build !linux && !darwin && !windows

package display

import "context"

// Open reports ErrUnavailable; use Static on this platform.
func Open(ctx context.Context, display string) (Display, error) {
	return nil, ErrUnavailable
}
