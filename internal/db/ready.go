package db

import (
	"context"
	"fmt"
	"time"
)

const (
	readyInitialBackoff = 100 * time.Millisecond
	readyMaxBackoff     = 2 * time.Second
)

// WaitForReady pings p with doubling backoff until it answers or timeout expires.
// The last ping error is reported on timeout.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoff := readyInitialBackoff
	timer := time.NewTimer(0)
	defer timer.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("timeout waiting for database: %w", lastErr)
			}
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-timer.C:
			if lastErr = p.Ping(ctx); lastErr == nil {
				return nil
			}
			timer.Reset(backoff)
			backoff = min(backoff*2, readyMaxBackoff)
		}
	}
}
