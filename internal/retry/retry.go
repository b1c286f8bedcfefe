// Package retry provides a bounded retry-with-delay primitive for
// operations that fail transiently, such as opening a spreadsheet still
// held by the exporting tool.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Do runs op up to attempts times, waiting delay between attempts. It
// returns nil as soon as op succeeds, the last error once the bound is
// exceeded, or the context error if ctx is canceled while waiting.
func Do(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	if attempts < 1 {
		return fmt.Errorf("retry: attempts must be >= 1, got %d", attempts)
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
