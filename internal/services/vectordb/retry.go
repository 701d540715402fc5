// File: internal/services/vectordb/retry.go
package vectordb

import (
	"context"
	"time"
)

// retryWithTimeout runs call under the configured timeout unless the caller
// already set a deadline, retrying transient failures.
func (m *Manager) retryWithTimeout(ctx context.Context, call func(ctx context.Context) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= m.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return NewTimeoutError("operation timed out during retry", ctx.Err())
			case <-time.After(m.config.RetryDelay):
			}
			m.logger.Debug("retrying vector operation", "attempt", attempt, "max_retries", m.config.MaxRetries)
		}

		err := call(ctx)
		if err == nil {
			if attempt > 0 {
				m.logger.Info("vector operation succeeded after retry", "attempts", attempt+1)
			}
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return NewTimeoutError("operation timed out", ctx.Err())
		}
		if attempt < m.config.MaxRetries {
			m.logger.Warn("vector operation failed, retrying", "attempt", attempt+1, "error", err)
		}
	}

	m.logger.Error("vector operation failed after all retries", "attempts", m.config.MaxRetries+1, "error", lastErr)
	return lastErr
}
