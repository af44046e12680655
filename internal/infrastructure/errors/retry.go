package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// RetryLogger receives retry progress messages
type RetryLogger interface {
	Printf(format string, v ...interface{})
}

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts     int           // Maximum number of attempts, including the first
	InitialDelay    time.Duration // Delay before the second attempt
	MaxDelay        time.Duration // Upper bound for any delay
	BackoffFactor   float64       // Exponential backoff factor
	Jitter          bool          // Add up to 25% jitter to each delay
	RetryableErrors []ErrorCode   // Codes that may be retried
}

var (
	retryLoggerMu sync.RWMutex
	retryLogger   RetryLogger
)

// DefaultRetryConfig suits local SQLite writes
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeTimeout,
			ErrCodeTransaction,
			ErrCodeBusy,
		},
	}
}

// NetworkRetryConfig suits remote lookups such as translation
func NetworkRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		RetryableErrors: []ErrorCode{
			ErrCodeNetwork,
			ErrCodeTimeout,
		},
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// SetRetryLogger sets the package-level logger for retry operations
func SetRetryLogger(logger RetryLogger) {
	retryLoggerMu.Lock()
	defer retryLoggerMu.Unlock()
	retryLogger = logger
}

func logRetryMessage(format string, v ...interface{}) {
	retryLoggerMu.RLock()
	logger := retryLogger
	retryLoggerMu.RUnlock()
	if logger != nil {
		logger.Printf(format, v...)
	}
}

// WithRetry runs operation until it succeeds, returns a non-retryable error,
// runs out of attempts or ctx is done.
func WithRetry(ctx context.Context, config *RetryConfig, operation RetryableOperation) error {
	return WithRetryContext(ctx, config, operation, "")
}

// WithRetryContext is WithRetry with an operation name for log messages
func WithRetryContext(ctx context.Context, config *RetryConfig, operation RetryableOperation, operationName string) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	label := "operation"
	if operationName != "" {
		label = fmt.Sprintf("operation '%s'", operationName)
	}

	var lastErr error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 {
				logRetryMessage("%s succeeded after %d attempts", label, attempt+1)
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err, config) {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := calculateDelay(attempt, config)
		logRetryMessage("%s failed (attempt %d/%d), retrying in %v: %v",
			label, attempt+1, config.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled during retry: %w", label, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", label, config.MaxAttempts, lastErr)
}

func shouldRetry(err error, config *RetryConfig) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	if !appErr.IsRetryable() {
		return false
	}
	return slices.Contains(config.RetryableErrors, appErr.Code)
}

func calculateDelay(attempt int, config *RetryConfig) time.Duration {
	multiplier := 1.0
	for range attempt {
		multiplier *= config.BackoffFactor
	}
	delay := time.Duration(float64(config.InitialDelay) * multiplier)

	if config.Jitter && delay > 0 {
		if jitter := time.Duration(float64(delay) * 0.25); jitter > 0 {
			delay += time.Duration(time.Now().UnixNano() % int64(jitter))
		}
	}

	return min(delay, config.MaxDelay)
}
