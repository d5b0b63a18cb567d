// Package connect waits for a listing backend to answer before the server
// starts serving from it.
package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/logger"
)

// Options defines connection retry behavior.
type Options struct {
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 2s)
	WarnThreshold  int           // warn after this many attempts
}

// PingFunc checks one connection attempt.
type PingFunc func(ctx context.Context) error

// connectionLogger handles all backend connection logging.
type connectionLogger struct {
	logger  logger.Logger
	backend string
	addr    string
}

func (cl *connectionLogger) logConnectionStart(timeout time.Duration) {
	cl.logger.Info("connecting to listing backend",
		logger.String("backend", cl.backend),
		logger.String("addr", cl.addr),
		logger.Duration("timeout", timeout))
}

func (cl *connectionLogger) logSuccess(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		cl.logger.Warn("connected after retry",
			logger.String("backend", cl.backend),
			logger.String("addr", cl.addr),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	cl.logger.Info("connected",
		logger.String("backend", cl.backend),
		logger.String("addr", cl.addr))
}

func (cl *connectionLogger) logTimeout(attempts int, timeout time.Duration, err error) {
	cl.logger.Error("backend unavailable - failed to connect after timeout",
		logger.String("backend", cl.backend),
		logger.String("addr", cl.addr),
		logger.Int("attempts", attempts),
		logger.Duration("timeout", timeout),
		logger.Error(err))
}

func (cl *connectionLogger) logRetry(attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	fields := []logger.Field{
		logger.String("backend", cl.backend),
		logger.String("addr", cl.addr),
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", nextRetry),
		logger.Error(err),
	}
	switch {
	case remaining < 10*time.Second:
		cl.logger.Error("backend still down - retrying but timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= warnThreshold:
		cl.logger.Warn("backend connection failed, retrying", fields...)
	default:
		cl.logger.Error("backend still unavailable - connection attempts failing", fields...)
	}
}

// Validate ensures all required configuration values are valid.
func (o Options) Validate() error {
	if o.ConnectTimeout <= 0 {
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", o.ConnectTimeout)
	}
	if o.RetryInterval <= 0 {
		return fmt.Errorf("RetryInterval must be > 0, got %v", o.RetryInterval)
	}
	if o.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", o.MaxWait)
	}
	if o.PingTimeout <= 0 {
		return fmt.Errorf("PingTimeout must be > 0, got %v", o.PingTimeout)
	}
	if o.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// WithRetry pings until success, exponential backoff capped at MaxWait.
// It gives up when ConnectTimeout elapses or ctx is cancelled.
func WithRetry(ctx context.Context, backend, addr string, opts Options, ping PingFunc, log logger.Logger) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%s connect options: %w", backend, err)
	}
	cl := &connectionLogger{logger: log, backend: backend, addr: addr}

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	cl.logConnectionStart(opts.ConnectTimeout)
	attempt := 0
	wait := opts.RetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			cl.logSuccess(attempt, opts.ConnectTimeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			cl.logTimeout(attempt, opts.ConnectTimeout, err)
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				backend, addr, attempt, opts.ConnectTimeout, err)

		case <-timer.C:
			cl.logRetry(attempt, timeLeft(ctx), wait, opts.WarnThreshold, err)
			wait *= 2
			if wait > opts.MaxWait {
				wait = opts.MaxWait
			}
		}
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
