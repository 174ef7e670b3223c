package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const recoveryCheckInterval = time.Minute

// FailoverKV routes operations to a primary KV and degrades to a
// fallback when the primary errors. After a failure the primary is
// retried at most once per recoveryCheckInterval.
type FailoverKV struct {
	primary  KV
	fallback KV
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

// NewFailoverKV wraps primary with fallback.
func NewFailoverKV(primary, fallback KV, logger *zerolog.Logger) *FailoverKV {
	return &FailoverKV{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.usePrimary() {
		data, err := f.primary.Get(ctx, key)
		if err == nil || err == ErrNotFound {
			f.markUp()
			return data, err
		}
		f.markDown(err)
	}
	return f.fallback.Get(ctx, key)
}

func (f *FailoverKV) Set(ctx context.Context, key string, value []byte) error {
	if f.usePrimary() {
		if err := f.primary.Set(ctx, key, value); err != nil {
			f.markDown(err)
		} else {
			f.markUp()
		}
	}
	// The fallback always receives writes so a primary outage never
	// loses data recorded while degraded.
	return f.fallback.Set(ctx, key, value)
}

func (f *FailoverKV) Ping(ctx context.Context) error {
	if err := f.primary.Ping(ctx); err != nil {
		return f.fallback.Ping(ctx)
	}
	return nil
}

func (f *FailoverKV) Close() error {
	err := f.primary.Close()
	if ferr := f.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}

// usePrimary reports whether the primary should be attempted, allowing
// a recovery probe once per interval while down.
func (f *FailoverKV) usePrimary() bool {
	if !f.isDown.Load() {
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if time.Since(f.lastCheck) >= recoveryCheckInterval {
		f.lastCheck = time.Now()
		return true
	}
	return false
}

func (f *FailoverKV) markDown(err error) {
	if !f.isDown.Swap(true) {
		f.logger.Warn().Err(err).Msg("primary storage down, using fallback")
	}
	f.mu.Lock()
	f.lastCheck = time.Now()
	f.mu.Unlock()
}

func (f *FailoverKV) markUp() {
	if f.isDown.Swap(false) {
		f.logger.Info().Msg("primary storage recovered")
	}
}
