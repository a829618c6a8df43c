package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/user/streamflix-go/internal/config"
)

// Fallback composes the remote and local backends: every operation tries
// the primary first and degrades to the local store on failure, so callers
// never see a remote fault. Successful primary writes are mirrored into
// the local store best-effort. A nil primary routes everything local
// (remote never initialized). A circuit breaker short-circuits the primary
// after repeated failures, and every primary call carries a timeout so a
// hung remote call cannot delay fallback indefinitely.
type Fallback struct {
	primary WatchStore
	local   WatchStore
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration

	// onFallback is invoked whenever an operation degrades to the local
	// store, e.g. to feed metrics. May be nil.
	onFallback func(op string)

	mu      sync.Mutex
	handles map[Handle]fanInHandles
}

type fanInHandles struct {
	primary Handle
	local   Handle
}

// NewFallback builds the fallback decorator. primary may be nil.
func NewFallback(primary, local WatchStore, cfg *config.StoreConfig) *Fallback {
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "remote-store",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// A missing record is a valid remote answer, not a failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Remote store breaker state changed")
		},
	})

	return &Fallback{
		primary: primary,
		local:   local,
		breaker: breaker,
		timeout: cfg.RemoteTimeout,
		handles: make(map[Handle]fanInHandles),
	}
}

// RemoteAvailable reports whether a primary store was configured
func (f *Fallback) RemoteAvailable() bool {
	return f.primary != nil
}

// Local returns the local backend for device-only state
func (f *Fallback) Local() WatchStore {
	return f.local
}

// tryPrimary runs op against the primary store behind the breaker and
// timeout. Returns errNoPrimary when no primary is configured.
func (f *Fallback) tryPrimary(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	if f.primary == nil {
		return nil, errNoPrimary
	}
	return f.breaker.Execute(func() (any, error) {
		opCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		return op(opCtx)
	})
}

var errNoPrimary = errors.New("store: no primary configured")

// mirror applies a write to the local store, logging failures instead of
// propagating them
func (f *Fallback) mirror(op func() error) {
	if err := op(); err != nil && !errors.Is(err, ErrNotFound) {
		log.Debug().Err(err).Msg("Local mirror write failed")
	}
}

// SetFallbackHook registers a callback invoked on every degradation to
// the local store
func (f *Fallback) SetFallbackHook(hook func(op string)) {
	f.onFallback = hook
}

func (f *Fallback) fellBack(op, p string, err error) {
	log.Warn().Err(err).Str("op", op).Str("path", p).Msg("Remote store failed, falling back to local")
	if f.onFallback != nil {
		f.onFallback(op)
	}
}

// Get reads from the primary, falling back to local on failure
func (f *Fallback) Get(ctx context.Context, p string) (json.RawMessage, error) {
	val, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return f.primary.Get(ctx, p)
	})
	if err == nil {
		return val.(json.RawMessage), nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("get", p, err)
	}
	return f.local.Get(ctx, p)
}

// Set writes to the primary with local mirror, or to local on failure
func (f *Fallback) Set(ctx context.Context, p string, value json.RawMessage) error {
	_, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return nil, f.primary.Set(ctx, p, value)
	})
	if err == nil {
		f.mirror(func() error { return f.local.Set(ctx, p, value) })
		return nil
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("set", p, err)
	}
	return f.local.Set(ctx, p, value)
}

// Merge merges into the primary record with local mirror. A record missing
// from the store that served the write surfaces as ErrNotFound.
func (f *Fallback) Merge(ctx context.Context, p string, fields map[string]json.RawMessage) error {
	_, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return nil, f.primary.Merge(ctx, p, fields)
	})
	if err == nil {
		f.mirror(func() error { return f.local.Merge(ctx, p, fields) })
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("merge", p, err)
	}
	return f.local.Merge(ctx, p, fields)
}

// SetField sets one field of the primary record with local mirror
func (f *Fallback) SetField(ctx context.Context, p string, field string, value json.RawMessage) error {
	_, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return nil, f.primary.SetField(ctx, p, field, value)
	})
	if err == nil {
		f.mirror(func() error { return f.local.SetField(ctx, p, field, value) })
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("setField", p, err)
	}
	return f.local.SetField(ctx, p, field, value)
}

// Delete removes from the primary and mirrors the removal locally.
// Deletes against the local fallback always succeed, so the operation is
// idempotent for callers.
func (f *Fallback) Delete(ctx context.Context, p string) error {
	_, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return nil, f.primary.Delete(ctx, p)
	})
	if err == nil {
		f.mirror(func() error { return f.local.Delete(ctx, p) })
		return nil
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("delete", p, err)
	}
	return f.local.Delete(ctx, p)
}

// List reads children from the primary, falling back to local on failure
func (f *Fallback) List(ctx context.Context, prefix string) ([]Record, error) {
	val, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return f.primary.List(ctx, prefix)
	})
	if err == nil {
		return val.([]Record), nil
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("list", prefix, err)
	}
	return f.local.List(ctx, prefix)
}

// Push inserts into the primary with local mirror; on failure the record
// is written locally with a locally-generated id, so a push never fails
// outright.
func (f *Fallback) Push(ctx context.Context, prefix string, hint string, value json.RawMessage) (string, error) {
	val, err := f.tryPrimary(ctx, func(ctx context.Context) (any, error) {
		return f.primary.Push(ctx, prefix, hint, value)
	})
	if err == nil {
		key := val.(string)
		f.mirror(func() error { return f.local.Set(ctx, prefix+"/"+key, value) })
		return key, nil
	}
	if !errors.Is(err, errNoPrimary) {
		f.fellBack("push", prefix, err)
	}
	return f.local.Push(ctx, prefix, hint, value)
}

// Ping reports primary connectivity when configured, local otherwise
func (f *Fallback) Ping(ctx context.Context) error {
	if f.primary != nil {
		return f.primary.Ping(ctx)
	}
	return f.local.Ping(ctx)
}

// Close closes both backends
func (f *Fallback) Close() error {
	var firstErr error
	if f.primary != nil {
		firstErr = f.primary.Close()
	}
	if err := f.local.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Subscribe fans in both channels: remote mutations when a primary exists,
// and local store changes as the secondary channel.
func (f *Fallback) Subscribe(p string, fn SnapshotFunc) (Handle, error) {
	var pair fanInHandles

	if f.primary != nil {
		h, err := f.primary.Subscribe(p, fn)
		if err != nil {
			return "", err
		}
		pair.primary = h

		lh, err := f.local.Subscribe(p, func(snap Snapshot) {
			// Secondary channel: only forward local snapshots that carry
			// data, so an empty mirror does not mask remote state
			if snap.Exists {
				fn(snap)
			}
		})
		if err == nil {
			pair.local = lh
		}
	} else {
		h, err := f.local.Subscribe(p, fn)
		if err != nil {
			return "", err
		}
		pair.local = h
	}

	handle := Handle("fb-" + string(pair.primary) + string(pair.local))
	f.mu.Lock()
	f.handles[handle] = pair
	f.mu.Unlock()
	return handle, nil
}

// Unsubscribe removes a fan-in subscription
func (f *Fallback) Unsubscribe(h Handle) {
	f.mu.Lock()
	pair, ok := f.handles[h]
	delete(f.handles, h)
	f.mu.Unlock()
	if !ok {
		return
	}

	if pair.primary != "" && f.primary != nil {
		f.primary.Unsubscribe(pair.primary)
	}
	if pair.local != "" {
		f.local.Unsubscribe(pair.local)
	}
}
