package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/streamflix-go/internal/config"
)

// brokenStore fails every operation with a fixed error, standing in for
// an unreachable remote backend.
type brokenStore struct {
	err error
}

func (s *brokenStore) Get(ctx context.Context, p string) (json.RawMessage, error) {
	return nil, s.err
}
func (s *brokenStore) Set(ctx context.Context, p string, value json.RawMessage) error {
	return s.err
}
func (s *brokenStore) Merge(ctx context.Context, p string, fields map[string]json.RawMessage) error {
	return s.err
}
func (s *brokenStore) SetField(ctx context.Context, p string, field string, value json.RawMessage) error {
	return s.err
}
func (s *brokenStore) Delete(ctx context.Context, p string) error { return s.err }
func (s *brokenStore) List(ctx context.Context, prefix string) ([]Record, error) {
	return nil, s.err
}
func (s *brokenStore) Push(ctx context.Context, prefix string, hint string, value json.RawMessage) (string, error) {
	return "", s.err
}
func (s *brokenStore) Ping(ctx context.Context) error { return s.err }
func (s *brokenStore) Close() error                   { return nil }
func (s *brokenStore) Subscribe(p string, fn SnapshotFunc) (Handle, error) {
	return "", s.err
}
func (s *brokenStore) Unsubscribe(h Handle) {}

func testStoreConfig() *config.StoreConfig {
	return &config.StoreConfig{
		RemoteTimeout:   time.Second,
		BreakerFailures: 100,
		BreakerCooldown: time.Second,
	}
}

func TestFallback_NoPrimaryRoutesLocal(t *testing.T) {
	local := newTestBadger(t)
	ctx := context.Background()

	var fellBack int
	f := NewFallback(nil, local, testStoreConfig())
	f.SetFallbackHook(func(op string) { fellBack++ })

	if f.RemoteAvailable() {
		t.Error("RemoteAvailable() = true, want false")
	}

	value := json.RawMessage(`{"title":"A"}`)
	if err := f.Set(ctx, "movies/m1", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := f.Get(ctx, "movies/m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get() = %s, want %s", got, value)
	}

	// Routing past a never-configured primary is not a degradation
	if fellBack != 0 {
		t.Errorf("fallback hook fired %v times, want 0", fellBack)
	}
}

func TestFallback_DegradesOnPrimaryFailure(t *testing.T) {
	local := newTestBadger(t)
	ctx := context.Background()

	var ops []string
	f := NewFallback(&brokenStore{err: errors.New("connection refused")}, local, testStoreConfig())
	f.SetFallbackHook(func(op string) { ops = append(ops, op) })

	value := json.RawMessage(`{"title":"A"}`)
	if err := f.Set(ctx, "movies/m1", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := f.Get(ctx, "movies/m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get() = %s, want %s", got, value)
	}

	if len(ops) != 2 || ops[0] != "set" || ops[1] != "get" {
		t.Errorf("fallback hook ops = %v, want [set get]", ops)
	}
}

func TestFallback_ListDegradesToLocal(t *testing.T) {
	local := newTestBadger(t)
	ctx := context.Background()

	local.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A"}`))
	local.Set(ctx, "movies/m2", json.RawMessage(`{"title":"B"}`))

	var ops []string
	f := NewFallback(&brokenStore{err: errors.New("connection refused")}, local, testStoreConfig())
	f.SetFallbackHook(func(op string) { ops = append(ops, op) })

	records, err := f.List(ctx, "movies")
	if err != nil {
		t.Fatalf("List() error = %v, want local records", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %v, want 2", len(records))
	}
	if len(ops) != 1 || ops[0] != "list" {
		t.Errorf("fallback hook ops = %v, want [list]", ops)
	}
}

func TestFallback_NotFoundPassesThrough(t *testing.T) {
	local := newTestBadger(t)
	ctx := context.Background()

	// The local mirror holds stale data the remote has already deleted
	local.Set(ctx, "movies/m1", json.RawMessage(`{"title":"stale"}`))

	f := NewFallback(&brokenStore{err: ErrNotFound}, local, testStoreConfig())

	_, err := f.Get(ctx, "movies/m1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound (no fallback to stale mirror)", err)
	}
}

func TestFallback_MirrorsSuccessfulWrites(t *testing.T) {
	primary := newTestBadger(t)
	local := newTestBadger(t)
	ctx := context.Background()

	f := NewFallback(primary, local, testStoreConfig())

	value := json.RawMessage(`{"title":"A"}`)
	if err := f.Set(ctx, "movies/m1", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := local.Get(ctx, "movies/m1")
	if err != nil {
		t.Fatalf("local Get() error = %v, want mirrored write", err)
	}
	if string(got) != string(value) {
		t.Errorf("local mirror = %s, want %s", got, value)
	}
}

func TestFallback_PushFallsBackToLocalKey(t *testing.T) {
	local := newTestBadger(t)
	ctx := context.Background()

	f := NewFallback(&brokenStore{err: errors.New("timeout")}, local, testStoreConfig())

	key, err := f.Push(ctx, "requests", "req", json.RawMessage(`{"title":"X"}`))
	if err != nil {
		t.Fatalf("Push() error = %v, want local fallback to succeed", err)
	}
	if !strings.HasPrefix(key, "req_") {
		t.Errorf("key = %q, want local id with req_ prefix", key)
	}
	if _, err := local.Get(ctx, "requests/"+key); err != nil {
		t.Errorf("local Get() after push error = %v", err)
	}
}

func TestFallback_PushMirrorsRemoteKey(t *testing.T) {
	primary := newTestBadger(t)
	local := newTestBadger(t)
	ctx := context.Background()

	f := NewFallback(primary, local, testStoreConfig())

	value := json.RawMessage(`{"title":"X"}`)
	key, err := f.Push(ctx, "movies", "movie", value)
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	// The mirror stores the value under the key the primary assigned
	got, err := local.Get(ctx, "movies/"+key)
	if err != nil {
		t.Fatalf("local Get() error = %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("local mirror = %s, want %s", got, value)
	}
}

func TestFallback_SubscribeReceivesPrimaryWrites(t *testing.T) {
	primary := newTestBadger(t)
	local := newTestBadger(t)
	ctx := context.Background()

	f := NewFallback(primary, local, testStoreConfig())

	var count int
	h, err := f.Subscribe("movies", func(snap Snapshot) { count++ })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	before := count
	if err := f.Set(ctx, "movies/m1", json.RawMessage(`{"title":"A"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if count <= before {
		t.Errorf("snapshot count = %v after write, want > %v", count, before)
	}

	f.Unsubscribe(h)
	after := count
	f.Set(ctx, "movies/m2", json.RawMessage(`{"title":"B"}`))
	if count != after {
		t.Errorf("snapshot count = %v after unsubscribe, want %v", count, after)
	}
}
