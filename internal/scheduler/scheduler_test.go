package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/store"
)

func newTestStore(t *testing.T) *store.BadgerStore {
	t.Helper()
	s, err := store.NewBadgerStore(&config.LocalConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRefresh_CopiesRemoteToLocal(t *testing.T) {
	remote := newTestStore(t)
	local := newTestStore(t)
	ctx := context.Background()

	remote.Set(ctx, "movies/m1", json.RawMessage(`{"title":"The Matrix"}`))
	remote.Set(ctx, "requests/r1", json.RawMessage(`{"title":"Dune"}`))
	remote.Set(ctx, "navigationSettings", json.RawMessage(`{"home":true}`))

	s := NewScheduler(remote, local, &config.MirrorConfig{Enabled: true, Interval: time.Minute})
	s.refresh(ctx)

	for _, p := range []string{"movies/m1", "requests/r1", "navigationSettings"} {
		if _, err := local.Get(ctx, p); err != nil {
			t.Errorf("local Get(%v) error = %v, want mirrored record", p, err)
		}
	}
}

func TestRefresh_AbsentSingletonsAreNotAnError(t *testing.T) {
	remote := newTestStore(t)
	local := newTestStore(t)
	ctx := context.Background()

	s := NewScheduler(remote, local, &config.MirrorConfig{Enabled: true, Interval: time.Minute})
	s.refresh(ctx)

	if _, err := local.Get(ctx, "navigationSettings"); err == nil {
		t.Error("local has navigationSettings after refreshing an empty remote")
	}
}

func TestStart_NoOpWithoutRemote(t *testing.T) {
	local := newTestStore(t)

	s := NewScheduler(nil, local, &config.MirrorConfig{Enabled: true, Interval: time.Minute})
	s.Start(context.Background())
	s.Stop()
}
