package store

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist at the given path
var ErrNotFound = errors.New("store: record not found")

// Record is a stored value combined with its store-assigned key.
// The key is the last path segment and is not duplicated inside the payload.
type Record struct {
	Key   string
	Path  string
	Value json.RawMessage
}

// Snapshot is a point-in-time view of a path, delivered to subscribers.
// Value is set when a record (or a field of a record) exists at the path;
// Records holds the direct children when the path is a collection.
type Snapshot struct {
	Path    string
	Value   json.RawMessage
	Records []Record
	Exists  bool
}

// SnapshotFunc receives snapshots for a subscribed path. The initial load
// counts as one invocation; every subsequent mutation under the path
// triggers another.
type SnapshotFunc func(snap Snapshot)

// Handle identifies a single subscription for later removal
type Handle string

// Store is the persistence contract shared by the remote and local
// backends. Paths are slash-separated (`movies/<id>`, `legalPages/privacy`,
// `navigationSettings`); values are JSON documents.
type Store interface {
	// Get returns the value stored at an exact path, or ErrNotFound.
	Get(ctx context.Context, p string) (json.RawMessage, error)
	// Set writes the full value at a path, creating or replacing it.
	Set(ctx context.Context, p string, value json.RawMessage) error
	// Merge shallow-merges fields into the object stored at a path.
	// Fields named in the payload overwrite; others are retained.
	// Returns ErrNotFound when no record exists at the path.
	Merge(ctx context.Context, p string, fields map[string]json.RawMessage) error
	// SetField sets one field of the object stored at a path.
	SetField(ctx context.Context, p string, field string, value json.RawMessage) error
	// Delete removes the record at a path and any descendants. Deleting a
	// missing path is not an error.
	Delete(ctx context.Context, p string) error
	// List returns the direct children of a path.
	List(ctx context.Context, prefix string) ([]Record, error)
	// Push inserts a value under a collection path with a store-generated
	// key and returns that key. hint is the id prefix used by backends
	// with client-side key generation.
	Push(ctx context.Context, prefix string, hint string, value json.RawMessage) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Watcher is the subscription side of a store. Subscriptions persist until
// explicitly unsubscribed; handles tie listener lifetime to the caller.
type Watcher interface {
	Subscribe(p string, fn SnapshotFunc) (Handle, error)
	Unsubscribe(h Handle)
}

// WatchStore combines persistence and subscriptions
type WatchStore interface {
	Store
	Watcher
}

// snapshotter reads a snapshot for a path; implemented by each backend
type snapshotter func(ctx context.Context, p string) Snapshot

type subscription struct {
	path string
	fn   SnapshotFunc
}

// notifier implements the Watcher contract for both backends. Dispatch is
// synchronous in the writer's goroutine; callbacks must not block.
type notifier struct {
	mu   sync.RWMutex
	subs map[Handle]subscription
	snap snapshotter
}

func newNotifier(snap snapshotter) *notifier {
	return &notifier{
		subs: make(map[Handle]subscription),
		snap: snap,
	}
}

// Subscribe registers a callback and immediately delivers the current
// snapshot for the path.
func (n *notifier) Subscribe(p string, fn SnapshotFunc) (Handle, error) {
	h := Handle(uuid.NewString())

	n.mu.Lock()
	n.subs[h] = subscription{path: p, fn: fn}
	n.mu.Unlock()

	fn(n.snap(context.Background(), p))
	return h, nil
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (n *notifier) Unsubscribe(h Handle) {
	n.mu.Lock()
	delete(n.subs, h)
	n.mu.Unlock()
}

// dispatch notifies every subscription affected by a write at p: exact
// matches, ancestors watching a collection, and descendants watching a
// field of the written record.
func (n *notifier) dispatch(ctx context.Context, p string) {
	n.mu.RLock()
	var affected []subscription
	for _, sub := range n.subs {
		if pathsOverlap(sub.path, p) {
			affected = append(affected, sub)
		}
	}
	n.mu.RUnlock()

	for _, sub := range affected {
		sub.fn(n.snap(ctx, sub.path))
	}
}

func pathsOverlap(a, b string) bool {
	return a == b ||
		strings.HasPrefix(b, a+"/") ||
		strings.HasPrefix(a, b+"/")
}

// parentOf splits a path into its parent and last segment
func parentOf(p string) (parent, base string) {
	dir, base := path.Split(p)
	return strings.TrimSuffix(dir, "/"), base
}

// fieldFromRaw extracts one field of a JSON object, or nil
func fieldFromRaw(raw json.RawMessage, field string) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj[field]
}

// snapshotWith builds the shared snapshot logic used by both backends:
// resolve the exact record, fall back to extracting a field from the
// parent record, and include direct children for collection paths.
func snapshotWith(s Store) snapshotter {
	return func(ctx context.Context, p string) Snapshot {
		snap := Snapshot{Path: p}

		if val, err := s.Get(ctx, p); err == nil {
			snap.Value = val
			snap.Exists = true
		} else if parent, field := parentOf(p); parent != "" {
			if pv, err := s.Get(ctx, parent); err == nil {
				if fv := fieldFromRaw(pv, field); fv != nil {
					snap.Value = fv
					snap.Exists = true
				}
			}
		}

		if recs, err := s.List(ctx, p); err == nil && len(recs) > 0 {
			snap.Records = recs
			snap.Exists = true
		}

		return snap
	}
}
