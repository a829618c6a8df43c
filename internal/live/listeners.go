// Package live maintains in-memory mirrors of the store collections and
// notifies the rendering layer on change. Each mirror is fed by a
// persistent per-path subscription; admin-edited content (legal pages,
// navigation, categories) is reconciled against the built-in defaults on
// every snapshot.
package live

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/store"
)

// Notifier receives request lifecycle notifications. Implementations must
// not block; nil disables notifications.
type Notifier interface {
	RequestSubmitted(req model.Request)
	RequestStatusChanged(change StatusChange)
}

// RefreshFunc is invoked after a mirror section updates so the rendering
// layer can redraw. The section name is one of the collection paths.
type RefreshFunc func(section string)

// Listeners owns the collection mirrors and their subscriptions.
// Construction and teardown tie listener lifetime to the session.
type Listeners struct {
	store    store.WatchStore
	notifier Notifier
	refresh  RefreshFunc
	tracker  *StatusTracker

	mu       sync.RWMutex
	entries  []model.CatalogEntry
	requests []model.Request
	guides   model.GuideVideoSet
	cats     model.Categories
	legal    map[string]model.LegalPage
	nav      model.Navigation

	handles []store.Handle
}

// New creates the listener set. notifier and refresh may be nil.
func New(s store.WatchStore, notifier Notifier, refresh RefreshFunc) *Listeners {
	return &Listeners{
		store:    s,
		notifier: notifier,
		refresh:  refresh,
		tracker:  NewStatusTracker(),
		guides:   model.GuideVideoSet{},
		cats:     model.DefaultCategories(),
		legal:    model.DefaultLegalPages(),
		nav:      model.DefaultNavigation(),
	}
}

// Start subscribes to every mirrored path. The initial snapshots are
// delivered synchronously, so the mirrors are populated when Start
// returns.
func (l *Listeners) Start() error {
	subs := []struct {
		path string
		fn   store.SnapshotFunc
	}{
		{catalog.PathMovies, l.onMovies},
		{catalog.PathRequests, l.onRequests},
		{catalog.PathGuides, l.onGuides},
		{catalog.PathCategories, l.onCategories},
		{catalog.PathLegal, l.onLegal},
		{catalog.PathNavigation, l.onNavigation},
	}

	for _, sub := range subs {
		h, err := l.store.Subscribe(sub.path, sub.fn)
		if err != nil {
			l.Stop()
			return err
		}
		l.handles = append(l.handles, h)
	}

	log.Info().Int("paths", len(subs)).Msg("Live listeners started")
	return nil
}

// Stop removes every subscription
func (l *Listeners) Stop() {
	for _, h := range l.handles {
		l.store.Unsubscribe(h)
	}
	l.handles = nil
}

func (l *Listeners) notifyRefresh(section string) {
	if l.refresh != nil {
		l.refresh(section)
	}
}

func (l *Listeners) onMovies(snap store.Snapshot) {
	entries := make([]model.CatalogEntry, 0, len(snap.Records))
	for _, rec := range snap.Records {
		var entry model.CatalogEntry
		if err := json.Unmarshal(rec.Value, &entry); err != nil {
			continue
		}
		entry.ID = rec.Key
		entries = append(entries, entry)
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()

	l.notifyRefresh(catalog.PathMovies)
}

func (l *Listeners) onRequests(snap store.Snapshot) {
	requests := make([]model.Request, 0, len(snap.Records))
	for _, rec := range snap.Records {
		var req model.Request
		if err := json.Unmarshal(rec.Value, &req); err != nil {
			continue
		}
		req.ID = rec.Key
		requests = append(requests, req)
	}

	l.mu.Lock()
	l.requests = requests
	l.mu.Unlock()

	changes, added := l.tracker.Observe(requests)
	if l.notifier != nil {
		for _, req := range added {
			l.notifier.RequestSubmitted(req)
		}
		for _, change := range changes {
			if change.Message() != "" {
				l.notifier.RequestStatusChanged(change)
			}
		}
	}

	l.notifyRefresh(catalog.PathRequests)
}

func (l *Listeners) onGuides(snap store.Snapshot) {
	guides := make(model.GuideVideoSet, len(snap.Records))
	for _, rec := range snap.Records {
		var video model.GuideVideo
		if err := json.Unmarshal(rec.Value, &video); err != nil {
			continue
		}
		guides[rec.Key] = &video
	}

	l.mu.Lock()
	l.guides = guides
	l.mu.Unlock()

	l.notifyRefresh(catalog.PathGuides)
}

func (l *Listeners) onCategories(snap store.Snapshot) {
	cats := model.DefaultCategories()
	if snap.Exists && len(snap.Value) > 0 {
		var stored model.Categories
		if err := json.Unmarshal(snap.Value, &stored); err == nil {
			cats = stored
		}
	}

	l.mu.Lock()
	l.cats = cats
	l.mu.Unlock()

	l.notifyRefresh(catalog.PathCategories)
}

func (l *Listeners) onLegal(snap store.Snapshot) {
	overrides := make(map[string]model.LegalPage, len(snap.Records))
	for _, rec := range snap.Records {
		var page model.LegalPage
		if err := json.Unmarshal(rec.Value, &page); err != nil {
			continue
		}
		overrides[rec.Key] = page
	}

	// Rebuilding from the defaults each snapshot keeps the merge idempotent
	merged := MergeLegalPages(model.DefaultLegalPages(), overrides)

	l.mu.Lock()
	l.legal = merged
	l.mu.Unlock()

	l.notifyRefresh(catalog.PathLegal)
}

func (l *Listeners) onNavigation(snap store.Snapshot) {
	var stored model.Navigation
	exists := snap.Exists && len(snap.Value) > 0
	if exists {
		if err := json.Unmarshal(snap.Value, &stored); err != nil {
			exists = false
		}
	}

	nav := ResolveNavigation(stored, exists)

	l.mu.Lock()
	l.nav = nav
	l.mu.Unlock()

	l.notifyRefresh(catalog.PathNavigation)
}

// Entries returns the mirrored catalog entries
func (l *Listeners) Entries() []model.CatalogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.CatalogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Requests returns the mirrored content requests
func (l *Listeners) Requests() []model.Request {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Request, len(l.requests))
	copy(out, l.requests)
	return out
}

// GuideVideos returns the mirrored guide video set
func (l *Listeners) GuideVideos() model.GuideVideoSet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(model.GuideVideoSet, len(l.guides))
	for k, v := range l.guides {
		out[k] = v
	}
	return out
}

// Categories returns the mirrored category lists
func (l *Listeners) Categories() model.Categories {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cats
}

// LegalPages returns the legal pages merged over the defaults
func (l *Listeners) LegalPages() map[string]model.LegalPage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]model.LegalPage, len(l.legal))
	for k, v := range l.legal {
		out[k] = v
	}
	return out
}

// Navigation returns the effective tab visibility
func (l *Listeners) Navigation() model.Navigation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nav
}
