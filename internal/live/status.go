package live

import (
	"fmt"
	"sync"

	"github.com/user/streamflix-go/internal/model"
)

// StatusChange describes one observed request status transition
type StatusChange struct {
	ID     string
	Title  string
	Status model.RequestStatus
}

// Message returns the user-facing notification text for a status change,
// or "" for transitions that stay silent.
func (c StatusChange) Message() string {
	switch c.Status {
	case model.RequestStatusAccepted:
		return fmt.Sprintf("Your request %q has been accepted!", c.Title)
	case model.RequestStatusCompleted:
		return fmt.Sprintf("Your request %q has been completed and is now available!", c.Title)
	case model.RequestStatusRejected:
		return fmt.Sprintf("Your request %q has been declined. Please try another request.", c.Title)
	default:
		return ""
	}
}

// StatusTracker retains the last-seen status per request id across
// snapshots and reports transitions. Ids that disappear are forgotten, so
// a request reappearing under a different id starts with no history.
type StatusTracker struct {
	mu     sync.Mutex
	seen   map[string]model.RequestStatus
	primed bool
}

// NewStatusTracker creates an empty tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{seen: make(map[string]model.RequestStatus)}
}

// Observe processes one snapshot of the request collection. It returns
// the status changes since the previous snapshot plus the requests that
// are entirely new. The first snapshot only primes the tracker: nothing
// is reported as new or changed.
func (t *StatusTracker) Observe(requests []model.Request) (changes []StatusChange, added []model.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make(map[string]model.RequestStatus, len(requests))
	for _, req := range requests {
		prev, known := t.seen[req.ID]
		next[req.ID] = req.Status

		if !t.primed {
			continue
		}
		if !known {
			added = append(added, req)
			continue
		}
		if prev != req.Status {
			changes = append(changes, StatusChange{
				ID:     req.ID,
				Title:  req.Title,
				Status: req.Status,
			})
		}
	}

	t.seen = next
	t.primed = true
	return changes, added
}
