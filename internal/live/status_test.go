package live

import (
	"strings"
	"testing"

	"github.com/user/streamflix-go/internal/model"
)

func TestStatusTracker_FirstSnapshotOnlyPrimes(t *testing.T) {
	tracker := NewStatusTracker()

	changes, added := tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusPending},
	})
	if len(changes) != 0 {
		t.Errorf("changes = %v, want none on the first snapshot", changes)
	}
	if len(added) != 0 {
		t.Errorf("added = %v, want none on the first snapshot", added)
	}
}

func TestStatusTracker_TransitionEmitsOneChange(t *testing.T) {
	tracker := NewStatusTracker()

	tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusPending},
	})

	changes, added := tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusCompleted},
	})
	if len(added) != 0 {
		t.Errorf("added = %v, want none", added)
	}
	if len(changes) != 1 {
		t.Fatalf("len(changes) = %v, want 1", len(changes))
	}
	change := changes[0]
	if change.ID != "r1" || change.Status != model.RequestStatusCompleted {
		t.Errorf("change = %+v, want r1 completed", change)
	}

	// An unchanged snapshot reports nothing further
	changes, _ = tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusCompleted},
	})
	if len(changes) != 0 {
		t.Errorf("changes = %v on unchanged snapshot, want none", changes)
	}
}

func TestStatusTracker_NewRequestReportedAsAdded(t *testing.T) {
	tracker := NewStatusTracker()

	tracker.Observe(nil)

	changes, added := tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusPending},
	})
	if len(changes) != 0 {
		t.Errorf("changes = %v, want none", changes)
	}
	if len(added) != 1 || added[0].ID != "r1" {
		t.Errorf("added = %v, want [r1]", added)
	}
}

func TestStatusTracker_DisappearedIDForgotten(t *testing.T) {
	tracker := NewStatusTracker()

	tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusAccepted},
	})
	tracker.Observe(nil)

	// Reappearing under the same id has no history: reported as added,
	// never as a status change
	changes, added := tracker.Observe([]model.Request{
		{ID: "r1", Title: "Dune", Status: model.RequestStatusCompleted},
	})
	if len(changes) != 0 {
		t.Errorf("changes = %v, want none for a forgotten id", changes)
	}
	if len(added) != 1 {
		t.Errorf("added = %v, want the reappeared request", added)
	}
}

func TestStatusChange_Message(t *testing.T) {
	tests := []struct {
		status model.RequestStatus
		want   string
	}{
		{model.RequestStatusAccepted, "accepted"},
		{model.RequestStatusCompleted, "now available"},
		{model.RequestStatusRejected, "declined"},
		{model.RequestStatusPending, ""},
	}

	for _, tt := range tests {
		change := StatusChange{ID: "r1", Title: "Dune", Status: tt.status}
		msg := change.Message()

		if tt.want == "" {
			if msg != "" {
				t.Errorf("Message() for %v = %q, want silent", tt.status, msg)
			}
			continue
		}
		if !strings.Contains(msg, tt.want) {
			t.Errorf("Message() for %v = %q, want it to mention %q", tt.status, msg, tt.want)
		}
		if !strings.Contains(msg, `"Dune"`) {
			t.Errorf("Message() for %v = %q, want it to carry the title", tt.status, msg)
		}
	}
}
