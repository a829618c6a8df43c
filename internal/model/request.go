package model

// RequestStatus defines the lifecycle status of a content request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusRejected  RequestStatus = "rejected"
)

// Request represents a user-submitted content request.
// Status transitions are driven by an external admin; the data layer
// only observes and reports changes, it does not enforce ordering.
type Request struct {
	ID          string        `json:"id,omitempty"`
	Type        EntryType     `json:"type,omitempty"`
	Title       string        `json:"title"`
	Year        string        `json:"year,omitempty"`
	Description string        `json:"description,omitempty"`
	Status      RequestStatus `json:"status,omitempty"`
	Timestamp   int64         `json:"timestamp,omitempty"`
	SubmittedAt string        `json:"submittedAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
}
