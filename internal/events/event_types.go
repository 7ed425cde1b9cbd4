package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventSessionStarted    EventType = "session_started"
	EventCVSaved           EventType = "cv_saved"
	EventCVShared          EventType = "cv_shared"
	EventCVDeleted         EventType = "cv_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	CVID      string      `json:"cv_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, accountID, cvID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		CVID:      cvID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// CVSavedPayload payload.
type CVSavedPayload struct {
	Education  int `json:"education"`
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Projects   int `json:"projects"`
}
