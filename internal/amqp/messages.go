package amqp

import (
	"encoding/json"
	"time"
)

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

type ChangeKind string

// EntryChangeMessage announces a ledger mutation. It carries only the id and
// the change kind; consumers re-read the collection themselves, matching the
// full-snapshot contract everywhere else.
type EntryChangeMessage struct {
	ID        string     `json:"id"`
	Kind      ChangeKind `json:"kind"`
	UserID    string     `json:"userId"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewEntryChangeMessage(id string, kind ChangeKind, userID string) *EntryChangeMessage {
	return &EntryChangeMessage{
		ID:        id,
		Kind:      kind,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *EntryChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryChangeMessageFromJSON(data []byte) (*EntryChangeMessage, error) {
	var msg EntryChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
