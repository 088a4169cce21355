package amqp

import "testing"

func TestEntryChangeMessageRoundTrip(t *testing.T) {
	msg := NewEntryChangeMessage("abc-123", ChangeUpdated, "user-1")
	if msg.Timestamp.IsZero() {
		t.Error("constructor must stamp the message")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := EntryChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ID != "abc-123" || got.Kind != ChangeUpdated || got.UserID != "user-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestEntryChangeMessageFromJSONMalformed(t *testing.T) {
	if _, err := EntryChangeMessageFromJSON([]byte("{oops")); err == nil {
		t.Error("expected error for malformed body")
	}
}
