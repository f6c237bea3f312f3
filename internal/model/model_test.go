package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		peer Peer
		want string
	}{
		{"with name", Peer{ID: "b@sociofy.io", Name: "Bea"}, "Bea"},
		{"missing name uses local part", Peer{ID: "b@sociofy.io"}, "b"},
		{"non-email id", Peer{ID: "b123"}, "b123"},
		{"empty entry", Peer{}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.peer.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortByCreated(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: "3", CreatedAt: t0.Add(2 * time.Minute)},
		{ID: "1", CreatedAt: t0},
		{ID: "2", CreatedAt: t0.Add(time.Minute)},
	}
	SortByCreated(msgs)
	for i, want := range []string{"1", "2", "3"} {
		if msgs[i].ID != want {
			t.Errorf("msgs[%d].ID = %q, want %q", i, msgs[i].ID, want)
		}
	}
}

// TestSortByCreatedStable: equal timestamps keep their original order, so
// arrival order decides when the server's clock is coarse.
func TestSortByCreatedStable(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: "a", CreatedAt: t0},
		{ID: "b", CreatedAt: t0},
		{ID: "c", CreatedAt: t0},
	}
	SortByCreated(msgs)
	for i, want := range []string{"a", "b", "c"} {
		if msgs[i].ID != want {
			t.Errorf("msgs[%d].ID = %q, want %q", i, msgs[i].ID, want)
		}
	}
}

func TestConfirmed(t *testing.T) {
	if (Message{}).Confirmed() {
		t.Error("message without ID must be unconfirmed")
	}
	if !(Message{ID: "srv-1"}).Confirmed() {
		t.Error("message with ID must be confirmed")
	}
}

// TestMessageWireFormat pins the JSON field names of the server contract.
func TestMessageWireFormat(t *testing.T) {
	raw := `{
		"_id": "665f",
		"senderEmail": "a@sociofy.io",
		"receiverEmail": "b@sociofy.io",
		"content": "hi",
		"createdAt": "2025-06-01T10:00:00Z",
		"isFromUser": true
	}`
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if m.ID != "665f" || m.Sender != "a@sociofy.io" || m.Recipient != "b@sociofy.io" {
		t.Errorf("unexpected decode: %+v", m)
	}
	if !m.FromUser || m.Content != "hi" {
		t.Errorf("unexpected decode: %+v", m)
	}
	if !m.CreatedAt.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("createdAt = %v", m.CreatedAt)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	var err error = &ConnectionError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ConnectionError must unwrap to its cause")
	}

	httpErr := &HTTPError{Status: 503, URL: "/friends/a"}
	if httpErr.Error() == "" {
		t.Error("HTTPError must describe itself")
	}

	var ve *ValidationError
	if !errors.As(error(&ValidationError{Reason: "empty message text"}), &ve) {
		t.Error("errors.As must match ValidationError")
	}
}
