package model

import (
	"sort"
	"strings"
	"time"
)

// Peer is a contact the current user may exchange messages with. Peers are
// immutable for the lifetime of a session; the list is fetched once from the
// history API at session start. Identifiers are opaque case-sensitive
// strings (the server uses emails).
type Peer struct {
	ID     string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"profilePicture,omitempty"`
}

// DisplayName returns the peer's name, falling back to the local part of the
// identifier when the server returns a malformed entry with no name.
func (p Peer) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if i := strings.IndexByte(p.ID, '@'); i > 0 {
		return p.ID[:i]
	}
	if p.ID != "" {
		return p.ID
	}
	return "unknown"
}

// Message is one chat message. ID is assigned by the server and is empty
// until the message has been confirmed (echoed back on the channel).
type Message struct {
	ID        string    `json:"_id,omitempty"`
	Sender    string    `json:"senderEmail"`
	Recipient string    `json:"receiverEmail"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	FromUser  bool      `json:"isFromUser"`
}

// Confirmed reports whether the server has assigned an identifier.
func (m Message) Confirmed() bool {
	return m.ID != ""
}

// SendRequest is the outbound payload emitted on the channel transport.
type SendRequest struct {
	Sender    string `json:"senderEmail"`
	Recipient string `json:"receiverEmail"`
	Content   string `json:"content"`
}

// SortByCreated orders messages ascending by creation time, in place.
// Display order is enforced here rather than assumed from whatever order the
// history API happens to return. The sort is stable so messages with equal
// timestamps keep their arrival order.
func SortByCreated(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}
