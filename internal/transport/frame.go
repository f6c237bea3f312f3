package transport

import "encoding/json"

// Socket event names. These mirror the server's pub/sub contract: the client
// announces itself with "join", emits "sendMessage" requests, and receives
// "newMessage" and "error" events.
const (
	eventJoin       = "join"
	eventSend       = "sendMessage"
	eventNewMessage = "newMessage"
	eventError      = "error"
)

// frame is the JSON envelope for every socket event in both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newFrame(event string, data any) (frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return frame{}, err
	}
	return frame{Event: event, Data: raw}, nil
}
