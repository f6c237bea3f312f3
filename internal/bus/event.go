package bus

import "time"

// Topics published by the session core. The UI subscribes by prefix, e.g.
// "conversation." for view updates or "" for everything.
const (
	TopicStateChanged        = "session.state_changed"
	TopicError               = "session.error"
	TopicPeersLoaded         = "peers.loaded"
	TopicConversationReplace = "conversation.replaced"
	TopicConversationMessage = "conversation.message"
	TopicSendFailed          = "message.send_failed"
)

// Event is one session event delivered to subscribers. ID is assigned on
// publish when left empty.
type Event struct {
	ID    string
	Topic string
	At    time.Time
	Data  any
}
