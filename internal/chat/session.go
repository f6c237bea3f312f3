// Package chat implements the real-time conversation session: one channel
// connection per user, one active peer at a time, and the message view for
// that peer. It mediates between the command loop's selection actions and
// the two collaborators (channel transport, history API), guaranteeing that
// inbound events never leak into the wrong conversation.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rakshverma/sociochat/internal/bus"
	"github.com/rakshverma/sociochat/internal/model"
	"github.com/rakshverma/sociochat/internal/state"
	"github.com/rakshverma/sociochat/internal/transport"
	"go.uber.org/zap"
)

// HistoryStore is the remote API providing peer lists and past messages.
type HistoryStore interface {
	GetPeers(ctx context.Context, userID string) ([]model.Peer, error)
	GetConversation(ctx context.Context, userID, peerID string) ([]model.Message, error)
}

// Session owns one user's messaging view. All mutations of the view and the
// peer selection are serialized through a single mutex, since callbacks
// arrive from the transport's read goroutine while commands arrive from the
// caller's goroutine.
type Session struct {
	userID    string
	transport transport.Transport
	history   HistoryStore
	machine   *state.Machine
	bus       *bus.Bus
	logger    *zap.Logger

	mu     sync.Mutex
	conn   transport.Conn
	peers  []model.Peer
	active *model.Peer
	view   []model.Message

	// gen is bumped on every peer selection and on Stop. A history fetch
	// captures the value at selection time and its result is discarded when
	// the generation moved on, so a slow response for a superseded peer can
	// never land in the current conversation.
	gen uint64
}

// ConversationReplaced is the payload of conversation.replaced events: the
// newly active peer and the view contents at publish time (empty right after
// selection, populated once history arrives).
type ConversationReplaced struct {
	Peer     model.Peer
	Messages []model.Message
}

// Snapshot is a read-only copy of the session for display.
type Snapshot struct {
	State  state.State
	Peers  []model.Peer
	Active *model.Peer
	View   []model.Message
}

// New creates a session for the given user. It does nothing until Start.
func New(userID string, t transport.Transport, h HistoryStore, m *state.Machine, b *bus.Bus, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		userID:    userID,
		transport: t,
		history:   h,
		machine:   m,
		bus:       b,
		logger:    logger,
	}
}

// Start opens the channel connection scoped to the session's user. One-shot:
// a failed connect leaves the session Disconnected and is reported, and the
// caller decides whether to retry. No automatic reconnect.
func (s *Session) Start(ctx context.Context) error {
	if err := s.machine.Transition(state.Connecting); err != nil {
		return err
	}

	conn, err := s.transport.Connect(ctx, s.userID)
	if err != nil {
		_ = s.machine.Transition(state.Disconnected)
		s.report(err)
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	// One long-lived subscription for the whole session; peer filtering
	// happens inside the handler rather than by resubscribing per peer.
	conn.Subscribe(
		func(msg model.Message) { s.handleInbound(conn, msg) },
		func(err error) { s.report(err) },
	)

	if err := s.machine.Transition(state.Connected); err != nil {
		return err
	}
	s.logger.Info("channel connected", zap.String("user", s.userID))
	return nil
}

// LoadPeers fetches the friend list. On failure the list stays empty and the
// error is reported; the session remains usable.
func (s *Session) LoadPeers(ctx context.Context) ([]model.Peer, error) {
	peers, err := s.history.GetPeers(ctx, s.userID)
	if err != nil {
		s.report(err)
		return nil, err
	}

	s.mu.Lock()
	s.peers = peers
	s.mu.Unlock()

	s.logger.Info("peers loaded", zap.Int("count", len(peers)))
	s.bus.Publish(bus.Event{Topic: bus.TopicPeersLoaded, Data: len(peers)})
	return peers, nil
}

// SelectPeer makes peer the active conversation. The view is replaced with
// an empty one immediately; history is fetched asynchronously and applied in
// timestamp order, unless another selection superseded this one first.
func (s *Session) SelectPeer(ctx context.Context, peer model.Peer) error {
	s.mu.Lock()
	if err := s.machine.Transition(state.ConversationActive); err != nil {
		s.mu.Unlock()
		return err
	}
	p := peer
	s.active = &p
	s.view = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.bus.Publish(bus.Event{Topic: bus.TopicConversationReplace, Data: ConversationReplaced{Peer: peer}})

	go s.fetchHistory(ctx, peer, gen)
	return nil
}

func (s *Session) fetchHistory(ctx context.Context, peer model.Peer, gen uint64) {
	msgs, err := s.history.GetConversation(ctx, s.userID, peer.ID)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded history fetch", zap.String("peer", peer.ID))
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.report(err)
		return
	}
	// Live messages may have arrived on the channel while the fetch was in
	// flight; keep them. The stable sort puts history before them when
	// timestamps tie.
	merged := append(msgs, s.view...)
	model.SortByCreated(merged)
	s.view = merged
	published := append([]model.Message(nil), merged...)
	s.mu.Unlock()

	s.bus.Publish(bus.Event{Topic: bus.TopicConversationReplace, Data: ConversationReplaced{Peer: peer, Messages: published}})
}

// SendMessage emits one send request for the active conversation. Empty or
// whitespace-only text is rejected before anything reaches the transport.
// The view is not updated here: the message appears only when the server
// echoes it back on the channel.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return &model.ValidationError{Reason: "empty message text"}
	}

	s.mu.Lock()
	if s.machine.Current() != state.ConversationActive || s.active == nil {
		s.mu.Unlock()
		return &model.ValidationError{Reason: "no active conversation"}
	}
	req := model.SendRequest{
		Sender:    s.userID,
		Recipient: s.active.ID,
		Content:   text,
	}
	conn := s.conn
	s.mu.Unlock()

	if err := conn.Emit(ctx, req); err != nil {
		s.report(err)
		s.bus.Publish(bus.Event{Topic: bus.TopicSendFailed, Data: req})
		return err
	}
	return nil
}

// handleInbound runs on the transport's read goroutine for every message
// addressed to or from the user. The filter appends iff the conversation is
// active and the message belongs to it: sent by the user to the active peer,
// or sent by the active peer to the user. Anything else is dropped from the
// view — switching back to that peer re-fetches history, so nothing is
// permanently lost.
func (s *Session) handleInbound(conn transport.Conn, msg model.Message) {
	s.mu.Lock()
	if s.conn != conn {
		// Session was stopped (or restarted) after this callback was queued.
		s.mu.Unlock()
		return
	}
	if s.machine.Current() != state.ConversationActive || s.active == nil {
		s.mu.Unlock()
		return
	}
	if !belongsTo(msg, s.active.ID) {
		s.mu.Unlock()
		s.logger.Debug("dropping message for inactive conversation",
			zap.String("sender", msg.Sender), zap.String("recipient", msg.Recipient))
		return
	}
	s.view = append(s.view, msg)
	s.mu.Unlock()

	s.bus.Publish(bus.Event{Topic: bus.TopicConversationMessage, Data: msg})
}

func belongsTo(msg model.Message, peerID string) bool {
	if msg.FromUser {
		return msg.Recipient == peerID
	}
	return msg.Sender == peerID
}

// Stop tears the session down: the connection is detached and the state
// cleared atomically, so no in-flight inbound callback can mutate a
// torn-down session, then the connection is closed. Safe to call from any
// state, repeatedly.
func (s *Session) Stop() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.active = nil
	s.view = nil
	s.peers = nil
	s.gen++
	// Transition under the same lock so no caller can observe an active
	// conversation with the connection already gone.
	_ = s.machine.Transition(state.Disconnected)
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	s.logger.Info("session stopped")
}

// Snapshot returns a copy of the current session for display. The returned
// slices are independent of the session's own.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.machine.Current()}
	snap.Peers = append([]model.Peer(nil), s.peers...)
	snap.View = append([]model.Message(nil), s.view...)
	if s.active != nil {
		p := *s.active
		snap.Active = &p
	}
	return snap
}

func (s *Session) report(err error) {
	s.logger.Warn("session error", zap.Error(err))
	s.bus.Publish(bus.Event{Topic: bus.TopicError, Data: err})
}
