package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rakshverma/sociochat/internal/model"
	"go.uber.org/zap"
)

const (
	defaultDialTimeout = 10 * time.Second
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 64 * 1024
)

// WS is the websocket-backed Transport. Connect dials once; there is no
// automatic reconnect, a dropped connection surfaces through the error
// handler and the session stays disconnected until restarted.
type WS struct {
	URL         string
	DialTimeout time.Duration
	Logger      *zap.Logger
}

// NewWS creates a websocket transport for the given socket URL.
func NewWS(url string, dialTimeout time.Duration, logger *zap.Logger) *WS {
	return &WS{URL: url, DialTimeout: dialTimeout, Logger: logger}
}

// Connect dials the socket server and joins the user's channel. The dial is
// bounded by the configured timeout.
func (t *WS) Connect(ctx context.Context, userID string) (Conn, error) {
	timeout := t.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	ws, _, err := dialer.DialContext(dialCtx, t.URL, nil)
	if err != nil {
		return nil, &model.ConnectionError{Err: err}
	}

	c := &wsConn{
		ws:     ws,
		logger: t.Logger,
		done:   make(chan struct{}),
	}
	if err := c.writeFrame(eventJoin, userID); err != nil {
		_ = ws.Close()
		return nil, &model.ConnectionError{Err: err}
	}
	return c, nil
}

type wsConn struct {
	ws     *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// Subscribe starts the read and ping loops. The read loop is the single
// reader, so inbound events reach onMessage in server delivery order.
func (c *wsConn) Subscribe(onMessage func(model.Message), onError func(error)) {
	go c.readLoop(onMessage, onError)
	go c.pingLoop()
}

// Emit writes a sendMessage frame. Errors are returned to the caller and the
// connection is otherwise left alone.
func (c *wsConn) Emit(_ context.Context, req model.SendRequest) error {
	return c.writeFrame(eventSend, req)
}

// Close shuts the connection down. Idempotent.
func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *wsConn) writeFrame(event string, data any) error {
	f, err := newFrame(event, data)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", event, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(f)
}

func (c *wsConn) readLoop(onMessage func(model.Message), onError func(error)) {
	defer func() { _ = c.Close() }()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Closed locally; not an error worth reporting.
			default:
				if onError != nil {
					onError(&model.ConnectionError{Err: err})
				}
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			if c.logger != nil {
				c.logger.Warn("discarding undecodable frame", zap.Error(err))
			}
			continue
		}

		switch f.Event {
		case eventNewMessage:
			var msg model.Message
			if err := json.Unmarshal(f.Data, &msg); err != nil {
				if c.logger != nil {
					c.logger.Warn("discarding malformed message event", zap.Error(err))
				}
				continue
			}
			onMessage(msg)
		case eventError:
			var detail string
			_ = json.Unmarshal(f.Data, &detail)
			if onError != nil {
				onError(fmt.Errorf("server error event: %s", detail))
			}
		default:
			if c.logger != nil {
				c.logger.Debug("ignoring unknown event", zap.String("event", f.Event))
			}
		}
	}
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
