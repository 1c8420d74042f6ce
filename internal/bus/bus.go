// Package bus connects the assistant to a websocket hub as one of its shards.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	Name = "shopvox"

	KindCommand = "command"
	KindReply   = "reply"
	KindError   = "error"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Audio   []byte `json:"audio,omitempty"`
}

type Bus struct {
	url    string
	reconn time.Duration

	mu   sync.Mutex
	conn *ws.Conn
}

// Dial connects to the hub at url. reconn is the pause between redial
// attempts after the connection drops.
func Dial(ctx context.Context, url string, reconn time.Duration) (*Bus, error) {
	b := &Bus{url: url, reconn: reconn}
	if err := b.dial(ctx); err != nil {
		return nil, err
	}
	log.Info("Connected to bus", "url", url)
	return b, nil
}

func (b *Bus) dial(ctx context.Context) error {
	conn, _, err := ws.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.url, err)
	}
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	return nil
}

func (b *Bus) current() *ws.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn
}

// Read blocks for the next frame. A frame that is not a Message yields a
// *json.SyntaxError or *json.UnmarshalTypeError; any other error means the
// connection is gone.
func (b *Bus) Read() (*Message, error) {
	_, data, err := b.current().ReadMessage()
	if err != nil {
		return nil, err
	}
	log.Debug("Read ws", "msg", string(data))

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (b *Bus) Write(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	log.Debug("Write ws", "msg", string(data))
	return b.current().WriteMessage(ws.TextMessage, data)
}

func (b *Bus) Close() error {
	return b.current().Close()
}

// redial retries until the hub answers or ctx is done.
func (b *Bus) redial(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.reconn):
		}
		if err := b.dial(ctx); err != nil {
			log.Debug("Redial failed", "url", b.url, "err", err)
			continue
		}
		log.Info("Reconnected to bus", "url", b.url)
		return nil
	}
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
