// Package pipeline runs one interaction at a time against a single
// session: capture or text in, transcription, dispatch, reply out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"

	"shopvox/internal/shop"
	"shopvox/pkg/stt"
)

const MsgNotRecognized = "❌ Could not recognize speech. Try typing instead."

var ErrNoTranscriber = errors.New("speech input is not configured")

type Pipeline struct {
	mu          sync.Mutex
	assistant   *shop.Assistant
	transcriber stt.Transcriber
	session     shop.Session
}

// New starts a session on assistant. transcriber may be nil for text-only use.
func New(ctx context.Context, assistant *shop.Assistant, transcriber stt.Transcriber) (*Pipeline, error) {
	s, err := assistant.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Session started", "session", s.ID, "history", len(s.History))
	return &Pipeline{assistant: assistant, transcriber: transcriber, session: s}, nil
}

func (p *Pipeline) HandleText(ctx context.Context, text string) (shop.Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispatch(ctx, text)
}

// HandleAudio transcribes audio and dispatches the transcript. A failed
// recognition yields an error reply and leaves the session untouched.
func (p *Pipeline) HandleAudio(ctx context.Context, audio []byte) (shop.Reply, error) {
	if p.transcriber == nil {
		return shop.Reply{}, ErrNoTranscriber
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	text, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		var rerr *stt.RecognitionError
		if !errors.As(err, &rerr) {
			return shop.Reply{}, fmt.Errorf("transcribe: %w", err)
		}
		log.Warn("Speech not recognized", "session", p.session.ID, "reason", rerr.Reason, "err", rerr.Err)
		return shop.Reply{Level: shop.LevelError, Title: MsgNotRecognized}, nil
	}

	log.Info("Heard", "session", p.session.ID, "text", text)

	reply, err := p.dispatch(ctx, text)
	if err != nil {
		return shop.Reply{}, err
	}
	return heard(text, reply), nil
}

// Session returns a copy of the current session for display.
func (p *Pipeline) Session() shop.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Clone()
}

func (p *Pipeline) dispatch(ctx context.Context, text string) (shop.Reply, error) {
	next, reply, err := p.assistant.Dispatch(ctx, p.session, text)
	if err != nil {
		return shop.Reply{}, err
	}
	p.session = next
	return reply, nil
}

func heard(text string, r shop.Reply) shop.Reply {
	lines := make([]string, 0, len(r.Lines)+1)
	if r.Title != "" {
		lines = append(lines, r.Title)
	}
	lines = append(lines, r.Lines...)
	return shop.Reply{Level: r.Level, Title: "You said: " + text, Lines: lines}
}
