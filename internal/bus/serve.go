package bus

import (
	"context"
	"encoding/json"
	"errors"
	log "log/slog"

	"shopvox/internal/shop"
)

// Handler is the part of the interaction pipeline the bus drives.
type Handler interface {
	HandleText(ctx context.Context, text string) (shop.Reply, error)
	HandleAudio(ctx context.Context, audio []byte) (shop.Reply, error)
}

// Serve answers hub messages until ctx is done. Messages carrying audio
// are transcribed; all others run their content as a typed command.
func (b *Bus) Serve(ctx context.Context, h Handler) error {
	stop := context.AfterFunc(ctx, func() { b.Close() })
	defer stop()

	for {
		msg, err := b.Read()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn("Dropping malformed bus message", "err", err)
				continue
			}

			if isClosed(err) {
				log.Warn("Bus connection closed", "err", err)
			} else {
				log.Error("Bus read failed", "err", err)
			}
			if err := b.redial(ctx); err != nil {
				return err
			}
			continue
		}

		if msg.From == Name || (msg.To != "" && msg.To != Name) {
			continue
		}

		if err := b.Write(respond(ctx, h, msg)); err != nil {
			log.Error("Failed to send response", "to", msg.From, "err", err)
		}
	}
}

func respond(ctx context.Context, h Handler, msg *Message) *Message {
	var (
		reply shop.Reply
		err   error
	)
	if len(msg.Audio) > 0 {
		log.Info("Received audio message", "from", msg.From, "bytes", len(msg.Audio))
		reply, err = h.HandleAudio(ctx, msg.Audio)
	} else {
		log.Info("Received command", "from", msg.From, "content", msg.Content)
		reply, err = h.HandleText(ctx, msg.Content)
	}

	out := &Message{From: Name, To: msg.From, Kind: KindReply}
	switch {
	case err != nil:
		log.Error("Command failed", "from", msg.From, "err", err)
		out.Kind = KindError
		out.Content = err.Error()
	case reply.Level == shop.LevelError:
		out.Kind = KindError
		out.Content = reply.String()
	default:
		out.Content = reply.String()
	}
	return out
}
