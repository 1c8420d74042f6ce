package shop

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"shopvox/internal/catalog"
	"shopvox/internal/nlu"
)

// HistoryStore persists the purchase history of a session.
type HistoryStore interface {
	Load(ctx context.Context) ([]Purchase, error)
	Save(ctx context.Context, history []Purchase) error
}

type Assistant struct {
	parser   *nlu.Parser
	store    HistoryStore
	products []catalog.Product
	now      func() time.Time
}

type Option func(*Assistant)

// WithClock overrides the source of "today" for new purchases.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

func WithProducts(products []catalog.Product) Option {
	return func(a *Assistant) { a.products = products }
}

func NewAssistant(parser *nlu.Parser, store HistoryStore, opts ...Option) *Assistant {
	a := &Assistant{
		parser:   parser,
		store:    store,
		products: catalog.Products,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewSession starts a session whose history is loaded from the store.
func (a *Assistant) NewSession(ctx context.Context) (Session, error) {
	history, err := a.store.Load(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load history: %w", err)
	}
	return NewSession(history), nil
}

// Dispatch parses utterance and runs the matching handler against s. The
// returned error is only ever a persistence failure, in which case s is
// returned unchanged.
func (a *Assistant) Dispatch(ctx context.Context, s Session, utterance string) (Session, Reply, error) {
	cmd := a.parser.Parse(ctx, utterance)

	log.Debug("Parsed",
		"session", s.ID,
		"intent", cmd.Intent,
		"item", cmd.Item,
		"qty", cmd.Quantity,
		"ceiling", cmd.Ceiling,
	)

	switch {
	case cmd.Intent == nlu.IntentAdd && cmd.Item != "":
		next, reply := Add(s, cmd.Item, cmd.Quantity, a.now())
		if err := a.store.Save(ctx, next.History); err != nil {
			return s, Reply{}, fmt.Errorf("save history: %w", err)
		}
		return next, reply, nil

	case cmd.Intent == nlu.IntentRemove && cmd.Item != "":
		next, reply := Remove(s, cmd.Item)
		return next, reply, nil

	case cmd.Intent == nlu.IntentShow:
		return s, Show(s), nil

	case cmd.Intent == nlu.IntentSuggest:
		return s, Suggest(s), nil

	case cmd.Intent == nlu.IntentFind && cmd.Item != "":
		return s, Find(a.products, cmd.Item, cmd.Ceiling), nil
	}

	log.Info("Unrecognized command", "session", s.ID, "text", utterance, "intent", cmd.Intent)
	return s, notice(LevelWarning, MsgUnrecognized), nil
}
