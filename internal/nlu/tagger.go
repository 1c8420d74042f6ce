package nlu

import "context"

// Tagger extracts noun and proper-noun tokens from an utterance, in the
// order they appear.
type Tagger interface {
	Available() bool
	Nouns(ctx context.Context, text string) ([]string, error)
}

// NoopTagger is used when no tagger is configured.
type NoopTagger struct{}

func (NoopTagger) Available() bool { return false }

func (NoopTagger) Nouns(context.Context, string) ([]string, error) { return nil, nil }
