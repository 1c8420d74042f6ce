package nlu

import (
	"context"
	log "log/slog"
	"regexp"
	"strconv"
	"strings"

	"shopvox/internal/catalog"
)

type Intent string

const (
	IntentAdd     Intent = "add"
	IntentRemove  Intent = "remove"
	IntentShow    Intent = "show"
	IntentFind    Intent = "find"
	IntentSuggest Intent = "suggest"
	IntentUnknown Intent = "unknown"
)

// Rule maps a keyword group to an intent.
type Rule struct {
	Intent   Intent
	Keywords []string
}

// Rules are tried in order; the first rule with a keyword contained in the
// utterance decides the intent.
var Rules = []Rule{
	{IntentAdd, []string{"add", "buy", "need"}},
	{IntentRemove, []string{"remove", "delete"}},
	{IntentShow, []string{"show", "list"}},
	{IntentFind, []string{"find", "search"}},
	{IntentSuggest, []string{"suggest", "recommend"}},
}

// Command is the structured form of one utterance. An empty Item means no
// item could be resolved; a nil Ceiling means no price filter was given.
type Command struct {
	Intent   Intent
	Item     string
	Quantity int
	Ceiling  *float64
}

var (
	digitsRe  = regexp.MustCompile(`(\d+)`)
	ceilingRe = regexp.MustCompile(`(under|below|less than)\s*\$?\s*([\d.]+)`)
)

type Parser struct {
	tagger Tagger
}

// NewParser returns a parser that falls back to tagger for item extraction.
// A nil tagger behaves like NoopTagger.
func NewParser(tagger Tagger) *Parser {
	if tagger == nil {
		tagger = NoopTagger{}
	}
	return &Parser{tagger: tagger}
}

func (p *Parser) Parse(ctx context.Context, utterance string) Command {
	text := strings.ToLower(utterance)

	return Command{
		Intent:   ClassifyIntent(text),
		Item:     p.extractItem(ctx, text),
		Quantity: ParseQuantity(text),
		Ceiling:  ParseCeiling(text),
	}
}

func ClassifyIntent(text string) Intent {
	for _, r := range Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Intent
			}
		}
	}
	return IntentUnknown
}

// ParseQuantity prefers the first digit run, then the first number word in
// table order, then 1. Zero and out-of-range digit runs count as unparsed.
func ParseQuantity(text string) int {
	if m := digitsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	for _, nw := range catalog.NumberWords {
		if strings.Contains(text, nw.Word) {
			return nw.Value
		}
	}

	return 1
}

func ParseCeiling(text string) *float64 {
	m := ceilingRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	return &v
}

func (p *Parser) extractItem(ctx context.Context, text string) string {
	for _, c := range catalog.Categories {
		if strings.Contains(text, c.Item) {
			return c.Item
		}
	}

	if !p.tagger.Available() {
		return ""
	}

	nouns, err := p.tagger.Nouns(ctx, text)
	if err != nil {
		log.Warn("Tagger failed, item left unset", "err", err)
		return ""
	}
	if len(nouns) == 0 {
		return ""
	}

	return strings.ToLower(nouns[len(nouns)-1])
}
