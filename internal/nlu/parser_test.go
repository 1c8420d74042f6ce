package nlu

import (
	"context"
	"errors"
	"testing"
)

type fakeTagger struct {
	nouns []string
	err   error
	calls int
}

func (f *fakeTagger) Available() bool { return true }

func (f *fakeTagger) Nouns(context.Context, string) ([]string, error) {
	f.calls++
	return f.nouns, f.err
}

func TestParse_FindWithCeiling(t *testing.T) {
	cmd := NewParser(nil).Parse(context.Background(), "find apples under 5")

	if cmd.Intent != IntentFind {
		t.Errorf("intent = %q, want %q", cmd.Intent, IntentFind)
	}
	if cmd.Item != "apple" {
		t.Errorf("item = %q, want %q", cmd.Item, "apple")
	}
	if cmd.Ceiling == nil || *cmd.Ceiling != 5.0 {
		t.Errorf("ceiling = %v, want 5", cmd.Ceiling)
	}
}

func TestParse_CaseFolded(t *testing.T) {
	cmd := NewParser(nil).Parse(context.Background(), "Please ADD Milk")
	if cmd.Intent != IntentAdd || cmd.Item != "milk" || cmd.Quantity != 1 {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestClassifyIntent_RulesTable(t *testing.T) {
	for _, r := range Rules {
		for _, kw := range r.Keywords {
			if got := ClassifyIntent(kw + " something"); got != r.Intent {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", kw, got, r.Intent)
			}
		}
	}
}

func TestClassifyIntent_Precedence(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"remove milk and add bread", IntentAdd},
		{"delete the list", IntentRemove},
		{"show me where to find rice", IntentShow},
		{"search and recommend", IntentFind},
		{"recommend something", IntentSuggest},
		{"hello there", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyIntent(tt.text); got != tt.want {
			t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"add 3 bananas two", 3},
		{"add two bananas", 2},
		{"add milk", 1},
		{"add 12 eggs", 12},
		{"add 0 milk", 1},
		{"add 0 milk three", 3},
		{"add 99999999999999999999 milk", 1},
		{"ask someone", 1},
		{"add ten apples", 10},
	}
	for _, tt := range tests {
		if got := ParseQuantity(tt.text); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseCeiling(t *testing.T) {
	tests := []struct {
		text string
		want *float64
	}{
		{"find toothpaste below $2.2", ptr(2.2)},
		{"find toothpaste less than 4.8", ptr(4.8)},
		{"find milk under$ 3", ptr(3)},
		{"find milk under .", nil},
		{"find milk", nil},
	}
	for _, tt := range tests {
		got := ParseCeiling(tt.text)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseCeiling(%q) = %v, want nil", tt.text, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("ParseCeiling(%q) = %v, want %v", tt.text, got, *tt.want)
		}
	}
}

func TestParse_TaggerFallback(t *testing.T) {
	tagger := &fakeTagger{nouns: []string{"loaf", "Tomatoes"}}
	cmd := NewParser(tagger).Parse(context.Background(), "add a loaf of tomatoes")

	if cmd.Item != "tomatoes" {
		t.Errorf("item = %q, want %q", cmd.Item, "tomatoes")
	}
}

func TestParse_TaggerSkippedOnCatalogHit(t *testing.T) {
	tagger := &fakeTagger{nouns: []string{"carton"}}
	cmd := NewParser(tagger).Parse(context.Background(), "add a carton of milk")

	if cmd.Item != "milk" {
		t.Errorf("item = %q, want %q", cmd.Item, "milk")
	}
	if tagger.calls != 0 {
		t.Errorf("tagger called %d times, want 0", tagger.calls)
	}
}

func TestParse_TaggerErrorLeavesItemUnset(t *testing.T) {
	tagger := &fakeTagger{err: errors.New("boom")}
	cmd := NewParser(tagger).Parse(context.Background(), "add tomatoes")

	if cmd.Item != "" {
		t.Errorf("item = %q, want empty", cmd.Item)
	}
	if cmd.Intent != IntentAdd {
		t.Errorf("intent = %q, want %q", cmd.Intent, IntentAdd)
	}
}

func TestParse_NoTaggerNoItem(t *testing.T) {
	cmd := NewParser(NoopTagger{}).Parse(context.Background(), "add tomatoes")
	if cmd.Item != "" {
		t.Errorf("item = %q, want empty", cmd.Item)
	}
}

func ptr(v float64) *float64 { return &v }
