package shop

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopvox/internal/catalog"
)

// SuggestDepth is how many of the latest purchases Suggest surfaces.
const SuggestDepth = 3

const (
	MsgEmptyList    = "🛒 Your list is empty."
	MsgListTitle    = "🛒 Shopping List"
	MsgNoHistory    = "No history yet."
	MsgResultsTitle = "🔎 Results"
	MsgNoMatches    = "No matches found."
	MsgUnrecognized = "⚠️ Could not understand your command."
)

func Add(s Session, item string, qty int, today time.Time) (Session, Reply) {
	if qty < 1 {
		qty = 1
	}
	cat := catalog.CategoryOf(item)

	next := s.Clone()
	next.List = append(next.List, Entry{Item: item, Quantity: qty, Category: cat})
	next.History = append(next.History, Purchase{Item: item, Date: today.Format(DateLayout)})

	return next, notice(LevelSuccess, fmt.Sprintf("✅ Added %d × %s (%s)", qty, item, cat))
}

func Remove(s Session, item string) (Session, Reply) {
	next := s.Clone()
	next.List = next.List[:0]
	for _, e := range s.List {
		if e.Item != item {
			next.List = append(next.List, e)
		}
	}

	if len(next.List) < len(s.List) {
		return next, notice(LevelWarning, fmt.Sprintf("❌ Removed %s", item))
	}
	return s, notice(LevelInfo, fmt.Sprintf("%s not found in your list", item))
}

func Show(s Session) Reply {
	if len(s.List) == 0 {
		return notice(LevelInfo, MsgEmptyList)
	}

	lines := make([]string, 0, len(s.List))
	for _, e := range s.List {
		lines = append(lines, FormatEntry(e))
	}
	return Reply{Level: LevelInfo, Title: MsgListTitle, Lines: lines}
}

func Suggest(s Session) Reply {
	if len(s.History) == 0 {
		return notice(LevelInfo, MsgNoHistory)
	}

	recent := s.History[max(0, len(s.History)-SuggestDepth):]
	items := make([]string, 0, len(recent))
	for _, p := range recent {
		items = append(items, p.Item)
	}
	return notice(LevelInfo, "💡 You may need: "+strings.Join(items, ", "))
}

// Find lists the products whose name contains item and, when ceiling is
// set, whose price is at most *ceiling.
func Find(products []catalog.Product, item string, ceiling *float64) Reply {
	var lines []string
	for _, p := range products {
		if !strings.Contains(p.Name, item) {
			continue
		}
		if ceiling != nil && p.Price > *ceiling {
			continue
		}
		lines = append(lines, FormatProduct(p))
	}

	if len(lines) == 0 {
		return notice(LevelInfo, MsgNoMatches)
	}
	return Reply{Level: LevelInfo, Title: MsgResultsTitle, Lines: lines}
}

func FormatEntry(e Entry) string {
	return fmt.Sprintf("- %d × %s (%s)", e.Quantity, e.Item, e.Category)
}

func FormatProduct(p catalog.Product) string {
	return fmt.Sprintf("- %s (%s) - $%s / %s", p.Name, p.Brand, strconv.FormatFloat(p.Price, 'f', -1, 64), p.Unit)
}
