package shop

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the on-disk format of Purchase.Date.
const DateLayout = time.DateOnly

type Entry struct {
	Item     string
	Quantity int
	Category string
}

// Purchase is one append-only history record, created per successful add.
type Purchase struct {
	Item string `json:"item"`
	Date string `json:"date"`
}

// Session is the state of one interactive session. It is a plain value:
// handlers take a Session and return the next one.
type Session struct {
	ID      string
	List    []Entry
	History []Purchase
}

func NewSession(history []Purchase) Session {
	return Session{
		ID:      uuid.NewString(),
		History: history,
	}
}

// Clone copies the slices so a returned Session never aliases its input.
func (s Session) Clone() Session {
	return Session{
		ID:      s.ID,
		List:    append([]Entry(nil), s.List...),
		History: append([]Purchase(nil), s.History...),
	}
}
