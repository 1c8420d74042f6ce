package shop

import "strings"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Reply is what a handler shows the user: an optional title followed by
// zero or more lines.
type Reply struct {
	Level Level
	Title string
	Lines []string
}

func (r Reply) String() string {
	var sb strings.Builder
	if r.Title != "" {
		sb.WriteString(r.Title)
	}
	for _, line := range r.Lines {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func notice(level Level, title string) Reply {
	return Reply{Level: level, Title: title}
}
