// Package render formats filtered log events for terminal output.
package render

import (
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

// PrefixMode selects the timestamp prefix applied to each line.
type PrefixMode int

const (
	PrefixNone PrefixMode = iota
	PrefixMillis          // "(1697890123456) message"
	PrefixISO             // "(2023-10-21T12:08:43.456Z) message"
)

var matchStyle = lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0"))

// Renderer renders events as output lines.
type Renderer struct {
	Prefix    PrefixMode
	Highlight *regexp.Regexp // direct-match highlighting, nil = off
}

// Line formats one event. When Highlight is set and the message matches,
// the matching spans are styled.
func (r *Renderer) Line(ev cwl.Event) string {
	msg := ev.Message
	if r.Highlight != nil {
		msg = r.Highlight.ReplaceAllStringFunc(msg, func(m string) string {
			return matchStyle.Render(m)
		})
	}

	switch r.Prefix {
	case PrefixMillis:
		return fmt.Sprintf("(%d) %s", ev.Timestamp, msg)
	case PrefixISO:
		return fmt.Sprintf("(%s) %s", ISOTimestamp(ev.Timestamp), msg)
	default:
		return msg
	}
}

// ISOTimestamp renders epoch milliseconds as UTC ISO8601 with
// millisecond precision.
func ISOTimestamp(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02T15:04:05.000Z")
}
