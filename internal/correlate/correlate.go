// Package correlate implements request-ID correlation filtering: given
// a time-ordered event sequence and a pattern, it keeps every event that
// belongs to the same request as an event whose message matches.
package correlate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

// requestIDRegex matches AWS request IDs: 8-4-4-4-12 groups of
// lowercase hex characters.
var requestIDRegex = regexp.MustCompile(`([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`)

// InvalidPatternError reports a filter pattern that failed to compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// ExtractRequestID returns the first request ID embedded in a message,
// or false when the message carries none.
func ExtractRequestID(message string) (string, bool) {
	id := requestIDRegex.FindString(message)
	if id == "" {
		return "", false
	}
	return id, true
}

// Compile compiles a filter pattern, reporting failures as
// *InvalidPatternError.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Filter selects events correlated with a pattern match. It compiles
// pattern (failing before any scan on error), collects the request IDs
// of all events whose message matches, then returns every event whose
// own message carries one of those IDs, preserving input order.
//
// An event whose message carries no request ID is always dropped, even
// when it matched the pattern itself: the filter anchors on ID-bearing
// messages (START/END markers), so anchorless matches only pull in
// their request's other events via those markers.
func Filter(events []cwl.Event, pattern string) ([]cwl.Event, error) {
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	return FilterWith(events, re), nil
}

// FilterWith is Filter with a pre-compiled pattern. Messages are
// whitespace-trimmed before matching and extraction; selected events
// carry the trimmed message.
func FilterWith(events []cwl.Event, re *regexp.Regexp) []cwl.Event {
	trimmed := make([]cwl.Event, len(events))
	for i, ev := range events {
		ev.Message = strings.TrimSpace(ev.Message)
		trimmed[i] = ev
	}

	ids := TargetIDs(trimmed, re)
	return SelectByIDs(trimmed, ids)
}

// TargetIDs collects the request IDs of all events whose message
// matches re. A matching message with no extractable ID contributes
// nothing to the set.
func TargetIDs(events []cwl.Event, re *regexp.Regexp) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, ev := range events {
		if !re.MatchString(ev.Message) {
			continue
		}
		if id, ok := ExtractRequestID(ev.Message); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// SelectByIDs returns the events whose message carries a request ID in
// ids, in input order. Events with no extractable ID are dropped.
func SelectByIDs(events []cwl.Event, ids map[string]struct{}) []cwl.Event {
	if len(ids) == 0 {
		return nil
	}

	var selected []cwl.Event
	for _, ev := range events {
		id, ok := ExtractRequestID(ev.Message)
		if !ok {
			continue
		}
		if _, want := ids[id]; want {
			selected = append(selected, ev)
		}
	}
	return selected
}
