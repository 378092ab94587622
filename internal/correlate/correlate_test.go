package correlate

import (
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

const (
	idA = "3f1a2b3c-0001-4abc-8def-0123456789ab"
	idB = "3f1a2b3c-0002-4abc-8def-0123456789ab"
)

func ev(ts int64, msg string) cwl.Event {
	return cwl.Event{Timestamp: ts, Message: msg}
}

func messages(events []cwl.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Message
	}
	return out
}

func TestExtractRequestID(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		wantID string
		wantOK bool
	}{
		{"start marker", "START RequestId: " + idA + " Version: $LATEST", idA, true},
		{"embedded mid-message", "processed " + idB + " in 12ms", idB, true},
		{"no id", "work done", "", false},
		{"empty message", "", "", false},
		{"uppercase hex rejected", "3F1A2B3C-0001-4ABC-8DEF-0123456789AB", "", false},
		{"first of two ids wins", idA + " retried as " + idB, idA, true},
		{"too-short groups rejected", "12345-0001-4abc-8def-0123456789ab", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractRequestID(tt.msg)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractRequestID(%q) = (%q, %v), want (%q, %v)", tt.msg, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestFilter_BilledDurationScenario(t *testing.T) {
	events := []cwl.Event{
		ev(1, "START id="+idA),
		ev(2, "work done"),
		ev(3, "END id="+idA+" Billed Duration: 1500 ms"),
		ev(4, "START id="+idB),
		ev(5, "END id="+idB+" Billed Duration: 10 ms"),
	}

	got, err := Filter(events, `Billed Duration: [0-9]{4,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTS := []int64{1, 3}
	if len(got) != len(wantTS) {
		t.Fatalf("got %d events %v, want %d", len(got), messages(got), len(wantTS))
	}
	for i, ts := range wantTS {
		if got[i].Timestamp != ts {
			t.Errorf("event %d: timestamp = %d, want %d", i, got[i].Timestamp, ts)
		}
	}
}

func TestFilter_NoMatches(t *testing.T) {
	events := []cwl.Event{
		ev(1, "START id="+idA),
		ev(2, "END id="+idA),
	}

	got, err := Filter(events, `no such text`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}

func TestFilter_AllMatchAllAnchored(t *testing.T) {
	events := []cwl.Event{
		ev(1, "req "+idA+" accepted"),
		ev(2, "req "+idA+" served"),
		ev(3, "req "+idB+" accepted"),
	}

	got, err := Filter(events, `req`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("got %v, want input unchanged", messages(got))
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	got, err := Filter(nil, `anything`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}

func TestFilter_InvalidPattern(t *testing.T) {
	_, err := Filter([]cwl.Event{ev(1, "x")}, `(unbalanced`)
	if err == nil {
		t.Fatal("expected error")
	}
	var ipe *InvalidPatternError
	if !errors.As(err, &ipe) {
		t.Fatalf("error = %T, want *InvalidPatternError", err)
	}
	if ipe.Pattern != `(unbalanced` {
		t.Errorf("Pattern = %q, want the offending pattern", ipe.Pattern)
	}
}

func TestFilter_AnchorlessMatchDropped(t *testing.T) {
	// The matching message carries no request ID and no other message
	// anchors its unit, so nothing is selected.
	events := []cwl.Event{
		ev(1, "timeout while calling upstream"),
		ev(2, "unrelated "+idA),
	}

	got, err := Filter(events, `timeout`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty: anchorless matches must not select events", messages(got))
	}
}

func TestFilter_AnchorPullsInWholeRequest(t *testing.T) {
	// The match itself is anchorless but shares a request with anchored
	// START/END markers; the markers are selected, the anchorless
	// messages are not.
	events := []cwl.Event{
		ev(1, "START RequestId: "+idA),
		ev(2, "timeout while calling upstream"),
		ev(3, "END RequestId: "+idA),
		ev(4, "START RequestId: "+idB),
		ev(5, "END RequestId: "+idB),
	}

	got, err := Filter(events, idA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTS := []int64{1, 3}
	if len(got) != len(wantTS) {
		t.Fatalf("got %d events %v, want %d", len(got), messages(got), len(wantTS))
	}
	for i, ts := range wantTS {
		if got[i].Timestamp != ts {
			t.Errorf("event %d: timestamp = %d, want %d", i, got[i].Timestamp, ts)
		}
	}
}

func TestFilter_OrderPreservedNoDuplicates(t *testing.T) {
	events := []cwl.Event{
		ev(5, "a "+idA),
		ev(3, "b "+idB),
		ev(9, "c "+idA),
		ev(1, "d "+idB),
	}

	got, err := Filter(events, `[abcd] `)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// output must be a subsequence of input: same relative order
	j := 0
	for _, in := range events {
		if j < len(got) && got[j].Timestamp == in.Timestamp {
			j++
		}
	}
	if j != len(got) {
		t.Errorf("output is not an order-preserving subsequence of input")
	}
	if len(got) != len(events) {
		t.Errorf("got %d events, want all %d", len(got), len(events))
	}
}

func TestFilter_TrimsMessages(t *testing.T) {
	events := []cwl.Event{
		ev(1, "  padded "+idA+" \n"),
	}

	got, err := Filter(events, `padded`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Message != "padded "+idA {
		t.Errorf("message = %q, want trimmed", got[0].Message)
	}
}

func TestTargetIDs_StableUnderFiltering(t *testing.T) {
	// The target set computed from the filtered output must equal the
	// target set computed from the full input.
	events := []cwl.Event{
		ev(1, "START "+idA),
		ev(2, "warn: slow response "+idA),
		ev(3, "START "+idB),
		ev(4, "ok "+idB),
	}

	re := regexp.MustCompile(`warn:`)
	full := TargetIDs(events, re)

	filtered, err := Filter(events, `warn:`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := TargetIDs(filtered, re)

	if !reflect.DeepEqual(full, again) {
		t.Errorf("target set changed after filtering: %v vs %v", full, again)
	}
}

func TestSelectByIDs_EmptySet(t *testing.T) {
	events := []cwl.Event{ev(1, "x "+idA)}
	if got := SelectByIDs(events, nil); got != nil {
		t.Errorf("got %v, want nil for empty target set", got)
	}
}
