package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", NewUsageError("bad flag"), ExitUsage},
		{"not found", NewNotFoundError("no such group"), ExitNotFound},
		{"permission", NewPermissionError("denied"), ExitPermission},
		{"network", NewNetworkError("timeout"), ExitNetwork},
		{"internal", NewInternalError("boom"), ExitInternal},
		{"plain error", errors.New("whatever"), ExitInternal},
		{"wrapped cli error", fmt.Errorf("outer: %w", NewNotFoundError("inner")), ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNetworkErrorRecoverable(t *testing.T) {
	if !NewNetworkError("x").Recover {
		t.Error("network errors must be recoverable")
	}
	if NewUsageError("x").Recover {
		t.Error("usage errors must not be recoverable")
	}
}

func TestFormatError_Text(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, NewUsageError("bad flag"), false)
	if got := buf.String(); got != "error: bad flag\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatError_JSON(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, NewNotFoundError("no such group"), true)

	var ce CLIError
	if err := json.Unmarshal(buf.Bytes(), &ce); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if ce.Code != ExitNotFound || ce.Type != "not_found" {
		t.Errorf("got %+v", ce)
	}
}

func TestFormatError_JSONPlainError(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, errors.New("boom"), true)
	if !strings.Contains(buf.String(), `"internal"`) {
		t.Errorf("plain errors must be wrapped as internal, got %q", buf.String())
	}
}

func TestFormatError_Nil(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, nil, false)
	if buf.Len() != 0 {
		t.Errorf("nil error must write nothing, got %q", buf.String())
	}
}
