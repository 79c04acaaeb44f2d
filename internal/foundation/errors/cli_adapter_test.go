package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "config error", err: ConfigError("must provide output folder").Build(), expected: 1},
		{name: "unclassified error", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains string
	}{
		{name: "config message", err: ConfigError("must provide output folder").Build(), contains: "Error: must provide output folder"},
		{name: "verbose shows category", verbose: true, err: ConfigError("bad").Build(), contains: "[config:fatal] bad"},
		{name: "wrapped cause", err: WrapError(errors.New("eacces"), CategoryFileSystem, "write").Build(), contains: "write: eacces"},
		{name: "unclassified", err: errors.New("unknown"), contains: "Error: unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			if got := adapter.FormatError(tt.err); !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("root path not provided").WithContext("pattern", "**/*.graphql").Build())

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "root path not provided") {
		t.Errorf("stderr missing message: %q", stderr.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("log missing category: %q", logs.String())
	}

	code = -1
	adapter.HandleError(nil)
	if code != -1 {
		t.Error("nil error must not exit")
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.stderr = &stderr
	adapter.exit = func(int) { t.Fatal("Report must not exit") }

	if code := adapter.Report(nil); code != 0 {
		t.Errorf("Report(nil) = %d, want 0", code)
	}
	if code := adapter.Report(RuntimeError("create file watcher").Build()); code != 1 {
		t.Errorf("Report() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error: create file watcher") {
		t.Errorf("stderr missing message: %q", stderr.String())
	}
}
