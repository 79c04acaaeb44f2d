package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "missing output directory").
			WithSeverity(SeverityFatal).
			WithContext("flag", "--output").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "missing output directory" {
			t.Errorf("unexpected message %q", err.Message())
		}

		flag, exists := err.Context().GetString("flag")
		if !exists || flag != "--output" {
			t.Errorf("expected context flag=--output, got %v", flag)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := ResolutionError("project root not found").WithContext("path", "a/b.graphql").Build()
		wrapped := fmt.Errorf("process: %w", err)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryResolution) {
			t.Error("expected resolution category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified error to map to internal")
		}
		if err.IsFatal() {
			t.Error("resolution errors are per-file, not fatal")
		}
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "write artifact").Build()
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the cause")
		}
	})
}

func TestErrorCategory_PerFile(t *testing.T) {
	cases := map[ErrorCategory]bool{
		CategoryResolution: true,
		CategoryTransform:  true,
		CategoryFileSystem: true,
		CategoryConfig:     false,
		CategoryInternal:   false,
	}
	for cat, want := range cases {
		if got := cat.PerFile(); got != want {
			t.Errorf("%s.PerFile() = %v, want %v", cat, got, want)
		}
	}
}

func TestErrorContext_Merge(t *testing.T) {
	base := ErrorContext{"a": 1, "b": 2}
	merged := base.Merge(ErrorContext{"b": 3})
	if v, _ := merged.Get("b"); v != 3 {
		t.Errorf("expected b=3, got %v", v)
	}
	if v, _ := base.Get("b"); v != 2 {
		t.Error("merge must not mutate the receiver")
	}
}
