package types

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"validation", NewValidationError("start", "bad"), ExitValidation},
		{"wrapped auth", fmt.Errorf("collecting: %w", &AuthError{Source: "apt-trade", Status: 401}), ExitAuth},
		{"upstream", &UpstreamError{Source: "population", Attempts: 3, Err: errors.New("boom")}, ExitUpstream},
		{"io", &IOError{Op: "write", Path: "x.xlsx", Err: errors.New("disk full")}, ExitIO},
		{"no records", fmt.Errorf("price index: %w", ErrNoRecords), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &UpstreamError{Source: "molit-stats", Attempts: 3, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("UpstreamError should unwrap to its cause")
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1500ms")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := time.Duration(d); got != 1500*time.Millisecond {
		t.Errorf("got %v, want 1.5s", got)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
