package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrTransient, "gateway", "diagnose-skin", "request failed", base)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "transient failure: gateway: diagnose-skin: request failed: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "gateway", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("nil marker should default to transient: %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrConfiguration, "", "", "", nil)
	if err.Error() != "configuration error: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
		fatal     bool
	}{
		{Wrap(ErrTransient, "g", "op", "", nil), true, false},
		{Wrap(ErrMalformedResponse, "g", "op", "", nil), true, false},
		{Wrap(ErrConfiguration, "g", "op", "", nil), false, true},
		{Wrap(ErrDeviceUnavailable, "capture", "acquire", "", nil), false, false},
		{fmt.Errorf("plain: %w", errors.New("x")), false, false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.retryable {
			t.Fatalf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.retryable)
		}
		if got := IsFatalConfig(tc.err); got != tc.fatal {
			t.Fatalf("IsFatalConfig(%v) = %v, want %v", tc.err, got, tc.fatal)
		}
	}
}
