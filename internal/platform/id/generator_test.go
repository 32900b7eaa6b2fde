package id

import (
	"strings"
	"testing"
)

func TestNewInviteCode(t *testing.T) {
	t.Parallel()

	code, err := NewInviteCode(8)
	if err != nil {
		t.Fatalf("new invite code: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("unexpected code length: %d", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(inviteCodeAlphabet, c) {
			t.Fatalf("code %q contains character outside alphabet", code)
		}
	}

	if _, err := NewInviteCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestNewNumericCode(t *testing.T) {
	t.Parallel()

	code, err := NewNumericCode(6)
	if err != nil {
		t.Fatalf("new numeric code: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("unexpected code length: %d", len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("code %q contains non-digit", code)
		}
	}

	if _, err := NewNumericCode(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
	if _, err := NewNumericCode(19); err == nil {
		t.Fatal("expected error for too many digits")
	}
}
