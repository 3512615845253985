package gatekit

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseEmailAddressNormalizes(t *testing.T) {
	email, err := ParseEmailAddress("  Alice@Example.COM ")
	if err != nil {
		t.Fatalf("ParseEmailAddress failed: %v", err)
	}
	if email.String() != "alice@example.com" {
		t.Fatalf("expected normalized address, got %q", email.String())
	}
}

func TestParseEmailAddressRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "alice.example.com"} {
		if _, err := ParseEmailAddress(raw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", raw, err)
		}
	}
}

func TestEmailAddressIsZero(t *testing.T) {
	var zero EmailAddress
	if !zero.IsZero() {
		t.Fatal("expected zero value to report IsZero")
	}

	email, err := ParseEmailAddress("alice@example.com")
	if err != nil {
		t.Fatalf("ParseEmailAddress failed: %v", err)
	}
	if email.IsZero() {
		t.Fatal("expected parsed address to not report IsZero")
	}
}

func TestParsePasswordMinimumLength(t *testing.T) {
	if _, err := ParsePassword("1234567"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 7 bytes, got %v", err)
	}
	pw, err := ParsePassword("12345678")
	if err != nil {
		t.Fatalf("ParsePassword failed for 8 bytes: %v", err)
	}
	if pw.Reveal() != "12345678" {
		t.Fatalf("expected Reveal to return raw secret, got %q", pw.Reveal())
	}
}

func TestPasswordFormattingMasksSecret(t *testing.T) {
	pw, err := ParsePassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("ParsePassword failed: %v", err)
	}

	formatted := fmt.Sprintf("%v %s", pw, pw)
	if strings.Contains(formatted, "hunter2") {
		t.Fatalf("expected masked output, got %q", formatted)
	}
}
