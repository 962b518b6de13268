package bookingcode

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Format(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	code := New(now)

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %q", code)
	}
	if parts[0] != "KST" {
		t.Fatalf("expected KST prefix, got %q", parts[0])
	}
	if parts[1] != "20250601" {
		t.Fatalf("expected date segment 20250601, got %q", parts[1])
	}
	if len(parts[2]) != 6 {
		t.Fatalf("expected 6-char suffix, got %q", parts[2])
	}
}

func TestNew_SuffixVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[New(now)] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected varying suffixes across calls")
	}
}
