package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveWithin(t *testing.T) {
	base := t.TempDir()

	got, err := ResolveWithin(base, "reports", "example.com.json")
	if err != nil {
		t.Fatalf("ResolveWithin: %v", err)
	}
	if want := filepath.Join(base, "reports", "example.com.json"); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestResolveWithinRejectsEscape(t *testing.T) {
	base := t.TempDir()

	if _, err := ResolveWithin(base, "..", "outside.json"); !errors.Is(err, ErrPathEscape) {
		t.Fatalf("error = %v, want ErrPathEscape", err)
	}
	if _, err := ResolveWithin(base, "../../etc/passwd"); !errors.Is(err, ErrPathEscape) {
		t.Fatalf("error = %v, want ErrPathEscape", err)
	}
}

func TestResolveWithinRequiresBase(t *testing.T) {
	if _, err := ResolveWithin(""); err == nil {
		t.Fatal("expected error for empty base")
	}
}

func TestIsValidPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/reports", true},
		{"reports", true},
		{"", false},
		{"../escape", false},
		{"a/../../b", false},
	}
	for _, tt := range tests {
		if got := IsValidPath(tt.path); got != tt.want {
			t.Errorf("IsValidPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
