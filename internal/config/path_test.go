package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	t.Setenv("PENNY_TEST_DIR", "/tmp/penny")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain path", "/var/lib/penny.db", "/var/lib/penny.db"},
		{"tilde prefix", "~/data/penny.db", filepath.Join(home, "data/penny.db")},
		{"bare tilde", "~", home},
		{"env var", "$PENNY_TEST_DIR/penny.db", "/tmp/penny/penny.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
