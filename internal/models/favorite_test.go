package models

import (
	"strings"
	"testing"
)

func TestFavoriteIDsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		f := NewFileFavorite("/tmp/a.go", "a")
		if seen[f.ID] {
			t.Fatalf("duplicate id %s after %d rapid adds", f.ID, i)
		}
		seen[f.ID] = true
	}
}

func TestFavoriteIDsCarryTypePrefix(t *testing.T) {
	if f := NewFileFavorite("/tmp/a.go", "a"); !strings.HasPrefix(f.ID, "file_") {
		t.Errorf("file favorite id = %q", f.ID)
	}
	c := NewCodeFavorite("/tmp/a.go", "a", 0, "x := 1")
	if !strings.HasPrefix(c.ID, "code_") {
		t.Errorf("code favorite id = %q", c.ID)
	}
	if c.Description != "Line 1" {
		t.Errorf("description = %q, want 1-based line label", c.Description)
	}
}
