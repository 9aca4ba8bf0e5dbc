package util

import (
	"net/http/httptest"
	"testing"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=500", 200},
		{"limit=0", 50},
		{"limit=-3", 50},
		{"limit=abc", 50},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/sensors?"+tt.query, nil)
		if got := ParseLimit(r, 50, 200); got != tt.want {
			t.Errorf("query %q: expected %d, got %d", tt.query, tt.want, got)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", id, ok)
	}
	for _, s := range []string{"", "abc", "0", "-1", "1.5"} {
		if _, ok := ParseID(s); ok {
			t.Errorf("input %q: expected failure", s)
		}
	}
}
