package habits

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Drink Water", "drink-water"},
		{"  Read -- 20 pages!  ", "read-20-pages"},
		{"日本語", "habit"},
		{"", "habit"},
		{strings.Repeat("a", 50), strings.Repeat("a", maxSlugLen)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := slugify(tt.in); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewHabitIDUnique(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := newHabitID("Water", now)
	b := newHabitID("Water", now)
	if a == b {
		t.Errorf("ids collided: %s", a)
	}
	if !strings.HasPrefix(a, "water-") {
		t.Errorf("id %q should start with the slug", a)
	}
}
