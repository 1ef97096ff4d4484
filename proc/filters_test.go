package proc

import (
	"strings"
	"testing"
)

func TestFilterCatalog(t *testing.T) {
	names := FilterNames()
	if len(names) != 37 {
		t.Fatalf("expected 37 catalog entries, got %d", len(names))
	}
	if names[0] != FilterDefault {
		t.Errorf("expected %q first, got %q", FilterDefault, names[0])
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate filter %q", n)
		}
		seen[n] = true
		if !IsValidFilter(n) {
			t.Errorf("%q should be valid", n)
		}
	}
	for _, n := range []string{"", "Bassboost", "bass boost", "loud"} {
		if IsValidFilter(n) {
			t.Errorf("%q should be invalid", n)
		}
	}
}

func TestToggleFilters(t *testing.T) {
	tests := []struct {
		name      string
		current   []string
		requested []string
		want      []string
	}{
		{name: "enable one", requested: []string{"nightcore"}, want: []string{"nightcore"}},
		{name: "catalog order", requested: []string{"8D", "bassboost"}, want: []string{"bassboost", "8D"}},
		{name: "toggle off", current: []string{"bassboost", "8D"}, requested: []string{"8D"}, want: []string{"bassboost"}},
		{name: "default clears", current: []string{"bassboost", "8D"}, requested: []string{"default"}, want: []string{}},
		{name: "default wins over others", current: []string{"lofi"}, requested: []string{"vaporwave", "default"}, want: []string{}},
		{name: "invalid dropped", current: []string{"lofi"}, requested: []string{"nope"}, want: []string{"lofi"}},
		{name: "duplicate request counts once", requested: []string{"echo", "echo"}, want: []string{"echo"}},
		{name: "trimmed", requested: []string{"  mono "}, want: []string{"mono"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleFilters(tt.current, tt.requested...)
			if got == nil {
				t.Fatal("result should never be nil")
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToggleFiltersTwiceRestores(t *testing.T) {
	start := []string{"bassboost", "karaoke"}
	for _, name := range FilterNames()[1:] {
		got := ToggleFilters(ToggleFilters(start, name), name)
		if !equalStrings(got, start) {
			t.Errorf("toggling %q twice: expected %v, got %v", name, start, got)
		}
	}
}

func TestToggleFiltersDoesNotModifyInput(t *testing.T) {
	current := []string{"8D", "bassboost"}
	ToggleFilters(current, "default")
	if current[0] != "8D" || current[1] != "bassboost" {
		t.Errorf("input was modified: %v", current)
	}
}

func TestFormatFilters(t *testing.T) {
	if got := FormatFilters(nil); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
	if got := FormatFilters([]string{"bassboost", "8D"}); got != "bassboost, 8D" {
		t.Errorf("unexpected %q", got)
	}
}

func TestFilterChain(t *testing.T) {
	if got := FilterChain(nil); got != "" {
		t.Errorf("expected empty chain, got %q", got)
	}
	got := FilterChain([]string{"bassboost", "nightcore"})
	if parts := strings.Split(got, ","); len(parts) < 2 || !strings.HasPrefix(parts[0], "bass=") {
		t.Errorf("unexpected chain %q", got)
	}
}

func TestMatchFilters(t *testing.T) {
	got := MatchFilters("BASS", 0)
	want := []string{"bassboost_low", "bassboost", "bassboost_high"}
	if !equalStrings(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := MatchFilters("", 25); len(got) != 25 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}
