package draw

import (
	"slices"
	"testing"
)

func TestSplitLegend(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "single word",
			text: "Esc",
			want: []string{"Esc"},
		},
		{
			name: "single space splits",
			text: "Page Up",
			want: []string{"Page", "Up"},
		},
		{
			name: "double space preserved as literal",
			text: "foo  bar baz",
			want: []string{"foo bar", "baz"},
		},
		{
			name: "leading double space",
			text: "  a",
			want: []string{" a"},
		},
		{
			name: "trailing single space",
			text: "a ",
			want: []string{"a"},
		},
		{
			name: "tab splits",
			text: "a\tb",
			want: []string{"a", "b"},
		},
		{
			name: "four spaces collapse to two literals",
			text: "a    b",
			want: []string{"a  b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLegend(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitLegend(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassAttr(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
		want    string
	}{
		{
			name:    "all set",
			classes: []string{"mods", "key"},
			want:    ` class="mods key"`,
		},
		{
			name:    "empty entries skipped",
			classes: []string{"", "key"},
			want:    ` class="key"`,
		},
		{
			name:    "nothing left",
			classes: []string{"", ""},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classAttr(tt.classes...); got != tt.want {
				t.Errorf("classAttr(%v) = %q, want %q", tt.classes, got, tt.want)
			}
		})
	}
}
