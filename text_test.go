package virtlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextHeight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{"empty text is one row", "", 10, 1},
		{"fits on one row", "hello", 10, 1},
		{"exact width stays on one row", "hello", 5, 1},
		{"one over wraps", "hello!", 5, 2},
		{"long run wraps repeatedly", strings.Repeat("x", 25), 10, 3},
		{"width one stacks every cluster", "abc", 1, 3},
		{"zero width degrades to one row", "hello", 0, 1},
		{"wide runes count double", "日本語", 4, 2},
		{"combining marks stay with their base", "ééé", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, textHeight(tt.text, tt.width))
		})
	}
}

func TestTextItemHeightMatchesTextHeight(t *testing.T) {
	item := NewTextItem("the quick brown fox jumps over the lazy dog")
	for _, width := range []int{1, 7, 13, 44, 80} {
		require.Equal(t, textHeight("the quick brown fox jumps over the lazy dog", width), item.Height(width))
	}
}
