package virtlist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// printText prints text at (x, y), cell by grapheme cluster, stopping at
// maxWidth. It returns the printed width.
func printText(screen tcell.Screen, text string, x, y, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	printed := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if printed+width > maxWidth {
			break
		}
		screen.Put(x+printed, y, cluster, style)
		printed += width
	}
	return printed
}

// textHeight returns how many rows text occupies when wrapped to width,
// breaking at grapheme boundaries. Wrapping here mirrors what TextItem
// draws, so measured heights and drawn heights agree.
func textHeight(text string, width int) int {
	if width <= 0 {
		return 1
	}
	rows, col := 1, 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := max(uniseg.StringWidth(gr.Str()), 1)
		if col+w > width {
			rows++
			col = 0
		}
		col += w
	}
	return rows
}
