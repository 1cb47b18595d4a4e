package virtlist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// TextItem is a ready-made Item rendering text wrapped at grapheme
// boundaries. Its measured height is the number of wrapped rows for the
// width it is asked about, so estimates converge to real heights after one
// measurement pass.
type TextItem struct {
	*Box

	text  string
	style tcell.Style
}

// NewTextItem returns a text item.
func NewTextItem(text string) *TextItem {
	return &TextItem{
		Box:   NewBox(),
		text:  text,
		style: tcell.StyleDefault.Foreground(Styles.TextColor),
	}
}

// SetText sets the item's text.
func (t *TextItem) SetText(text string) *TextItem {
	if t.text != text {
		t.text = text
		t.MarkDirty()
	}
	return t
}

// SetStyle sets the text style.
func (t *TextItem) SetStyle(style tcell.Style) *TextItem {
	if t.style != style {
		t.style = style
		t.MarkDirty()
	}
	return t
}

// Height reports how many rows the wrapped text occupies at the given
// width.
func (t *TextItem) Height(width int) int {
	return textHeight(t.text, width)
}

// Draw draws this primitive onto the screen.
func (t *TextItem) Draw(screen tcell.Screen) {
	x, y, width, height := t.GetRect()
	if width <= 0 || height <= 0 {
		return
	}

	// Wrap exactly like textHeight so the drawn rows match the measured
	// height.
	row, col := 0, 0
	gr := uniseg.NewGraphemes(t.text)
	for gr.Next() {
		cluster := gr.Str()
		w := max(uniseg.StringWidth(cluster), 1)
		if col+w > width {
			row++
			col = 0
		}
		if row >= height {
			break
		}
		screen.Put(x+col, y+row, cluster, t.style)
		col += w
	}
}

var _ Item = &TextItem{}
