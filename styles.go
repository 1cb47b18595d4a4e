package virtlist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	BackgroundColor tcell.Color // Main background color for primitives.
	BorderColor     tcell.Color // Box borders.
	TitleColor      tcell.Color // Box titles.
	TextColor       tcell.Color // Primary text.
	ThumbColor      tcell.Color // Scrollbar thumb.
	TrackColor      tcell.Color // Scrollbar track.
}

// Styles defines the theme for applications. The default is a black
// background with basic colors.
var Styles = Theme{
	BackgroundColor: color.Black,
	BorderColor:     color.White,
	TitleColor:      color.White,
	TextColor:       color.White,
	ThumbColor:      color.White,
	TrackColor:      color.Gray,
}
