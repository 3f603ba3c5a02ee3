package gbase

import (
	"image/color"

	"aichess/src/base"
)

// --- UI constants ---

const (
	BoardMargin     = 100
	ButtonW     int = 160
	ButtonH     int = 44
	StatusH     int = 28
)

// ---- Styles (palettes) ----

type Palette struct {
	Bg           color.RGBA
	LightSq      color.RGBA
	DarkSq       color.RGBA
	ButtonFill   color.RGBA
	ButtonStroke color.RGBA
	ButtonText   color.RGBA
	MenuText     color.RGBA
	Accent       color.RGBA
	ModalBg      color.RGBA
	Selected     color.RGBA
	LastMove     color.RGBA
	Check        color.RGBA
}

func (p Palette) String() string {
	switch p {
	case LightPalette:
		return "light"
	case DarkPalette:
		return "dark"
	default:
	}
	return ""
}

// PaletteFromString falls back to the light palette.
func PaletteFromString(p string) Palette {
	switch p {
	case "dark":
		return DarkPalette
	default:
	}
	return LightPalette
}

// HighlightColor is the stroke drawn around a square for r.
func (p Palette) HighlightColor(r base.HighlightReason) color.RGBA {
	switch r {
	case base.Selected:
		return p.Selected
	case base.KingInCheck:
		return p.Check
	default:
		return p.LastMove
	}
}

var LightPalette = Palette{
	Bg:           color.RGBA{0xf7, 0xf7, 0xf7, 0xff},
	LightSq:      color.RGBA{0xf0, 0xd9, 0xb5, 0xff},
	DarkSq:       color.RGBA{0xb5, 0x88, 0x63, 0xff},
	ButtonFill:   color.RGBA{0xff, 0xff, 0xff, 0xff},
	ButtonStroke: color.RGBA{0x88, 0x88, 0x88, 0xff},
	ButtonText:   color.RGBA{0x22, 0x22, 0x22, 0xff},
	MenuText:     color.RGBA{0x22, 0x22, 0x22, 0xff},
	Accent:       color.RGBA{0x22, 0x88, 0xcc, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x88},
	Selected:     color.RGBA{0xf2, 0xc9, 0x1c, 0xff},
	LastMove:     color.RGBA{0x2f, 0x7d, 0xe1, 0xff},
	Check:        color.RGBA{0xe0, 0x2b, 0x2b, 0xff},
}

var DarkPalette = Palette{
	Bg:           color.RGBA{0x12, 0x12, 0x12, 0xff},
	LightSq:      color.RGBA{0x9e, 0xa4, 0xab, 0xff},
	DarkSq:       color.RGBA{0x4a, 0x52, 0x5c, 0xff},
	ButtonFill:   color.RGBA{0x20, 0x20, 0x20, 0xff},
	ButtonStroke: color.RGBA{0xdd, 0xdd, 0xdd, 0xff},
	ButtonText:   color.RGBA{0xee, 0xee, 0xee, 0xff},
	MenuText:     color.RGBA{0xee, 0xee, 0xee, 0xff},
	Accent:       color.RGBA{0x2a, 0xa1, 0xd1, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x99},
	Selected:     color.RGBA{0xff, 0xd5, 0x2e, 0xff},
	LastMove:     color.RGBA{0x4a, 0x9b, 0xff, 0xff},
	Check:        color.RGBA{0xff, 0x45, 0x45, 0xff},
}
