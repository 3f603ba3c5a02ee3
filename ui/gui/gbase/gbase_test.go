package gbase

import (
	"testing"

	"aichess/src/base"
)

func TestPaletteFromString(t *testing.T) {
	tests := map[string]Palette{"light": LightPalette, "dark": DarkPalette, "": LightPalette, "neon": LightPalette}
	for in, want := range tests {
		if got := PaletteFromString(in); got != want {
			t.Errorf("PaletteFromString(%q) = %s", in, got)
		}
	}
}

func TestHighlightColorsDiffer(t *testing.T) {
	for _, p := range []Palette{LightPalette, DarkPalette} {
		sel := p.HighlightColor(base.Selected)
		last := p.HighlightColor(base.LastMoveTo)
		check := p.HighlightColor(base.KingInCheck)
		if sel == last || sel == check || last == check {
			t.Errorf("%s palette reuses a highlight color", p)
		}
		if p.HighlightColor(base.LastMoveFrom) != last {
			t.Errorf("%s palette: both last move ends should match", p)
		}
	}
}
