package gimages

import (
	"fmt"
	"os"
	"strings"

	"aichess/src/base"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// RenderPieceSet draws a plain disc-and-letter piece set into dir, one PNG
// of size*size pixels per piece. Real artwork can replace the files later.
func RenderPieceSet(dir string, size int) error {
	if size < 16 {
		return fmt.Errorf("piece size %d too small", size)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(size) * 0.5, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer face.Close()

	for _, p := range allPieces() {
		fill, ink := "#f5f5f0", "#1b1b1b"
		if p.Color == base.Black {
			fill, ink = "#262626", "#f0f0f0"
		}
		s := float64(size)

		dc := gg.NewContext(size, size)
		dc.DrawCircle(s/2, s/2, s*0.42)
		dc.SetHexColor(fill)
		dc.FillPreserve()
		dc.SetHexColor("#808080")
		dc.SetLineWidth(s * 0.04)
		dc.Stroke()

		dc.SetFontFace(face)
		dc.SetHexColor(ink)
		dc.DrawStringAnchored(strings.ToUpper(p.Kind.Letter()), s/2, s/2, 0.5, 0.4)

		if err := dc.SavePNG(PieceFile(dir, p)); err != nil {
			return err
		}
	}
	return nil
}
