package gfont

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Fonts struct {
	Small  font.Face
	Normal font.Face
	Bold   font.Face // titles and the game-over banner
}

// LoadFonts builds faces from the Go fonts bundled with x/image, so no font
// files are needed next to the binary.
func LoadFonts() (*Fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}

	face := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	fonts := &Fonts{}
	if fonts.Small, err = face(regular, 12); err != nil {
		return nil, err
	}
	if fonts.Normal, err = face(regular, 16); err != nil {
		return nil, err
	}
	if fonts.Bold, err = face(bold, 36); err != nil {
		return nil, err
	}
	return fonts, nil
}
