package ghelper

import (
	"aichess/src/base"
	"aichess/ui/gui/ghelper/gfont"
	"aichess/ui/gui/ghelper/gimages"
	"aichess/ui/gui/ghelper/glang"

	"github.com/hajimehoshi/ebiten/v2"
)

type GUIAssetsWorker struct {
	pieceImages map[base.Piece]*ebiten.Image
	fonts       *gfont.Fonts
	lang        *glang.GUILangWorker
}

// NewGUIAssetsWorker fails if any piece image is missing from piecesDir.
func NewGUIAssetsWorker(piecesDir, lang string) (*GUIAssetsWorker, error) {
	imgs, err := gimages.LoadImageAssets(piecesDir)
	if err != nil {
		return nil, err
	}
	fonts, err := gfont.LoadFonts()
	if err != nil {
		return nil, err
	}
	l, err := glang.NewGUILangWorker(lang)
	if err != nil {
		return nil, err
	}
	return &GUIAssetsWorker{pieceImages: imgs, fonts: fonts, lang: l}, nil
}

func (aw *GUIAssetsWorker) Piece(p base.Piece) *ebiten.Image {
	return aw.pieceImages[p]
}

func (aw *GUIAssetsWorker) Fonts() *gfont.Fonts {
	return aw.fonts
}

func (aw *GUIAssetsWorker) Lang() *glang.GUILangWorker {
	return aw.lang
}
