package gimages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"aichess/src/base"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var ErrMissingImage = errors.New("missing piece image")

var kinds = []base.PieceKind{base.King, base.Queen, base.Rook, base.Bishop, base.Knight, base.Pawn}

// PieceFile is <dir>/<w|b><kind>.png, e.g. assets/pieces/wknight.png.
func PieceFile(dir string, p base.Piece) string {
	prefix := "w"
	if p.Color == base.Black {
		prefix = "b"
	}
	return filepath.Join(dir, prefix+p.Kind.String()+".png")
}

// CheckPieceFiles fails on the first missing image, before any window opens.
func CheckPieceFiles(dir string) error {
	for _, p := range allPieces() {
		file := PieceFile(dir, p)
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMissingImage, file, err)
		}
	}
	return nil
}

func LoadImageAssets(dir string) (map[base.Piece]*ebiten.Image, error) {
	if err := CheckPieceFiles(dir); err != nil {
		return nil, err
	}
	figureImages := make(map[base.Piece]*ebiten.Image, 12)
	for _, p := range allPieces() {
		img, _, err := ebitenutil.NewImageFromFile(PieceFile(dir, p))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingImage, err)
		}
		figureImages[p] = img
	}
	return figureImages, nil
}

func allPieces() []base.Piece {
	out := make([]base.Piece, 0, 12)
	for _, c := range []base.Color{base.White, base.Black} {
		for _, k := range kinds {
			out = append(out, base.Piece{Color: c, Kind: k})
		}
	}
	return out
}
