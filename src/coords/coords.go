// Package coords maps screen pixels to board squares and back.
package coords

import "aichess/src/base"

// Geometry of the drawn board. Flipped rotates the board 180 degrees
// (black at the bottom).
type Geometry struct {
	OriginX    int
	OriginY    int
	SquareSize int
	Flipped    bool
}

// Fit centers a square board inside a w*h window, keeping margin pixels free
// on each side (min 320px board).
func Fit(w, h, margin int, flipped bool) Geometry {
	size := w - 2*margin
	if size > h-2*margin {
		size = h - 2*margin
	}
	if size < 320 {
		size = 320
	}
	sq := size / 8
	return Geometry{
		OriginX:    (w - sq*8) / 2,
		OriginY:    (h - sq*8) / 2,
		SquareSize: sq,
		Flipped:    flipped,
	}
}

func (g Geometry) Size() int {
	return g.SquareSize * 8
}

func (g Geometry) Contains(px, py int) bool {
	return px >= g.OriginX && py >= g.OriginY && px < g.OriginX+g.Size() && py < g.OriginY+g.Size()
}

// PixelToSquare returns false for pixels outside the board.
func (g Geometry) PixelToSquare(px, py int) (base.Square, bool) {
	if g.SquareSize <= 0 || !g.Contains(px, py) {
		return base.NoSquare, false
	}
	col := (px - g.OriginX) / g.SquareSize
	row := (py - g.OriginY) / g.SquareSize

	// row 0 on screen is rank 8 unless flipped
	file, rank := col, 7-row
	if g.Flipped {
		file, rank = 7-col, row
	}
	return base.NewSquare(file, rank), true
}

// SquareToPixel returns the top-left pixel of sq.
func (g Geometry) SquareToPixel(sq base.Square) (int, int) {
	col, row := int(sq.File), 7-int(sq.Rank)
	if g.Flipped {
		col, row = 7-col, 7-row
	}
	return g.OriginX + col*g.SquareSize, g.OriginY + row*g.SquareSize
}
