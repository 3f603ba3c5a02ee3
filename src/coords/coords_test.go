package coords

import (
	"testing"

	"aichess/src/base"
)

func TestPixelToSquare(t *testing.T) {
	g := Geometry{OriginX: 0, OriginY: 0, SquareSize: 75}

	tests := []struct {
		name   string
		x, y   int
		geom   Geometry
		want   string
		wantOk bool
	}{
		{name: "top-left is a8", x: 10, y: 10, geom: g, want: "a8", wantOk: true},
		{name: "bottom-left is a1", x: 5, y: 599, geom: g, want: "a1", wantOk: true},
		{name: "bottom-right is h1", x: 599, y: 599, geom: g, want: "h1", wantOk: true},
		{name: "e2", x: 4*75 + 30, y: 6*75 + 30, geom: g, want: "e2", wantOk: true},
		{name: "right edge is outside", x: 600, y: 10, geom: g, wantOk: false},
		{name: "negative is outside", x: -1, y: 10, geom: g, wantOk: false},
		{name: "flipped top-left is h1", x: 10, y: 10, geom: Geometry{SquareSize: 75, Flipped: true}, want: "h1", wantOk: true},
		{name: "offset origin", x: 105, y: 55, geom: Geometry{OriginX: 100, OriginY: 50, SquareSize: 10}, want: "a8", wantOk: true},
		{name: "offset origin miss", x: 99, y: 55, geom: Geometry{OriginX: 100, OriginY: 50, SquareSize: 10}, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq, ok := tt.geom.PixelToSquare(tt.x, tt.y)
			if ok != tt.wantOk {
				t.Fatalf("PixelToSquare(%d, %d) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOk)
			}
			if !ok {
				if sq != base.NoSquare {
					t.Errorf("miss returned %v, want NoSquare", sq)
				}
				return
			}
			if sq.String() != tt.want {
				t.Errorf("PixelToSquare(%d, %d) = %v, want %s", tt.x, tt.y, sq, tt.want)
			}
		})
	}
}

func TestSquareToPixelInverse(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		g := Geometry{OriginX: 37, OriginY: 12, SquareSize: 64, Flipped: flipped}
		for i := 0; i < 64; i++ {
			sq := base.SquareFromIndex(i)
			x, y := g.SquareToPixel(sq)
			got, ok := g.PixelToSquare(x+g.SquareSize/2, y+g.SquareSize/2)
			if !ok || got != sq {
				t.Fatalf("flipped=%v: round trip of %v gave %v (ok=%v)", flipped, sq, got, ok)
			}
		}
	}
}

func TestFit(t *testing.T) {
	g := Fit(1000, 700, 50, false)
	if g.Size() > 600 || g.Size() < 592 {
		t.Errorf("Fit board size = %d", g.Size())
	}
	if g.OriginX+g.Size()/2 < 495 || g.OriginX+g.Size()/2 > 505 {
		t.Errorf("board is not centered horizontally: origin %d size %d", g.OriginX, g.Size())
	}
	if small := Fit(100, 100, 10, false); small.Size() != 320 {
		t.Errorf("Fit did not clamp to minimum: %d", small.Size())
	}
}
