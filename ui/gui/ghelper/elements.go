package ghelper

import (
	"math"

	"aichess/ui/gui/gbase"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// ---- UI ELEMENTS ----

// ---- Button ----

type Button struct {
	Label      string
	X, Y, W, H int
	Image      *ebiten.Image // pre-rendered rounded rect with stroke
	Disabled   bool

	// animation state
	Hover   bool // mouse over
	Pressed bool // mouse currently pressed on this button
	// animation variables
	Scale         float64 // current scale (1.0 default)
	TargetScale   float64
	OffsetY       float64 // current vertical offset for pressed effect
	TargetOffsetY float64
	AnimSpeed     float64 // how fast to approach target (per second)
}

func NewButton(label string, x, y, w, h int, theme gbase.Palette) *Button {
	return &Button{
		Label: label,
		X:     x, Y: y, W: w, H: h,
		Image: RenderRoundedRect(w, h, 12, theme.ButtonFill, theme.ButtonStroke, 3),
		Scale: 1.0, TargetScale: 1.0, AnimSpeed: 10.0,
	}
}

func (b *Button) Contains(px, py int) bool {
	return PointInRect(px, py, b.X, b.Y, b.W, b.H)
}

// Call every Update: pass mouse info, returns true if click finished on this button
func (b *Button) HandleInput(px, py int, justClicked, justReleased bool) bool {
	inside := b.Contains(px, py) && !b.Disabled
	b.Hover = inside

	// pressed start only if mouse went down while cursor inside the button
	if justClicked && inside {
		b.Pressed = true
		b.TargetScale = 0.96
		b.TargetOffsetY = 3.0
	}
	if justReleased {
		if b.Pressed && inside {
			b.Pressed = false
			b.TargetScale = 1.03 // small click bounce out
			b.TargetOffsetY = 0
			return true
		}
		// released outside: cancel press
		b.Pressed = false
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	if inside && !b.Pressed {
		b.TargetScale = 1.02
		b.TargetOffsetY = 0
	} else if !b.Pressed {
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	return false
}

// Call every Update with dt seconds to approach the target values
func (b *Button) UpdateAnim(dt float64) {
	if b.AnimSpeed <= 0 {
		b.AnimSpeed = 8.0
	}
	approach := func(cur *float64, target float64, speed float64) {
		t := 1.0 - math.Exp(-speed*dt)
		*cur = *cur*(1.0-t) + target*t
	}

	approach(&b.Scale, b.TargetScale, b.AnimSpeed)
	approach(&b.OffsetY, b.TargetOffsetY, b.AnimSpeed)

	if !b.Pressed && math.Abs(b.Scale-1.03) < 0.005 {
		b.TargetScale = 1.0
	}
}

func (b *Button) DrawAnimated(screen *ebiten.Image, face font.Face, theme gbase.Palette) {
	if b.Image == nil {
		return
	}
	cx := float64(b.X + b.W/2)
	cy := float64(b.Y+b.H/2) + b.OffsetY

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Image.Bounds().Dx())/2, -float64(b.Image.Bounds().Dy())/2)
	op.GeoM.Scale(b.Scale, b.Scale)
	op.GeoM.Translate(cx, cy)
	op.Filter = ebiten.FilterLinear
	if b.Disabled {
		op.ColorScale.ScaleAlpha(0.45)
	}
	screen.DrawImage(b.Image, op)

	bounds := text.BoundString(face, b.Label)
	tx := int(cx) - bounds.Dx()/2
	ty := int(cy) + bounds.Dy()/2
	text.Draw(screen, b.Label, face, tx, ty, theme.ButtonText)
}

// ---- Banner ----

// Banner is a centered modal that scales in; it carries one button.
type Banner struct {
	Open   bool
	Scale  float64 // 0..1
	Text   string
	Button *Button
}

func (bn *Banner) Show(msg string) {
	if bn.Open && bn.Text == msg {
		return
	}
	bn.Text = msg
	bn.Open = true
	bn.Scale = 0
}

func (bn *Banner) Hide() {
	bn.Open = false
	bn.Scale = 0
}

// Animate advances the opening tween by dt seconds.
func (bn *Banner) Animate(dt float64) {
	const speed = 6.0
	if !bn.Open || bn.Scale >= 1 {
		return
	}
	bn.Scale = math.Min(1, bn.Scale+speed*dt)
}

// Ready reports whether the banner is fully open and its button usable.
func (bn *Banner) Ready() bool {
	return bn.Open && bn.Scale > 0.85
}
