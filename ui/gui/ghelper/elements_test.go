package ghelper

import "testing"

func TestButtonClick(t *testing.T) {
	b := &Button{X: 10, Y: 10, W: 100, H: 40, Scale: 1, TargetScale: 1}

	if b.HandleInput(20, 20, true, false) {
		t.Fatal("press alone must not click")
	}
	if !b.Pressed {
		t.Fatal("press inside not registered")
	}
	if !b.HandleInput(20, 20, false, true) {
		t.Error("release inside should click")
	}

	b.HandleInput(20, 20, true, false)
	if b.HandleInput(300, 300, false, true) {
		t.Error("release outside should cancel")
	}
}

func TestDisabledButton(t *testing.T) {
	b := &Button{X: 0, Y: 0, W: 50, H: 50, Disabled: true}
	b.HandleInput(10, 10, true, false)
	if b.HandleInput(10, 10, false, true) || b.Hover {
		t.Error("disabled button reacted to input")
	}
}

func TestBannerAnimation(t *testing.T) {
	var bn Banner
	bn.Show("CHECKMATE!")
	if bn.Ready() {
		t.Fatal("banner ready before animating")
	}
	for i := 0; i < 30; i++ {
		bn.Animate(1.0 / 60.0)
	}
	if !bn.Ready() || bn.Scale != 1 {
		t.Errorf("banner scale %v after half a second", bn.Scale)
	}
	bn.Show("CHECKMATE!")
	if bn.Scale != 1 {
		t.Error("showing the same text again restarted the tween")
	}
	bn.Hide()
	if bn.Open || bn.Ready() {
		t.Error("Hide() left the banner open")
	}
}

func TestPointInRect(t *testing.T) {
	if !PointInRect(5, 5, 0, 0, 10, 10) || PointInRect(10, 5, 0, 0, 10, 10) {
		t.Error("PointInRect bounds are half-open")
	}
}
