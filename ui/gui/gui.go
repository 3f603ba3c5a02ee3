package gui

import (
	"context"

	"aichess/ui/gui/gctx"
	"aichess/ui/gui/gdraw"

	"github.com/hajimehoshi/ebiten/v2"
)

type GUIProcessing struct {
	play *gdraw.GUIPlayDrawer
	ctx  *gctx.GUIGameContext
}

func NewGUI(ctx *gctx.GUIGameContext) *GUIProcessing {
	return &GUIProcessing{ctx: ctx}
}

// Run blocks until the window closes, ctx is cancelled or the session fails;
// a session failure is returned.
func (gp *GUIProcessing) Run(ctx context.Context) error {
	ebiten.SetWindowSize(gp.ctx.Config.WindowW, gp.ctx.Config.WindowH)
	ebiten.SetWindowTitle(gp.ctx.AssetsWorker.Lang().T("title"))
	gp.play = gdraw.NewGUIPlayDrawer(ctx, gp.ctx)
	defer gp.play.Close()
	return ebiten.RunGame(gp)
}

func (gp *GUIProcessing) Update() error {
	return gp.play.Update(gp.ctx)
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.play.Draw(gp.ctx, screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gp.ctx.Config.WindowW, gp.ctx.Config.WindowH
}
