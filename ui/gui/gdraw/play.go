package gdraw

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"aichess/src/base"
	"aichess/src/coords"
	"aichess/src/engine"
	"aichess/src/session"
	"aichess/ui/gui/gbase"
	"aichess/ui/gui/gctx"
	"aichess/ui/gui/ghelper"
	"aichess/ui/gui/ghelper/gclipboard"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

// job runs on the session worker, never on the ebiten loop.
type job func(ctx context.Context) error

type GUIPlayDrawer struct {
	// layout
	geom      coords.Geometry
	flipped   bool
	borderImg *ebiten.Image
	bannerImg *ebiten.Image

	// buttons
	buttons    []*ghelper.Button
	idxFlip    int
	idxCopyFEN int
	idxCopyPGN int
	banner     *ghelper.Banner

	// session worker: at most one job in flight
	jobs   chan job
	errCh  chan error
	busy   atomic.Bool
	cancel context.CancelFunc
	done   <-chan struct{}
	wg     sync.WaitGroup

	// engine analysis feed
	infoCh      chan engine.AnalysisInfo
	info        engine.AnalysisInfo
	unsubscribe func()

	snap          session.Snapshot
	notice        string
	noticeUntil   time.Time
	prevMouseDown bool
	lastTick      time.Time
}

// NewGUIPlayDrawer starts the session worker; cancelling parent ends the
// game loop at the next Update.
func NewGUIPlayDrawer(parent context.Context, ctx *gctx.GUIGameContext) *GUIPlayDrawer {
	runCtx, cancel := context.WithCancel(parent)
	pd := &GUIPlayDrawer{
		flipped:  ctx.Session.Human() == base.Black,
		jobs:     make(chan job, 1),
		errCh:    make(chan error, 1),
		infoCh:   make(chan engine.AnalysisInfo, 16),
		cancel:   cancel,
		done:     parent.Done(),
		lastTick: time.Now(),
		banner:   &ghelper.Banner{},
	}
	if ctx.Engine != nil {
		pd.unsubscribe = ctx.Engine.Subscribe(pd.infoCh)
	}

	pd.recalcLayout(ctx)
	pd.makeLayoutButtons(ctx)

	pd.wg.Add(1)
	go pd.worker(runCtx)

	// engine opens when the human plays black
	pd.submit(func(c context.Context) error {
		return ctx.Session.StartOpponentIfDue(c)
	})
	pd.snap = ctx.Session.Snapshot()
	return pd
}

func (pd *GUIPlayDrawer) worker(ctx context.Context) {
	defer pd.wg.Done()
	for j := range pd.jobs {
		if err := j(ctx); err != nil {
			select {
			case pd.errCh <- err:
			default:
			}
		}
		pd.busy.Store(false)
	}
}

// submit drops the job when another one is still running.
func (pd *GUIPlayDrawer) submit(j job) bool {
	if !pd.busy.CompareAndSwap(false, true) {
		return false
	}
	pd.jobs <- j
	return true
}

// Close stops the worker, abandoning an engine search in progress.
func (pd *GUIPlayDrawer) Close() {
	pd.cancel()
	close(pd.jobs)
	pd.wg.Wait()
	if pd.unsubscribe != nil {
		pd.unsubscribe()
	}
}

func (pd *GUIPlayDrawer) recalcLayout(ctx *gctx.GUIGameContext) {
	g := coords.Fit(ctx.Config.WindowW, ctx.Config.WindowH, gbase.BoardMargin, pd.flipped)
	if g.Size() != pd.geom.Size() || pd.borderImg == nil {
		pd.borderImg = ghelper.RenderRoundedRect(g.Size()+8, g.Size()+8, 6, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2)
	}
	pd.geom = g
}

func (pd *GUIPlayDrawer) makeLayoutButtons(ctx *gctx.GUIGameContext) {
	lang := ctx.AssetsWorker.Lang()
	pd.buttons = []*ghelper.Button{}
	addBtn := func(label string, x, y int) int {
		pd.buttons = append(pd.buttons, ghelper.NewButton(label, x, y, gbase.ButtonW, gbase.ButtonH, ctx.Theme))
		return len(pd.buttons) - 1
	}

	x := pd.geom.OriginX - gbase.ButtonW - 30
	if x < 10 {
		x = 10
	}
	y := pd.geom.OriginY + 40
	pd.idxFlip = addBtn(lang.T("play.flip"), x, y)
	y += gbase.ButtonH + 14
	pd.idxCopyFEN = addBtn(lang.T("play.copy_fen"), x, y)
	y += gbase.ButtonH + 14
	pd.idxCopyPGN = addBtn(lang.T("play.copy_pgn"), x, y)

	bw, bh := 420, 200
	pd.bannerImg = ghelper.RenderRoundedRect(bw, bh, 16, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
	cx, cy := ctx.Config.WindowW/2, ctx.Config.WindowH/2
	pd.banner.Button = ghelper.NewButton(lang.T("play.again"), cx-gbase.ButtonW/2, cy+bh/2-gbase.ButtonH-20, gbase.ButtonW, gbase.ButtonH, ctx.Theme)
}

func (pd *GUIPlayDrawer) Update(ctx *gctx.GUIGameContext) error {
	select {
	case <-pd.done:
		ctx.Logx.Infof("interrupted, closing the window")
		return ebiten.Termination
	case err := <-pd.errCh:
		ctx.Logx.Errorf("session stopped: %v", err)
		return err
	default:
	}
	pd.drainInfo()

	now := time.Now()
	dt := now.Sub(pd.lastTick).Seconds()
	pd.lastTick = now

	pd.recalcLayout(ctx)
	pd.snap = ctx.Session.Snapshot()

	mx, my := ebiten.CursorPosition()
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mouseDown && !pd.prevMouseDown
	justReleased := !mouseDown && pd.prevMouseDown
	pd.prevMouseDown = mouseDown

	// game over: only the banner takes input
	if pd.snap.Terminal != base.NotTerminal {
		pd.banner.Show(terminalText(ctx.AssetsWorker.Lang(), pd.snap.Terminal))
		pd.banner.Animate(dt)
		b := pd.banner.Button
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if clicked && pd.banner.Ready() {
			s := ctx.Session
			pd.submit(func(c context.Context) error {
				s.Reset()
				return s.StartOpponentIfDue(c)
			})
		}
		return nil
	}
	pd.banner.Hide()

	pd.buttons[pd.idxFlip].Disabled = len(pd.snap.History) > 0
	for i, b := range pd.buttons {
		if b.Disabled && justReleased && b.Contains(mx, my) && i == pd.idxFlip {
			pd.showNotice(ctx.AssetsWorker.Lang().T("play.flip_warning"))
		}
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		switch i {
		case pd.idxFlip:
			pd.flipped = !pd.flipped
			pd.recalcLayout(ctx)
		case pd.idxCopyFEN:
			pd.copy(ctx, pd.snap.FEN, "play.fen_copied")
		case pd.idxCopyPGN:
			pd.copy(ctx, ctx.Session.PGN(), "play.pgn_copied")
		}
	}

	// board: a click is a release over a square; off-board releases are ignored
	if justReleased {
		if sq, ok := pd.geom.PixelToSquare(mx, my); ok {
			s := ctx.Session
			if !pd.submit(func(c context.Context) error { return s.HandleClick(c, sq) }) {
				ctx.Logx.Debugf("click %s dropped, session busy", sq)
			}
		}
	}
	return nil
}

func (pd *GUIPlayDrawer) engineName(ctx *gctx.GUIGameContext) string {
	if ctx.Engine == nil {
		return ctx.AssetsWorker.Lang().T("play.engine")
	}
	return ctx.Engine.Name()
}

func (pd *GUIPlayDrawer) drainInfo() {
	for {
		select {
		case info := <-pd.infoCh:
			pd.info = info
		default:
			return
		}
	}
}

func (pd *GUIPlayDrawer) copy(ctx *gctx.GUIGameContext, s, okKey string) {
	if err := gclipboard.WriteAll(s); err != nil {
		ctx.Logx.Warnf("clipboard: %v", err)
		pd.showNotice(ctx.AssetsWorker.Lang().T("play.copy_failed"))
		return
	}
	pd.showNotice(ctx.AssetsWorker.Lang().T(okKey))
}

func (pd *GUIPlayDrawer) showNotice(msg string) {
	pd.notice = msg
	pd.noticeUntil = time.Now().Add(2 * time.Second)
}

func (pd *GUIPlayDrawer) Draw(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	fonts := ctx.AssetsWorker.Fonts()
	g := pd.geom
	sqSize := float64(g.SquareSize)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(g.OriginX-4), float64(g.OriginY-4))
	screen.DrawImage(pd.borderImg, op)

	// squares and pieces
	for i := 0; i < 64; i++ {
		sq := base.SquareFromIndex(i)
		x, y := g.SquareToPixel(sq)
		col := ctx.Theme.DarkSq
		if (sq.File+sq.Rank)%2 == 1 {
			col = ctx.Theme.LightSq
		}
		ghelper.FillRect(screen, float64(x), float64(y), sqSize, sqSize, col)

		p := pd.snap.Board[i]
		if p.IsEmpty() {
			continue
		}
		if img := ctx.AssetsWorker.Piece(p); img != nil {
			scale := sqSize / float64(img.Bounds().Dx())
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(float64(x), float64(y))
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(img, op)
		}
	}

	for _, h := range pd.snap.Highlights {
		x, y := g.SquareToPixel(h.Square)
		ghelper.DrawRectStroke(screen, float64(x)+2, float64(y)+2, sqSize-4, sqSize-4, 4, ctx.Theme.HighlightColor(h.Reason))
	}

	// coordinates
	for i := 0; i < 8; i++ {
		file := base.NewSquare(i, 0)
		x, _ := g.SquareToPixel(file)
		text.Draw(screen, file.String()[:1], fonts.Small, x+g.SquareSize/2-3, g.OriginY+g.Size()+18, ctx.Theme.MenuText)
		rank := base.NewSquare(0, i)
		_, y := g.SquareToPixel(rank)
		text.Draw(screen, rank.String()[1:], fonts.Small, g.OriginX-18, y+g.SquareSize/2+4, ctx.Theme.MenuText)
	}

	// status above the board, engine line below it
	text.Draw(screen, statusText(ctx.AssetsWorker.Lang(), pd.snap), fonts.Normal, g.OriginX, g.OriginY-16, ctx.Theme.MenuText)
	text.Draw(screen, engineLine(pd.engineName(ctx), pd.snap.Phase == session.AwaitingOpponent, pd.info), fonts.Small, g.OriginX, g.OriginY+g.Size()+40, ctx.Theme.MenuText)

	for _, b := range pd.buttons {
		b.DrawAnimated(screen, fonts.Normal, ctx.Theme)
	}

	if pd.notice != "" && time.Now().Before(pd.noticeUntil) {
		text.Draw(screen, pd.notice, fonts.Normal, g.OriginX, g.OriginY+g.Size()+64, ctx.Theme.Accent)
	}

	if pd.banner.Open {
		pd.drawBanner(ctx, screen)
	}

	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f  session %s", ebiten.ActualTPS(), pd.snap.SessionID))
	}
}

func (pd *GUIPlayDrawer) drawBanner(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	w, h := ctx.Config.WindowW, ctx.Config.WindowH
	ghelper.FillRect(screen, 0, 0, float64(w), float64(h), ctx.Theme.ModalBg)

	scale := pd.banner.Scale
	bw, bh := pd.bannerImg.Bounds().Dx(), pd.bannerImg.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(bw)/2, -float64(bh)/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(w)/2, float64(h)/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(pd.bannerImg, op)

	if !pd.banner.Ready() {
		return
	}
	face := ctx.AssetsWorker.Fonts().Bold
	bounds := text.BoundString(face, pd.banner.Text)
	text.Draw(screen, pd.banner.Text, face, (w-bounds.Dx())/2, h/2-bh/2+70, ctx.Theme.Check)
	pd.banner.Button.DrawAnimated(screen, ctx.AssetsWorker.Fonts().Normal, ctx.Theme)
}
