package gctx

import (
	"aichess/src/config"
	"aichess/src/engine"
	"aichess/src/logx"
	"aichess/src/session"
	"aichess/ui/gui/gbase"
	"aichess/ui/gui/ghelper"
)

// EngineInfo is the optional analysis feed of the opponent.
type EngineInfo interface {
	Name() string
	Subscribe(ch chan<- engine.AnalysisInfo) (unsubscribe func())
}

// ---- GUI Context ----

type GUIGameContext struct {
	Session      *session.Session
	Engine       EngineInfo // may be nil
	AssetsWorker *ghelper.GUIAssetsWorker
	Config       *config.Config
	Theme        gbase.Palette
	Logx         logx.Logger
}

func NewGUIGameContext(s *session.Session, e EngineInfo, a *ghelper.GUIAssetsWorker, c *config.Config, l logx.Logger) *GUIGameContext {
	return &GUIGameContext{
		Session:      s,
		Engine:       e,
		AssetsWorker: a,
		Config:       c,
		Theme:        gbase.PaletteFromString(c.Theme),
		Logx:         l,
	}
}
