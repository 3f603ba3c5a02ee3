package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"aichess/src/base"
	"aichess/src/engine"

	"golang.org/x/text/language"
)

const DefaultFile = "aichess.json"

type Config struct {
	EnginePath    string            `json:"engine_path"`    // UCI binary, e.g. stockfish
	EngineArgs    []string          `json:"engine_args"`    //
	EngineOptions map[string]string `json:"engine_options"` // setoption name -> value
	ThinkMs       int               `json:"think_ms"`       // 0 means use level
	Level         int               `json:"level"`          // 1..10
	HumanColor    string            `json:"human_color"`    // white/black
	StartFEN      string            `json:"start_fen"`      // empty for the standard start
	AssetsDir     string            `json:"assets_dir"`     // piece images
	Theme         string            `json:"theme"`          // light/dark
	Lang          string            `json:"language"`       // en/ru
	WindowH       int               `json:"window_h"`       //
	WindowW       int               `json:"window_w"`       //
	Debug         bool              `json:"debug"`          // true/false
}

var supportedLangs = []language.Tag{language.English, language.Russian}

var langMatcher = language.NewMatcher(supportedLangs)

func Default() Config {
	return Config{
		EnginePath: "stockfish",
		Level:      int(engine.LevelFive),
		HumanColor: "white",
		AssetsDir:  "assets/pieces",
		Theme:      "light",
		Lang:       "en",
		WindowH:    800,
		WindowW:    1000,
	}
}

// Load reads file, or returns the defaults when it does not exist.
func Load(file string) (*Config, error) {
	if file == "" {
		file = DefaultFile
	}
	_, err := os.Stat(file)
	if os.IsNotExist(err) {
		def := Default()
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	conf, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer conf.Close()

	dec := json.NewDecoder(conf)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error decode config: %s", err)
	}
	c.Correct()

	return &c, nil
}

func (c *Config) Save(file string) error {
	if file == "" {
		file = DefaultFile
	}
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, jsonData, 0644)
}

// Correct replaces out-of-range values with defaults. Flags are applied
// before calling it again.
func (c *Config) Correct() {
	def := Default()
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	c.Lang = MatchLang(c.Lang)
	if _, err := base.ParseColor(c.HumanColor); err != nil {
		c.HumanColor = def.HumanColor
	}
	if c.Level < int(engine.LevelOne) || c.Level > int(engine.LevelTen) {
		c.Level = def.Level
	}
	if c.ThinkMs < 0 {
		c.ThinkMs = 0
	}
	if c.EnginePath == "" {
		c.EnginePath = def.EnginePath
	}
	if c.AssetsDir == "" {
		c.AssetsDir = def.AssetsDir
	}
	if c.WindowH < def.WindowH || c.WindowW < def.WindowW {
		c.WindowH = def.WindowH
		c.WindowW = def.WindowW
	}
}

// MatchLang maps any BCP 47 tag ("ru-RU", "en_US", "de") to a supported
// dictionary name.
func MatchLang(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "en"
	}
	_, idx, _ := langMatcher.Match(t)
	b, _ := supportedLangs[idx].Base()
	return b.String()
}

func (c *Config) Human() base.Color {
	col, _ := base.ParseColor(c.HumanColor)
	return col
}

// Budget is the engine thinking time: think_ms when set, else the level.
func (c *Config) Budget() time.Duration {
	if c.ThinkMs > 0 {
		return time.Duration(c.ThinkMs) * time.Millisecond
	}
	return engine.LevelToParams(engine.Level(c.Level)).MoveTime
}

// Depth is the search depth limit of the level; think_ms lifts it.
func (c *Config) Depth() int {
	if c.ThinkMs > 0 {
		return 0
	}
	return engine.LevelToParams(engine.Level(c.Level)).MaxDepth
}
