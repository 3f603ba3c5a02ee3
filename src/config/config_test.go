package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"aichess/src/base"
	"aichess/src/engine"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(Default(), *c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	want := Default()
	want.EnginePath = "/usr/games/stockfish"
	want.EngineOptions = map[string]string{"Skill Level": "3"}
	want.HumanColor = "black"
	want.Lang = "ru"
	want.ThinkMs = 250

	if err := want.Save(file); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, err := Load(file)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got.Human() != base.Black || got.Budget() != 250*time.Millisecond {
		t.Errorf("Human() = %s, Budget() = %v", got.Human(), got.Budget())
	}
}

func TestLoadCorrectsValues(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	raw := `{"theme": "neon", "language": "ru-RU", "human_color": "green", "level": 42, "think_ms": -5, "window_h": 10}`
	if err := os.WriteFile(file, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(file)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	def := Default()
	want := def
	want.Lang = "ru"
	if diff := cmp.Diff(want, *c); diff != "" {
		t.Errorf("corrected config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aichess.json")
	if err := os.WriteFile(file, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(file); err == nil {
		t.Error("Load() of broken json should fail")
	}
}

func TestMatchLang(t *testing.T) {
	tests := map[string]string{
		"en":    "en",
		"ru":    "ru",
		"ru-RU": "ru",
		"en-GB": "en",
		"de":    "en",
		"":      "en",
		"???":   "en",
	}
	for in, want := range tests {
		if got := MatchLang(in); got != want {
			t.Errorf("MatchLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBudget(t *testing.T) {
	c := Default()
	if got := c.Budget(); got != engine.DefaultBudget {
		t.Errorf("default Budget() = %v, want %v", got, engine.DefaultBudget)
	}
	c.Level = int(engine.LevelTen)
	if got := c.Budget(); got <= engine.DefaultBudget {
		t.Errorf("level ten Budget() = %v", got)
	}
}

func TestDepth(t *testing.T) {
	c := Default()
	c.Level = int(engine.LevelOne)
	if got := c.Depth(); got != 1 {
		t.Errorf("level one Depth() = %d, want 1", got)
	}
	c.Level = int(engine.LevelTen)
	if got := c.Depth(); got != 0 {
		t.Errorf("level ten Depth() = %d, want 0", got)
	}
	c.Level = int(engine.LevelOne)
	c.ThinkMs = 300
	if got := c.Depth(); got != 0 {
		t.Errorf("Depth() with think_ms = %d, want 0", got)
	}
}
