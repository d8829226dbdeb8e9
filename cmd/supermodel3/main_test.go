package main

import (
	"testing"

	"github.com/sm3core/supermodel3/internal/config"
	"github.com/sm3core/supermodel3/internal/machine"
)

func TestApplyCLIOverridesOnlyTouchesSetFlags(t *testing.T) {
	s := config.Settings{Width: 496, Height: 384, ForceFeedback: true, EnableDSB: true, MusicVolume: 100}
	a := config.CLIArgs{Fullscreen: true, NoDSB: true}

	applyCLIOverrides(&s, a)

	if !s.Fullscreen {
		t.Error("Fullscreen override not applied")
	}
	if s.EnableDSB {
		t.Error("NoDSB override not applied")
	}
	if s.Width != 496 || s.Height != 384 {
		t.Errorf("unset Width/Height overrides should not change defaults, got %d/%d", s.Width, s.Height)
	}
	if !s.ForceFeedback {
		t.Error("ForceFeedback should be untouched when NoForceFeedback isn't set")
	}
}

func TestDSBKindReflectsEnableDSBSetting(t *testing.T) {
	if got := dsbKind(config.Settings{EnableDSB: false}); got != machine.DSBNone {
		t.Errorf("dsbKind with EnableDSB=false = %v, want DSBNone", got)
	}
	if got := dsbKind(config.Settings{EnableDSB: true}); got != machine.DSBKind1 {
		t.Errorf("dsbKind with EnableDSB=true = %v, want DSBKind1", got)
	}
}

func TestLoadROMSetFailsWhenMainROMMissing(t *testing.T) {
	if _, err := loadROMSet(t.TempDir(), "NOSUCHID"); err == nil {
		t.Fatal("expected an error when main.rom is absent")
	}
}
