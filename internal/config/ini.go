// Package config holds the emulator's startup configuration surface:
// an INI-backed settings tree with per-game overrides, CLI flag
// parsing, and custom-music XML (spec.md §9's config contract;
// SPEC_FULL.md §2.3). Parsing grammar itself is out of scope (spec.md
// §1) — this package only shapes the result into typed settings.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Settings is the merged view of one game's configuration: [Global]
// keys overridden per-[<GameID>] section, mirroring INIFile.h's
// section-scoped Get/Set pattern but resolved once at load time into
// typed accessors instead of stringly-typed runtime lookups.
type Settings struct {
	MusicVolume  int
	SoundVolume  int
	Fullscreen   bool
	Width        int
	Height       int
	ForceFeedback bool
	EnableDSB     bool
	CROMPath      string
}

func defaultSettings() Settings {
	return Settings{
		MusicVolume:   100,
		SoundVolume:   100,
		Fullscreen:    false,
		Width:         496,
		Height:        384,
		ForceFeedback: true,
		EnableDSB:     true,
	}
}

// LoadINI reads path and merges [Global] with [gameID], gameID's
// section taking precedence for any key it defines (spec.md §9 /
// SPEC_FULL.md §2.3).
func LoadINI(path, gameID string) (Settings, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Settings{}, fmt.Errorf("loading %q: %w", path, err)
	}

	s := defaultSettings()
	if global, err := f.GetSection("Global"); err == nil {
		applySection(&s, global)
	}
	if gameID != "" {
		if game, err := f.GetSection(gameID); err == nil {
			applySection(&s, game)
		}
	}
	return s, nil
}

func applySection(s *Settings, sec *ini.Section) {
	if k := sec.Key("MusicVolume"); k.String() != "" {
		s.MusicVolume = k.MustInt(s.MusicVolume)
	}
	if k := sec.Key("SoundVolume"); k.String() != "" {
		s.SoundVolume = k.MustInt(s.SoundVolume)
	}
	if k := sec.Key("Fullscreen"); k.String() != "" {
		s.Fullscreen = k.MustBool(s.Fullscreen)
	}
	if k := sec.Key("XResolution"); k.String() != "" {
		s.Width = k.MustInt(s.Width)
	}
	if k := sec.Key("YResolution"); k.String() != "" {
		s.Height = k.MustInt(s.Height)
	}
	if k := sec.Key("ForceFeedback"); k.String() != "" {
		s.ForceFeedback = k.MustBool(s.ForceFeedback)
	}
	if k := sec.Key("EnableDSB"); k.String() != "" {
		s.EnableDSB = k.MustBool(s.EnableDSB)
	}
	if k := sec.Key("CROMPath"); k.String() != "" {
		s.CROMPath = k.String()
	}
}
