// Command supermodel3 is the emulator's CLI entry point: parse flags,
// load per-game settings, assemble a machine.Machine, and run it at
// 60 Hz until interrupted (spec.md §6).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sm3core/supermodel3/internal/audio"
	"github.com/sm3core/supermodel3/internal/config"
	"github.com/sm3core/supermodel3/internal/logger"
	"github.com/sm3core/supermodel3/internal/machine"
	"github.com/sm3core/supermodel3/internal/mpeg"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := config.ParseCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3:", err)
		return config.ExitConfig
	}

	level, err := logger.ParseLevel(args.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3:", err)
		return config.ExitConfig
	}
	sink, err := logger.NewSink(args.LogOutput)
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3:", err)
		return config.ExitConfig
	}
	log := logger.New(level, sink)
	defer log.Close()

	settings, err := config.LoadINI("supermodel.ini", args.ROMSet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3: loading supermodel.ini:", err)
		return config.ExitConfig
	}
	applyCLIOverrides(&settings, args)

	roms, err := loadROMSet(settings.CROMPath, args.ROMSet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3: loading ROM set:", err)
		return config.ExitROM
	}

	m, err := machine.New(machine.Config{
		Settings: settings,
		Log:      log,
		MainRAM:  make([]byte, 8<<20),
		MainROM:  roms.mainROM,
		SoundRAM: make([]byte, 1<<20),
		SoundROM: roms.soundROM,
		DSBKind:  dsbKind(settings),
		DSBRAM:   roms.dsbRAM,
		DSBROM:   roms.dsbROM,
		DriveROM: roms.driveROM,
		MPEGROM:  mpeg.ByteSource(roms.mpegROM),
		TileW:    settings.Width,
		TileH:    settings.Height,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3: assembling machine:", err)
		return config.ExitConfig
	}
	m.Reset()

	backend, err := newAudioBackend(44100)
	if err != nil {
		fmt.Fprintln(os.Stderr, "supermodel3: initializing audio:", err)
		return config.ExitVideoInit
	}
	m.AttachBackend(backend)
	defer backend.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return config.ExitOK
		default:
			m.RunFrame()
		}
	}
}

func applyCLIOverrides(s *config.Settings, a config.CLIArgs) {
	if a.Fullscreen {
		s.Fullscreen = true
	}
	if a.Width > 0 {
		s.Width = a.Width
	}
	if a.Height > 0 {
		s.Height = a.Height
	}
	if a.NoDSB {
		s.EnableDSB = false
	}
	if a.NoForceFeedback {
		s.ForceFeedback = false
	}
	if a.MusicVolume > 0 {
		s.MusicVolume = a.MusicVolume
	}
}

func dsbKind(s config.Settings) machine.DSBKind {
	if !s.EnableDSB {
		return machine.DSBNone
	}
	return machine.DSBKind1
}

// romSet is the minimal set of raw binary images a board needs. Full
// split-ROM assembly against a CRC database (MAME-style .zip sets) is
// out of scope (spec.md §1's romset-identifier-as-key contract only
// names the 8-character ID, not an archive format); this loader reads
// already-split, already-concatenated images from CROMPath/<id>/.
type romSet struct {
	mainROM  []byte
	soundROM []byte
	dsbROM   []byte
	dsbRAM   []byte
	driveROM []byte
	mpegROM  []byte
}

func loadROMSet(cromPath, id string) (romSet, error) {
	dir := filepath.Join(cromPath, id)
	var rs romSet
	var err error
	if rs.mainROM, err = os.ReadFile(filepath.Join(dir, "main.rom")); err != nil {
		return romSet{}, fmt.Errorf("reading main ROM: %w", err)
	}
	rs.soundROM, _ = os.ReadFile(filepath.Join(dir, "sound.rom"))
	rs.dsbROM, _ = os.ReadFile(filepath.Join(dir, "dsb.rom"))
	rs.driveROM, _ = os.ReadFile(filepath.Join(dir, "drive.rom"))
	rs.mpegROM, _ = os.ReadFile(filepath.Join(dir, "mpeg.rom"))
	rs.dsbRAM = make([]byte, 0x8000)
	return rs, nil
}

func newAudioBackend(sampleRate int) (audio.Backend, error) {
	return newPlatformBackend(sampleRate)
}
