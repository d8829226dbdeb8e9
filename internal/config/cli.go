package config

import (
	"fmt"

	getopt "github.com/pborman/getopt/v2"
)

// Exit codes (spec.md §6).
const (
	ExitOK            = 0
	ExitConfig        = 1
	ExitROM           = 2
	ExitVideoInit     = 3
	ExitCPUFeature    = 4
)

// CLIArgs is the parsed command line: one positional ROM-set
// identifier plus the optional flags spec.md §6 names, grounded on
// github.com/pborman/getopt/v2 the way rcornwell-S370/main.go uses it.
type CLIArgs struct {
	ROMSet          string
	Fullscreen      bool
	Width, Height   int
	NoDSB           bool
	NoForceFeedback bool
	LogLevel        string
	LogOutput       string
	MusicVolume     int
	Help            bool
}

// ParseCLI parses args (excluding argv[0]) into a CLIArgs, returning a
// config-class error (ExitConfig) on a malformed ROM-set identifier.
func ParseCLI(args []string) (CLIArgs, error) {
	set := getopt.New()

	fullscreen := set.BoolLong("fullscreen", 0, "Run in fullscreen mode")
	width := set.IntLong("width", 0, 496, "Display width")
	height := set.IntLong("height", 0, 384, "Display height")
	noDSB := set.BoolLong("no-dsb", 0, "Disable the Digital Sound Board")
	noForceFeedback := set.BoolLong("no-force-feedback", 0, "Disable force feedback")
	logLevel := set.StringLong("log-level", 0, "info", "Log level: debug, info, error, all")
	logOutput := set.StringLong("log-output", 0, "stderr", "Log output: stdout, stderr, syslog, or a filename")
	musicVolume := set.IntLong("music-volume", 0, 100, "Music volume, 0..200")
	help := set.BoolLong("help", 'h', "Show usage")

	if err := set.Getopt(args, nil); err != nil {
		return CLIArgs{}, fmt.Errorf("parsing command line: %w", err)
	}

	a := CLIArgs{
		Fullscreen:      *fullscreen,
		Width:           *width,
		Height:          *height,
		NoDSB:           *noDSB,
		NoForceFeedback: *noForceFeedback,
		LogLevel:        *logLevel,
		LogOutput:       *logOutput,
		MusicVolume:     *musicVolume,
		Help:            *help,
	}

	if a.Help {
		return a, nil
	}

	rest := set.Args()
	if len(rest) != 1 {
		return CLIArgs{}, fmt.Errorf("expected exactly one ROM-set identifier, got %d", len(rest))
	}
	a.ROMSet = rest[0]
	if !isValidROMSetID(a.ROMSet) {
		return CLIArgs{}, fmt.Errorf("ROM-set identifier %q must be 8 uppercase characters", a.ROMSet)
	}
	if a.MusicVolume < 0 || a.MusicVolume > 200 {
		return CLIArgs{}, fmt.Errorf("music-volume %d out of range 0..200", a.MusicVolume)
	}

	return a, nil
}

func isValidROMSetID(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
