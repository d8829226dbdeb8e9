package config

import (
	"encoding/xml"
	"fmt"
	"io"
)

// MusicXML is the decoded custom-music playlist: per-game track
// substitutions keyed by their MPEG-ROM offset (spec.md §4.7/§9's
// custom-track substitution feature; SPEC_FULL.md §2.3 names
// stdlib encoding/xml as the parser, since this grammar — unlike the
// emulator's own wire formats — isn't part of the system being
// modeled).
type MusicXML struct {
	XMLName xml.Name    `xml:"games"`
	Games   []MusicGame `xml:"game"`
}

type MusicGame struct {
	Name   string       `xml:"name,attr"`
	Tracks []MusicTrack `xml:"track"`
}

type MusicTrack struct {
	MpegROMStartOffset uint32 `xml:"mpeg_rom_start_offset,attr"`
	FileStartOffset    uint32 `xml:"file_start_offset,attr"`
	FilePath           string `xml:"filepath,attr"`
}

// DuplicateTrackFunc is called (for logging) whenever a later track
// within the same game duplicates an already-seen ROM offset; the
// first one wins.
type DuplicateTrackFunc func(game string, romOffset uint32)

// LoadMusicXML decodes r and deduplicates tracks within each game by
// MpegROMStartOffset, first occurrence winning (SPEC_FULL.md §2.3).
func LoadMusicXML(r io.Reader, onDuplicate DuplicateTrackFunc) (MusicXML, error) {
	var doc MusicXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return MusicXML{}, fmt.Errorf("decoding music XML: %w", err)
	}

	for gi, g := range doc.Games {
		seen := make(map[uint32]bool, len(g.Tracks))
		deduped := g.Tracks[:0]
		for _, t := range g.Tracks {
			if seen[t.MpegROMStartOffset] {
				if onDuplicate != nil {
					onDuplicate(g.Name, t.MpegROMStartOffset)
				}
				continue
			}
			seen[t.MpegROMStartOffset] = true
			deduped = append(deduped, t)
		}
		doc.Games[gi].Tracks = deduped
	}
	return doc, nil
}

// TracksForGame returns the custom tracks for name, or nil if none.
func (m MusicXML) TracksForGame(name string) []MusicTrack {
	for _, g := range m.Games {
		if g.Name == name {
			return g.Tracks
		}
	}
	return nil
}
