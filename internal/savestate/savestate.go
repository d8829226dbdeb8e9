// Package savestate implements the block-tagged save-state container
// (spec.md §4.9/§6): magic "SMS3", a little-endian version, a 64-bit
// total length, followed by a sequence of 4-char-tag + little-endian
// length + body blocks.
package savestate

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const Magic = "SMS3"

// Version is bumped whenever a block's internal layout changes
// incompatibly; Writer always stamps the current version.
const Version uint32 = 1

var ErrBadMagic = errors.New("savestate: bad magic")

// Block tags, stable four-character identifiers (spec.md §4.9).
const (
	TagPPC   = "PPC "
	TagM68K  = "M68K"
	TagZ80   = "Z80 "
	TagDSB1  = "DSB1"
	TagDSB2  = "DSB2"
	TagReal3D = "R3D "
	TagTile  = "TILE"
)

// Writer accumulates blocks and serializes them into the container format.
type Writer struct {
	blocks []block
}

type block struct {
	tag  string
	body []byte
}

func NewWriter() *Writer { return &Writer{} }

// WriteBlock appends a tagged block. tag must be exactly 4 bytes.
func (w *Writer) WriteBlock(tag string, body []byte) error {
	if len(tag) != 4 {
		return fmt.Errorf("savestate: tag %q is not 4 characters", tag)
	}
	w.blocks = append(w.blocks, block{tag: tag, body: body})
	return nil
}

// Bytes produces the full container.
func (w *Writer) Bytes() []byte {
	var body bytes.Buffer
	for _, b := range w.blocks {
		body.WriteString(b.tag)
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b.body)))
		body.Write(lenBuf[:])
		body.Write(b.body)
	}

	var out bytes.Buffer
	out.WriteString(Magic)
	var verBuf [4]byte
	binary.LittleEndian.PutUint32(verBuf[:], Version)
	out.Write(verBuf[:])
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(body.Len()))
	out.Write(lenBuf[:])
	out.Write(body.Bytes())
	return out.Bytes()
}

// Reader parses a container and hands out blocks by tag.
type Reader struct {
	Version uint32
	blocks  map[string][]byte
}

// Load parses data into a Reader. It does not validate the total-length
// field against the actual remaining bytes beyond requiring it be
// consistent enough to read every block header.
func Load(data []byte) (*Reader, error) {
	if len(data) < 16 || string(data[:4]) != Magic {
		return nil, ErrBadMagic
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	totalLen := binary.LittleEndian.Uint64(data[8:16])
	body := data[16:]
	if uint64(len(body)) < totalLen {
		return nil, fmt.Errorf("savestate: truncated container, want %d body bytes, have %d", totalLen, len(body))
	}
	body = body[:totalLen]

	r := &Reader{Version: version, blocks: make(map[string][]byte)}
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, io.ErrUnexpectedEOF
		}
		tag := string(body[:4])
		blen := binary.LittleEndian.Uint32(body[4:8])
		body = body[8:]
		if uint64(len(body)) < uint64(blen) {
			return nil, io.ErrUnexpectedEOF
		}
		r.blocks[tag] = body[:blen]
		body = body[blen:]
	}
	return r, nil
}

// Block returns the body for tag and whether it was present. Callers
// (per spec.md §4.9/§7) must tolerate a missing block by logging a
// warning and resetting the subsystem rather than failing the load.
func (r *Reader) Block(tag string) ([]byte, bool) {
	b, ok := r.blocks[tag]
	return b, ok
}
