package machine

import (
	"bytes"
	"encoding/gob"
)

// encodeGob serializes a CPU's State struct into a save-state block
// body. gob is sufficient here: blocks are read back only by this same
// binary (spec.md §4.9 doesn't require cross-version or cross-language
// compatibility for block contents, only that the container's own
// tag/length framing round-trips).
func encodeGob(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func decodeGob(data []byte, v any) {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		panic(err)
	}
}
