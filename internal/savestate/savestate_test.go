package savestate

import (
	"bytes"
	"testing"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	w := NewWriter()
	if err := w.WriteBlock(TagZ80, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBlock(TagM68K, []byte{4, 5}); err != nil {
		t.Fatal(err)
	}

	data := w.Bytes()
	if !bytes.Equal(data[:4], []byte(Magic)) {
		t.Fatalf("missing magic: %v", data[:4])
	}

	r, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != Version {
		t.Fatalf("Version = %d, want %d", r.Version, Version)
	}

	z80, ok := r.Block(TagZ80)
	if !ok || !bytes.Equal(z80, []byte{1, 2, 3}) {
		t.Fatalf("Z80 block = %v, ok=%v", z80, ok)
	}
	m68k, ok := r.Block(TagM68K)
	if !ok || !bytes.Equal(m68k, []byte{4, 5}) {
		t.Fatalf("M68K block = %v, ok=%v", m68k, ok)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	if _, err := Load([]byte("XXXX0000000000000000")); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestMissingBlockIsTolerated(t *testing.T) {
	w := NewWriter()
	w.WriteBlock(TagZ80, []byte{9})
	r, err := Load(w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Block(TagDSB1); ok {
		t.Fatal("expected DSB1 block to be absent")
	}
}
