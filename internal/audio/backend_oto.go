//go:build !headless

package audio

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

var _ Backend = (*OtoBackend)(nil)

// OtoBackend plays a MixBus through the host's default audio device
// via oto. Read is called from oto's own audio thread, so the bus
// pointer is swapped atomically and carries no other lock-free state.
type OtoBackend struct {
	ctx       *oto.Context
	player    *oto.Player
	bus       atomic.Pointer[MixBus]
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex
}

// NewOtoBackend opens an oto context at sampleRate, stereo float32LE,
// matching the MPEG engine's host output format.
func NewOtoBackend(sampleRate int) (*OtoBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoBackend{ctx: ctx}, nil
}

func (b *OtoBackend) SetupBus(bus *MixBus) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.bus.Store(bus)
	b.player = b.ctx.NewPlayer(b)
	b.sampleBuf = make([]float32, 4096)
}

// Read implements io.Reader for oto.Player: each call pulls one
// stereo sample per 8-byte (2×float32) frame from the mix bus.
func (b *OtoBackend) Read(p []byte) (n int, err error) {
	bus := b.bus.Load()
	if bus == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numFrames := len(p) / 8
	if len(b.sampleBuf) < numFrames*2 {
		b.sampleBuf = make([]float32, numFrames*2)
	}
	out := b.sampleBuf[:numFrames*2]
	for i := 0; i < numFrames; i++ {
		s := bus.Read()
		out[2*i] = float32(s.L) / 32768
		out[2*i+1] = float32(s.R) / 32768
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&out[0]))[:len(p)])
	return len(p), nil
}

func (b *OtoBackend) Start() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if !b.started && b.player != nil {
		b.player.Play()
		b.started = true
	}
}

func (b *OtoBackend) Stop() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.started && b.player != nil {
		b.player.Close()
		b.started = false
	}
}

func (b *OtoBackend) Close() {
	b.Stop()
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.player != nil {
		b.player.Close()
		b.player = nil
	}
}

func (b *OtoBackend) IsStarted() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.started
}
