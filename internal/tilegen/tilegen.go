// Package tilegen implements the tile-generator 2D layer sink: four
// layer buffers fed by dirty-rect updates from guest writes, exposed to
// the Real3D back-end for compositing (spec.md §4's tile-gen
// responsibility; the compositor itself is out of scope per spec.md
// §1).
package tilegen

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const NumLayers = 4

// Layer is one of the tile generator's four 2D layer buffers.
type Layer struct {
	buf   *image.NRGBA
	dirty []image.Rectangle
}

func newLayer(w, h int) *Layer {
	return &Layer{buf: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// Sink owns all four layer buffers.
type Sink struct {
	width, height int
	layers        [NumLayers]*Layer
}

func New(width, height int) *Sink {
	s := &Sink{width: width, height: height}
	for i := range s.layers {
		s.layers[i] = newLayer(width, height)
	}
	return s
}

// WritePixel sets one pixel in a layer and records the 1x1 dirty rect,
// mirroring the per-word granularity guest writes arrive at.
func (s *Sink) WritePixel(layer, x, y int, c color.NRGBA) {
	l := s.layers[layer]
	l.buf.SetNRGBA(x, y, c)
	l.dirty = append(l.dirty, image.Rect(x, y, x+1, y+1))
}

// BlitTile copies an 8x8 (or any-sized) decoded tile image into a layer
// at (x,y) using x/image/draw, and marks the destination rect dirty.
func (s *Sink) BlitTile(layer int, x, y int, tile image.Image) {
	l := s.layers[layer]
	bounds := tile.Bounds()
	dstRect := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(l.buf, dstRect, tile, bounds.Min, draw.Src)
	l.dirty = append(l.dirty, dstRect)
}

// Layer returns a read-only view of one layer buffer for the renderer
// back-end.
func (s *Sink) Layer(i int) *image.NRGBA { return s.layers[i].buf }

// DirtyRects returns and clears the accumulated dirty rectangles for a
// layer since the last call.
func (s *Sink) DirtyRects(i int) []image.Rectangle {
	l := s.layers[i]
	rects := l.dirty
	l.dirty = nil
	return rects
}
