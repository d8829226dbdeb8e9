package real3d

import "image"

// TextureBank caches decoded textures in a 64x64-cell x 4-plane grid,
// each cell covering a 32x32 texel region, nulled by InvalidateTextures
// whenever guest code writes texture RAM in that rectangle (spec.md
// §3/§8, original_source/Src/Graphics/New3D/TextureBank.cpp per
// SPEC_FULL.md §4).
const (
	gridCells  = 64
	cellPixels = 32
	numPlanes  = 4
)

type TextureBank struct {
	cells [numPlanes][gridCells][gridCells]*image.NRGBA
}

func NewTextureBank() *TextureBank { return &TextureBank{} }

// Lookup returns the cached decoded texture at (x,y) on plane if
// present, and whether it was a cache hit.
func (b *TextureBank) Lookup(plane, x, y int) (*image.NRGBA, bool) {
	cx, cy := x/cellPixels, y/cellPixels
	if plane < 0 || plane >= numPlanes || cx >= gridCells || cy >= gridCells {
		return nil, false
	}
	img := b.cells[plane][cx][cy]
	return img, img != nil
}

// Store caches a decoded texture at the cell covering (x,y) on plane.
func (b *TextureBank) Store(plane, x, y int, img *image.NRGBA) {
	cx, cy := x/cellPixels, y/cellPixels
	if plane < 0 || plane >= numPlanes || cx >= gridCells || cy >= gridCells {
		return
	}
	b.cells[plane][cx][cy] = img
}

// InvalidateTextures nulls every cell on every plane that the
// rectangle (x,y,w,h) overlaps, so the next Lookup rebuilds them
// (spec.md §8's texture-invalidation boundary scenario).
func (b *TextureBank) InvalidateTextures(x, y, w, h int) {
	x0, y0 := x/cellPixels, y/cellPixels
	x1, y1 := (x+w-1)/cellPixels, (y+h-1)/cellPixels
	for plane := 0; plane < numPlanes; plane++ {
		for cx := x0; cx <= x1 && cx < gridCells; cx++ {
			for cy := y0; cy <= y1 && cy < gridCells; cy++ {
				if cx < 0 || cy < 0 {
					continue
				}
				b.cells[plane][cx][cy] = nil
			}
		}
	}
}
