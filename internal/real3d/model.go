package real3d

// Memory is the walker's view into guest RAM/VROM. Per spec.md §4.1,
// endianness is a per-region property already applied by the bus
// fabric before the CPU (or, here, the walker) sees the value, so the
// walker never byte-swaps itself — it just reads 32-bit words.
type Memory interface {
	Read32(addr uint32) uint32
}

// VertexScale selects the fixed-point scale for vertex coordinates,
// which is per-hardware-step (spec.md §3).
type VertexScale int

const (
	ScaleStep1_0 VertexScale = 1 << 15 // 17.15
	ScaleStep1_5 VertexScale = 1 << 19 // 13.19
)

// Vertex is one decoded model vertex.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Model is a decoded sequence of polygons ready for the renderer.
type Model struct {
	Headers  []PolygonHeader
	Vertices [][]Vertex // Vertices[i] are the vertices of Headers[i], in link order
}

// DecodeModel walks a sequence of 7-word polygon headers + vertex data
// starting at addr, following spec.md §4.6's deterministic procedure.
// It stops when a header's word 1 bit 2 (end-of-model) is set, or
// defensively when a header's word 6 is entirely zero (malformed data
// guard, spec.md §4.6).
func DecodeModel(mem Memory, addr uint32, scale VertexScale) Model {
	var model Model
	var prev []Vertex

	for {
		var words [7]uint32
		for i := range words {
			words[i] = mem.Read32(addr + uint32(i*4))
		}
		if words[6] == 0 {
			break // defensive guard against malformed data
		}
		h := DecodePolygonHeader(words)
		addr += 7 * 4

		verts := make([]Vertex, h.NumVerts)
		reuseSlot := 0
		for i := 0; i < h.NumVerts; i++ {
			if h.ReuseMask&(1<<uint(i)) != 0 && reuseSlot < len(prev) {
				verts[i] = prev[reuseSlot]
				reuseSlot++
			} else {
				verts[i] = readFreshVertex(mem, &addr, scale, h.UVFormat16)
			}
		}

		model.Headers = append(model.Headers, h)
		model.Vertices = append(model.Vertices, verts)
		prev = verts

		if h.EndOfModel {
			break
		}
	}
	return model
}

func readFreshVertex(mem Memory, addr *uint32, scale VertexScale, uv16 bool) Vertex {
	x := mem.Read32(*addr)
	y := mem.Read32(*addr + 4)
	z := mem.Read32(*addr + 8)
	uvWord := mem.Read32(*addr + 12)
	*addr += 16

	uvScale := 1.0 / 8.0 // 13.3
	if uv16 {
		uvScale = 1.0 // 16.0
	}
	u := int16(uvWord >> 16)
	v := int16(uvWord)

	return Vertex{
		X: float64(int32(x)) / float64(scale),
		Y: float64(int32(y)) / float64(scale),
		Z: float64(int32(z)) / float64(scale),
		U: float64(u) * uvScale,
		V: float64(v) * uvScale,
	}
}
