package real3d

// maxVisitedNodes bounds the per-frame visited-set; spec.md §9 gives
// ~4096 distinct culling nodes as a safe upper bound.
const maxVisitedNodes = 4096

// Renderer receives drawable primitives emitted by the walker (spec.md
// §4.6's draw_model hand-off). The 3D back-end's own GPU resource
// creation is out of scope (spec.md §1).
type Renderer interface {
	DrawModel(addr uint32, model Model, worldMatrix Mat4, lightIndex int)
}

// CullingNode is the 7-word display-list node header (spec.md §3).
type CullingNode struct {
	ChildPtr   uint32
	SiblingPtr uint32
	Bounding   [4]uint32
	Flags      uint32
}

// IsLeaf reports whether ChildPtr names a model rather than another
// culling node (bit 0 of the flags word).
func (n CullingNode) IsLeaf() bool { return n.Flags&1 != 0 }

func decodeCullingNode(words [7]uint32) CullingNode {
	return CullingNode{
		ChildPtr:   words[0],
		SiblingPtr: words[1],
		Bounding:   [4]uint32{words[2], words[3], words[4], words[5]},
		Flags:      words[6],
	}
}

// Walker traverses culling RAM once per frame, applying the matrix
// stack and emitting models to a Renderer (spec.md §4.6).
type Walker struct {
	mem      Memory
	renderer Renderer
	scale    VertexScale

	stack       *MatrixStack
	visited     map[uint32]bool
	lightIndex  int
}

func NewWalker(mem Memory, renderer Renderer, scale VertexScale) *Walker {
	return &Walker{mem: mem, renderer: renderer, scale: scale, stack: NewMatrixStack()}
}

// SetLight selects which light index is attached to subsequently
// emitted batches (spec.md §4.6's "the walker attaches the currently
// selected light index to each emitted batch").
func (w *Walker) SetLight(index int) { w.lightIndex = index }

// SetOverflowHook forwards to the underlying matrix stack.
func (w *Walker) SetOverflowHook(h func()) { w.stack.SetOverflowHook(h) }

// Walk traverses the display list at dlAddr once. Each non-zero,
// non-terminator word in the display list is a pointer to a root
// culling node.
func (w *Walker) Walk(dlAddr uint32) {
	w.visited = make(map[uint32]bool)
	hook := w.stack.onOverflow
	w.stack = NewMatrixStack()
	w.stack.onOverflow = hook
	w.stack.items[0] = YFlip()

	for addr := dlAddr; ; addr += 4 {
		ptr := w.mem.Read32(addr)
		if ptr == 0 {
			break
		}
		w.walkNode(ptr)
	}
}

func (w *Walker) walkNode(addr uint32) {
	if w.visited[addr] || len(w.visited) >= maxVisitedNodes {
		return // cycle guard / malformed-data bound (spec.md §9)
	}
	w.visited[addr] = true

	var words [7]uint32
	for i := range words {
		words[i] = w.mem.Read32(addr + uint32(i*4))
	}
	node := decodeCullingNode(words)

	w.stack.Push(Identity()) // the 7-word header carries no local matrix of its own
	if node.ChildPtr != 0 {
		if node.IsLeaf() {
			w.drawModel(node.ChildPtr)
		} else {
			w.walkNode(node.ChildPtr)
		}
	}
	if node.SiblingPtr != 0 {
		w.walkNode(node.SiblingPtr)
	}
	w.stack.Pop()
}

func (w *Walker) drawModel(addr uint32) {
	model := DecodeModel(w.mem, addr, w.scale)
	if w.renderer != nil {
		w.renderer.DrawModel(addr, model, w.stack.Top(), w.lightIndex)
	}
}
