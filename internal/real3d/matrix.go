// Package real3d implements the recursive display-list traversal
// engine: matrix-stack management, polygon-header decoding, model
// decoding, and texture handling (spec.md §3/§4.6).
package real3d

// Mat4 is a 4x4 affine matrix, row-major.
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// YFlip is the coordinate-system correction applied to the root matrix
// (spec.md §4.6: "the renderer's world-view transforms multiply by
// diag(1,-1,-1) before projection").
func YFlip() Mat4 {
	m := Identity()
	m[1][1] = -1
	m[2][2] = -1
	return m
}

// Mul returns a*b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}
