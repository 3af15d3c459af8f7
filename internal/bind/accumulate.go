package bind

import "skinbind/internal/skin"

// Weights maps a bone index to its (accumulated or normalized) weight.
type Weights map[int]float64

// Sum adds every weight.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Contribution asks the accumulator to add a vertex's bone weights scaled by
// Coefficient.
type Contribution struct {
	Vertex      int
	Coefficient float64
}

// Accumulate blends the bone weights of each contributing vertex. Coefficients
// that are not strictly positive are skipped without a table lookup.
// Coefficients above 1 are kept as is; Normalize restores the overall scale.
func Accumulate(contributions []Contribution, table *skin.Table) Weights {
	acc := make(Weights)
	for _, c := range contributions {
		if !(c.Coefficient > 0) {
			continue
		}
		for _, bw := range table.Weights(c.Vertex) {
			acc[bw.Bone] += c.Coefficient * bw.Weight
		}
	}
	return acc
}

// FaceContributions pairs each corner of a triangle hit with its barycentric
// coefficient.
func FaceContributions(hit TriangleHit) []Contribution {
	return []Contribution{
		{Vertex: hit.Corners[0], Coefficient: hit.Barycentric[0]},
		{Vertex: hit.Corners[1], Coefficient: hit.Barycentric[1]},
		{Vertex: hit.Corners[2], Coefficient: hit.Barycentric[2]},
	}
}

// VertexContributions gives the nearest vertex full weight.
func VertexContributions(hit VertexHit) []Contribution {
	return []Contribution{{Vertex: hit.Vertex, Coefficient: 1}}
}
