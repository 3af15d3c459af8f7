// Package spatial accelerates nearest-vertex queries with a k-d tree while
// keeping the answers identical to a linear scan.
package spatial

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
)

// tieSlack inflates the squared search radius of the candidate pass so that
// every vertex whose Euclidean distance rounds to the minimum is collected.
const tieSlack = 1e-9

// VertexIndex answers nearest-vertex queries over an immutable vertex list.
type VertexIndex struct {
	vertices []mathutil.Vec3
	tree     *kdtree.Tree
}

// NewVertexIndex builds the tree. Non-finite vertices are left out; they can
// never be selected by the linear scan either.
func NewVertexIndex(vertices []mathutil.Vec3) *VertexIndex {
	pts := make(vertexPoints, 0, len(vertices))
	for i, v := range vertices {
		if v.IsFinite() {
			pts = append(pts, vertexPoint{pos: v, index: i})
		}
	}
	idx := &VertexIndex{vertices: vertices}
	if len(pts) > 0 {
		idx.tree = kdtree.New(pts, false)
	}
	return idx
}

// NearestVertex returns the same vertex bind.NearestVertex would: the smallest
// Euclidean distance, and the lowest index among exact ties.
func (x *VertexIndex) NearestVertex(p mathutil.Vec3) (bind.VertexHit, bool) {
	if x.tree == nil || !p.IsFinite() {
		return bind.NearestVertex(x.vertices, p)
	}
	q := vertexPoint{pos: p, index: -1}
	_, minSq := x.tree.Nearest(q)

	keep := kdtree.NewDistKeeper(minSq + minSq*tieSlack + tieSlack*tieSlack)
	x.tree.NearestSet(keep, q)

	best := bind.Invalid
	hit := bind.VertexHit{Vertex: -1}
	for _, c := range keep.Heap {
		vp, ok := c.Comparable.(vertexPoint)
		if !ok {
			continue
		}
		d := bind.Valid(vp.pos.Dist(p))
		if d.Less(best) || (d == best && vp.index < hit.Vertex) {
			best = d
			hit.Vertex = vp.index
		}
	}
	dist, ok := best.Value()
	if !ok {
		return bind.VertexHit{}, false
	}
	hit.Distance = dist
	return hit, true
}

// Len reports how many vertices the tree holds.
func (x *VertexIndex) Len() int {
	if x.tree == nil {
		return 0
	}
	return x.tree.Count
}

type vertexPoint struct {
	pos   mathutil.Vec3
	index int
}

func (p vertexPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(vertexPoint)
	return p.pos[d] - q.pos[d]
}

func (p vertexPoint) Dims() int { return 3 }

// Distance is the squared Euclidean distance, as kdtree expects.
func (p vertexPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(vertexPoint)
	d := p.pos.Sub(q.pos)
	return d.Dot(d)
}

type vertexPoints []vertexPoint

func (p vertexPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p vertexPoints) Len() int                      { return len(p) }
func (p vertexPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p vertexPoints) Pivot(d kdtree.Dim) int {
	return vertexPlane{vertexPoints: p, dim: d}.pivot()
}

// vertexPlane sorts points along one dimension for median selection.
type vertexPlane struct {
	vertexPoints
	dim kdtree.Dim
}

func (p vertexPlane) Less(i, j int) bool {
	return p.vertexPoints[i].pos[p.dim] < p.vertexPoints[j].pos[p.dim]
}

func (p vertexPlane) Swap(i, j int) {
	p.vertexPoints[i], p.vertexPoints[j] = p.vertexPoints[j], p.vertexPoints[i]
}

func (p vertexPlane) Slice(start, end int) kdtree.SortSlicer {
	return vertexPlane{vertexPoints: p.vertexPoints[start:end], dim: p.dim}
}

func (p vertexPlane) pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
