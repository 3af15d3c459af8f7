// Package bind computes the static bone blend that best follows a point
// sampled on a skinned surface.
//
// Given a baked mesh snapshot, its per-vertex bone weights and a sample
// point in the mesh's local space, the package locates the nearest triangle
// (barycentric blend of its corners) or the nearest vertex and returns a
// normalized bone index -> weight map. Everything here is a pure function of
// its inputs; independent sample points may be resolved concurrently.
package bind

import (
	"fmt"

	"skinbind/internal/mathutil"
	"skinbind/internal/skin"
)

// Mesh is an immutable, posed snapshot in local space.
type Mesh struct {
	Vertices  []mathutil.Vec3
	Triangles [][3]int
}

// VertexLocator finds the nearest vertex. Implementations must agree with
// NearestVertex exactly, including its tie-break.
type VertexLocator interface {
	NearestVertex(p mathutil.Vec3) (VertexHit, bool)
}

// Match records which feature the weights were sampled from.
type Match struct {
	Strategy Strategy
	Triangle TriangleHit // set for ClosestFace
	Vertex   VertexHit   // set for ClosestVertex
}

// Result is a normalized weight map and the feature it came from.
type Result struct {
	Weights Weights
	Match   Match
}

// ResolveBoneWeights samples normalized bone weights at p with the given
// strategy using brute-force scans.
func ResolveBoneWeights(mesh Mesh, table *skin.Table, p mathutil.Vec3, strategy Strategy) (Result, error) {
	return NewResolver(mesh, table).Resolve(p, strategy)
}

// Resolver answers repeated queries against one mesh.
type Resolver struct {
	mesh    Mesh
	table   *skin.Table
	locator VertexLocator
}

func NewResolver(mesh Mesh, table *skin.Table) *Resolver {
	return &Resolver{mesh: mesh, table: table}
}

// WithLocator swaps the brute-force vertex scan for an accelerated locator.
func (r *Resolver) WithLocator(l VertexLocator) *Resolver {
	r.locator = l
	return r
}

func (r *Resolver) Resolve(p mathutil.Vec3, strategy Strategy) (Result, error) {
	match := Match{Strategy: strategy}
	var contributions []Contribution

	switch strategy {
	case ClosestFace:
		hit, ok := NearestTriangle(r.mesh.Vertices, r.mesh.Triangles, p)
		if !ok {
			return Result{}, fmt.Errorf("bind: nearest triangle among %d: %w", len(r.mesh.Triangles), ErrNoMatch)
		}
		match.Triangle = hit
		contributions = FaceContributions(hit)
	case ClosestVertex:
		hit, ok := r.nearestVertex(p)
		if !ok {
			return Result{}, fmt.Errorf("bind: nearest vertex among %d: %w", len(r.mesh.Vertices), ErrNoMatch)
		}
		match.Vertex = hit
		contributions = VertexContributions(hit)
	default:
		return Result{}, fmt.Errorf("bind: resolve with %v: %w", strategy, ErrUnknownStrategy)
	}

	weights, err := Normalize(Accumulate(contributions, r.table))
	if err != nil {
		return Result{Match: match}, err
	}
	return Result{Weights: weights, Match: match}, nil
}

func (r *Resolver) nearestVertex(p mathutil.Vec3) (VertexHit, bool) {
	if r.locator != nil {
		return r.locator.NearestVertex(p)
	}
	return NearestVertex(r.mesh.Vertices, p)
}
