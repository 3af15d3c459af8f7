// Package rig turns a model file into the immutable snapshot the binder works
// on: baked vertices and triangles, per-vertex bone weights and the joints
// those weights refer to.
package rig

import (
	"fmt"
	"path/filepath"
	"strings"

	"skinbind/internal/bind"
	"skinbind/internal/bmd"
	"skinbind/internal/filter"
	"skinbind/internal/mathutil"
	"skinbind/internal/skeleton"
	"skinbind/internal/skin"
	"skinbind/internal/skinfile"
)

// Group is a contiguous run of triangles that came from one sub-mesh.
type Group struct {
	FirstTriangle int
	TriangleCount int
	TexPath       string
	Effect        bool // glow or sprite overlay, not part of the skin surface
}

// Rig is a baked model. It is never mutated after construction and may be
// shared between goroutines.
type Rig struct {
	Source    string
	Mesh      bind.Mesh
	Weights   *skin.Table
	Joints    []skeleton.Joint
	Groups    []Group
	MeshWorld mathutil.Mat4 // mesh local space -> world space
}

// Load reads a .bmd model or a .json/.yaml skin snapshot.
func Load(path string) (*Rig, error) {
	var (
		r   *Rig
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmd":
		meshes, bones, perr := bmd.Parse(path)
		if perr != nil {
			return nil, fmt.Errorf("rig: %w", perr)
		}
		r = FromBMD(meshes, bones)
	case ".json", ".yaml", ".yml":
		f, lerr := skinfile.Load(path)
		if lerr != nil {
			return nil, fmt.Errorf("rig: %w", lerr)
		}
		r, err = FromSkinFile(f)
		if err != nil {
			return nil, fmt.Errorf("rig: %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("rig: %s: unsupported model format", path)
	}
	r.Source = path
	return r, nil
}

// FromBMD bakes the bind pose and merges all sub-meshes into one triangle
// soup. Each vertex follows the single bone recorded in its node.
func FromBMD(meshes []bmd.Mesh, bones []bmd.Bone) *Rig {
	baked := skeleton.Bake(meshes, bones)

	r := &Rig{
		Joints:    skeleton.Joints(bones),
		MeshWorld: mathutil.Mat4Identity(),
	}
	var nodes []int
	for mi, m := range baked {
		base := len(r.Mesh.Vertices)
		for vi, v := range m.Verts {
			r.Mesh.Vertices = append(r.Mesh.Vertices, mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
			node := -1
			if vi < len(meshes[mi].Nodes) {
				node = int(meshes[mi].Nodes[vi])
			}
			if node >= len(bones) {
				node = -1
			}
			nodes = append(nodes, node)
		}

		g := Group{
			FirstTriangle: len(r.Mesh.Triangles),
			TexPath:       m.TexPath,
			Effect:        filter.IsEffectMesh(&meshes[mi]),
		}
		for _, face := range m.Tris {
			for _, tri := range face.Corners() {
				r.Mesh.Triangles = append(r.Mesh.Triangles, [3]int{tri[0] + base, tri[1] + base, tri[2] + base})
			}
		}
		g.TriangleCount = len(r.Mesh.Triangles) - g.FirstTriangle
		r.Groups = append(r.Groups, g)
	}
	r.Weights = skin.FromRigid(nodes)
	return r
}

// FromSkinFile wraps an already baked snapshot.
func FromSkinFile(f *skinfile.File) (*Rig, error) {
	table, err := f.Table()
	if err != nil {
		return nil, err
	}

	verts := make([]mathutil.Vec3, len(f.Vertices))
	for i, v := range f.Vertices {
		verts[i] = mathutil.Vec3(v)
	}
	tris := make([][3]int, len(f.Triangles))
	copy(tris, f.Triangles)

	bones := make([]bmd.Bone, len(f.Bones))
	for i, b := range f.Bones {
		bones[i] = bmd.Bone{
			Name:         b.Name,
			Parent:       b.Parent,
			BindPosition: b.Position,
			BindRotation: mathutil.EulerDeg2Rad(b.Rotation),
		}
	}
	joints := skeleton.Joints(bones)
	for i, b := range f.Bones {
		if b.Missing {
			joints[i].Resolved = false
		}
	}

	meshWorld := mathutil.Mat4Identity()
	if f.MeshTransform != nil {
		meshWorld = TransformMatrix(f.MeshTransform.Position, f.MeshTransform.Rotation)
	}

	return &Rig{
		Mesh:      bind.Mesh{Vertices: verts, Triangles: tris},
		Weights:   table,
		Joints:    joints,
		Groups: []Group{{
			TriangleCount: len(tris),
			TexPath:       f.Texture,
			Effect:        filter.IsEffectTexture(f.Texture),
		}},
		MeshWorld: meshWorld,
	}, nil
}

// TransformMatrix builds a world matrix from a position and XYZ Euler
// rotation in degrees.
func TransformMatrix(position, rotationDeg [3]float64) mathutil.Mat4 {
	return mathutil.TRS(mathutil.Vec3(position), mathutil.EulerDeg2Rad(rotationDeg))
}

// GroupOf returns the group index that owns triangle tri, or -1.
func (r *Rig) GroupOf(tri int) int {
	for i, g := range r.Groups {
		if tri >= g.FirstTriangle && tri < g.FirstTriangle+g.TriangleCount {
			return i
		}
	}
	return -1
}
