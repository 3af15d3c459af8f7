// Package skeleton evaluates bone hierarchies and bakes rigidly skinned
// meshes into a static pose.
package skeleton

import (
	"skinbind/internal/bmd"
	"skinbind/internal/mathutil"
)

// BuildWorldMatrices computes the world transform for each bone using bind pose (frame 0, action 0).
// Returns a slice of 4×4 matrices indexed by bone index. Dummy bones keep identity.
func BuildWorldMatrices(bones []bmd.Bone) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(bones))
	for i := range worlds {
		worlds[i] = mathutil.Mat4Identity()
	}

	for i, bone := range bones {
		if bone.IsDummy {
			continue
		}

		local := mathutil.TRS(mathutil.Vec3(bone.BindPosition), mathutil.Vec3(bone.BindRotation))

		// Parents always precede children in BMD order
		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}

	return worlds
}

// Joint is a bone as seen by a constraint: a name and a world transform.
// Resolved is false for bones that cannot drive a constraint (dummies).
type Joint struct {
	Name     string
	World    mathutil.Mat4
	Resolved bool
}

// Joints pairs every bone with its bind-pose world matrix.
func Joints(bones []bmd.Bone) []Joint {
	worlds := BuildWorldMatrices(bones)
	joints := make([]Joint, len(bones))
	for i, b := range bones {
		joints[i] = Joint{Name: b.Name, World: worlds[i], Resolved: !b.IsDummy}
	}
	return joints
}

// Bake returns posed copies of meshes: every vertex is moved from its bone's
// space into model space. The input meshes are not modified, so vertex order
// and per-vertex bone data stay aligned with the result.
func Bake(meshes []bmd.Mesh, bones []bmd.Bone) []bmd.Mesh {
	worlds := BuildWorldMatrices(bones)

	allIdentity := true
	for _, w := range worlds {
		if !w.IsIdentity() {
			allIdentity = false
			break
		}
	}

	baked := make([]bmd.Mesh, len(meshes))
	for mi, mesh := range meshes {
		baked[mi] = mesh
		verts := make([][3]float32, len(mesh.Verts))
		copy(verts, mesh.Verts)
		baked[mi].Verts = verts
		if allIdentity {
			continue
		}

		for vi := range verts {
			if vi >= len(mesh.Nodes) {
				break
			}
			boneIdx := int(mesh.Nodes[vi])
			if boneIdx < 0 || boneIdx >= len(worlds) {
				continue
			}
			v := mathutil.Vec3{float64(verts[vi][0]), float64(verts[vi][1]), float64(verts[vi][2])}
			t := worlds[boneIdx].MulPoint(v)
			verts[vi] = [3]float32{float32(t[0]), float32(t[1]), float32(t[2])}
		}
	}
	return baked
}
