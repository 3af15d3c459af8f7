// Package constraint turns resolved bone weights into a parent constraint:
// one weighted source per bone plus the rest offsets that keep the
// constrained object where it was when the weights were sampled.
package constraint

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
	"skinbind/internal/skeleton"
)

// ErrNoSources is returned when none of the weighted bones can drive a constraint.
var ErrNoSources = errors.New("constraint: no resolvable source bones")

// Transform is a position plus XYZ Euler rotation in degrees.
type Transform struct {
	Position mathutil.Vec3 `json:"position" yaml:"position"`
	Rotation mathutil.Vec3 `json:"rotation" yaml:"rotation"`
}

// Matrix returns the affine matrix of t.
func (t Transform) Matrix() mathutil.Mat4 {
	return mathutil.TRS(t.Position, mathutil.EulerDeg2Rad(t.Rotation))
}

// Reference describes the constrained object at bind time: its world
// transform, used for the per-source offsets, and its local transform,
// which becomes the rest pose.
type Reference struct {
	World Transform
	Local Transform
}

// Source is one bone driving the constraint.
type Source struct {
	Bone              int           `json:"bone"`
	Name              string        `json:"name"`
	Weight            float64       `json:"weight"`
	TranslationOffset mathutil.Vec3 `json:"translationOffset"`
	RotationOffset    mathutil.Vec3 `json:"rotationOffset"`
}

// ParentConstraint is the fully configured constraint, locked and active.
type ParentConstraint struct {
	Sources           []Source      `json:"sources"`
	TranslationAtRest mathutil.Vec3 `json:"translationAtRest"`
	RotationAtRest    mathutil.Vec3 `json:"rotationAtRest"`
	Locked            bool          `json:"locked"`
	Active            bool          `json:"active"`
}

// HasMultipleSources reports whether more than one bone drives the constraint.
// A single source usually means the sample point sits inside a rigid region.
func (c ParentConstraint) HasMultipleSources() bool {
	return len(c.Sources) > 1
}

// SamplePoint maps samplerOffset, given in the local space of object, into
// the local space of the mesh.
func SamplePoint(object mathutil.Mat4, samplerOffset mathutil.Vec3, mesh mathutil.Mat4) mathutil.Vec3 {
	world := object.MulPoint(samplerOffset)
	return mesh.InverseTransformPoint(world)
}

// Build creates one source per weighted bone that has a resolvable joint.
// Weights are divided by the sum of the whole map, so dropped bones still
// count towards the total. Sources come out ordered by bone index.
func Build(weights bind.Weights, joints []skeleton.Joint, ref Reference) (ParentConstraint, error) {
	sum := weights.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return ParentConstraint{}, fmt.Errorf("constraint: weight sum %v: %w", sum, ErrNoSources)
	}

	refPos := ref.World.Position
	refRot := mathutil.QuatToMat3(eulerQuat(ref.World.Rotation))

	var sources []Source
	for bone, w := range weights {
		if bone < 0 || bone >= len(joints) || !joints[bone].Resolved {
			continue
		}
		j := joints[bone]
		boneRot := j.World.Linear().Orthonormalize()
		offsetRot := mathutil.Mat3Mul(boneRot.Transpose(), refRot)
		sources = append(sources, Source{
			Bone:              bone,
			Name:              j.Name,
			Weight:            w / sum,
			TranslationOffset: j.World.InverseTransformPoint(refPos),
			RotationOffset:    wrapDegrees(mathutil.EulerRad2Deg(offsetRot.Euler())),
		})
	}
	if len(sources) == 0 {
		return ParentConstraint{}, ErrNoSources
	}
	sort.Slice(sources, func(a, b int) bool { return sources[a].Bone < sources[b].Bone })

	return ParentConstraint{
		Sources:           sources,
		TranslationAtRest: ref.Local.Position,
		RotationAtRest:    wrapDegrees(ref.Local.Rotation),
		Locked:            true,
		Active:            true,
	}, nil
}

func eulerQuat(deg mathutil.Vec3) mathutil.Quat {
	r := mathutil.EulerDeg2Rad(deg)
	return mathutil.EulerToQuat(r[0], r[1], r[2])
}

// wrapDegrees folds each angle into [0, 360).
func wrapDegrees(e mathutil.Vec3) mathutil.Vec3 {
	for i, a := range e {
		a = math.Mod(a, 360)
		if a < 0 {
			a += 360
		}
		if a >= 360-1e-9 || math.Abs(a) < 1e-9 {
			a = 0
		}
		e[i] = a
	}
	return e
}
