package batch

import (
	"errors"
	"fmt"
	"image"

	"skinbind/internal/bind"
	"skinbind/internal/constraint"
	"skinbind/internal/debugview"
	"skinbind/internal/joblist"
	"skinbind/internal/mathutil"
	"skinbind/internal/rig"
)

// Outcome is everything computed for one job.
type Outcome struct {
	Sample     mathutil.Vec3 // sample point in mesh space
	Matched    bool          // Result.Match is set, even if no weight resolved
	Result     bind.Result
	Constraint constraint.ParentConstraint
}

// Bind samples the model at the job's point and builds the constraint.
// When weights resolve but no bone can drive a constraint, the returned
// Outcome still carries the weights alongside the error.
func Bind(m *Model, job joblist.Job) (Outcome, error) {
	object := rig.TransformMatrix(job.Position, job.Rotation)
	out := Outcome{
		Sample: constraint.SamplePoint(object, job.Offset, m.Rig.MeshWorld),
	}

	res, err := m.Resolver.Resolve(out.Sample, job.Method)
	out.Result = res
	out.Matched = err == nil || errors.Is(err, bind.ErrNoContribution)
	if err != nil {
		return out, err
	}

	ref := constraint.Reference{
		World: constraint.Transform{Position: job.Position, Rotation: job.Rotation},
		Local: constraint.Transform{Position: job.LocalPosition, Rotation: job.LocalRotation},
	}
	c, err := constraint.Build(res.Weights, m.Rig.Joints, ref)
	if err != nil {
		return out, fmt.Errorf("%s: %w", job.Name, err)
	}
	out.Constraint = c
	return out, nil
}

// DebugImage draws the outcome over the model's baked mesh.
func DebugImage(m *Model, out Outcome, opts debugview.Options) *image.NRGBA {
	groups := make([]debugview.Group, len(m.Rig.Groups))
	for i, g := range m.Rig.Groups {
		groups[i] = debugview.Group{
			FirstTriangle: g.FirstTriangle,
			TriangleCount: g.TriangleCount,
			TexPath:       g.TexPath,
			Hidden:        g.Effect,
		}
	}
	if m.Textures != nil {
		opts.Tints = m.Textures
	}
	return debugview.Render(debugview.Scene{
		Mesh:   m.Rig.Mesh,
		Groups: groups,
		Sample: out.Sample,
		Match:  out.Result.Match,
	}, opts)
}
