package joblist

import (
	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
)

// Job binds one constrained object to the mesh of one model.
//
// Position/Rotation place the object in world space and are used for the
// per-bone offsets; LocalPosition/LocalRotation become the constraint's rest
// pose. Offset is the sample point in the object's local space. Rotations
// are XYZ Euler degrees.
type Job struct {
	Name          string        `json:"name" yaml:"name"`
	Model         string        `json:"model" yaml:"model"`
	Method        bind.Strategy `json:"method" yaml:"method"`
	Position      mathutil.Vec3 `json:"position" yaml:"position"`
	Rotation      mathutil.Vec3 `json:"rotation" yaml:"rotation"`
	LocalPosition mathutil.Vec3 `json:"localPosition" yaml:"localPosition"`
	LocalRotation mathutil.Vec3 `json:"localRotation" yaml:"localRotation"`
	Offset        mathutil.Vec3 `json:"offset" yaml:"offset"`
	Debug         bool          `json:"debug" yaml:"debug"`
}

// Models returns the distinct model paths in first-use order.
func Models(jobs []Job) []string {
	seen := make(map[string]bool, len(jobs))
	var out []string
	for _, j := range jobs {
		if !seen[j.Model] {
			seen[j.Model] = true
			out = append(out, j.Model)
		}
	}
	return out
}
