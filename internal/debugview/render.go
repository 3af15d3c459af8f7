// Package debugview draws a bind result for visual inspection: the baked
// mesh, the matched triangle or vertex and the lines from the sample point
// to every contributing corner.
package debugview

import (
	"image"
	"image/color"

	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
)

var (
	Magenta    = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	SampleMark = color.NRGBA{R: 255, G: 48, B: 48, A: 255}
	MeshColor  = color.NRGBA{R: 160, G: 160, B: 170, A: 255}
)

// Tinter supplies a base colour for a texture name.
type Tinter interface {
	Tint(texName string) (color.NRGBA, bool)
}

// Group is a run of triangles drawn with one base colour.
type Group struct {
	FirstTriangle int
	TriangleCount int
	TexPath       string
	Hidden        bool
}

// Options controls the output image.
type Options struct {
	Size        int           // final edge length in pixels
	Supersample int           // render at Size*Supersample, then downsample
	View        mathutil.Vec3 // camera rotation, XYZ Euler degrees
	Tints       Tinter        // optional per-group colour source
}

// Scene is everything one debug image shows.
type Scene struct {
	Mesh   bind.Mesh
	Groups []Group
	Sample mathutil.Vec3 // sample point in mesh space
	Match  bind.Match
}

// Render draws the scene. Overlays are drawn on top of the mesh without a
// depth test so the matched feature stays visible through occluders.
func Render(s Scene, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = 512
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	renderSize := opts.Size * opts.Supersample
	margin := 16 * opts.Supersample
	lineRadius := opts.Supersample / 2

	points := append([]mathutil.Vec3{s.Sample}, s.Mesh.Vertices...)
	proj := FitProjection(points, opts.View, renderSize, margin)

	screen := make([]mathutil.Vec3, len(s.Mesh.Vertices))
	for i, v := range s.Mesh.Vertices {
		screen[i] = proj.Project(v)
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for _, g := range groupsOrWhole(s) {
		if g.Hidden {
			continue
		}
		base := MeshColor
		if opts.Tints != nil {
			if c, ok := opts.Tints.Tint(g.TexPath); ok {
				base = c
			}
		}
		end := g.FirstTriangle + g.TriangleCount
		for ti := g.FirstTriangle; ti < end && ti < len(s.Mesh.Triangles); ti++ {
			tri := s.Mesh.Triangles[ti]
			if !inRange(tri, len(screen)) {
				continue
			}
			FillTriangle(fb, screen[tri[0]], screen[tri[1]], screen[tri[2]], base, &lc)
		}
	}

	drawMatch(fb, s, proj, screen, lineRadius)

	sp := proj.Project(s.Sample)
	fb.Dot(int(sp[0]), int(sp[1]), lineRadius+opts.Supersample, SampleMark)

	return Downsample(fb.Image(), opts.Size)
}

func drawMatch(fb *FrameBuffer, s Scene, proj Projection, screen []mathutil.Vec3, radius int) {
	sp := proj.Project(s.Sample)
	switch s.Match.Strategy {
	case bind.ClosestFace:
		hit := s.Match.Triangle
		if !inRange(hit.Corners, len(screen)) {
			return
		}
		for k := 0; k < 3; k++ {
			a, b := screen[hit.Corners[k]], screen[hit.Corners[(k+1)%3]]
			fb.Line(a[0], a[1], b[0], b[1], radius, Magenta)
		}
		for k, c := range hit.Corners {
			w, ok := CornerShare(hit.Barycentric, k)
			if !ok {
				continue
			}
			v := screen[c]
			fb.Line(sp[0], sp[1], v[0], v[1], radius, WeightColor(w))
		}
	case bind.ClosestVertex:
		v := s.Match.Vertex.Vertex
		if v < 0 || v >= len(screen) {
			return
		}
		fb.Line(sp[0], sp[1], screen[v][0], screen[v][1], radius, Magenta)
	}
}

// CornerShare returns corner k's barycentric coefficient divided by the sum
// of the positive coefficients. Corners with a non-positive coefficient are
// not drawn.
func CornerShare(bary mathutil.Vec3, k int) (float64, bool) {
	if !(bary[k] > 0) {
		return 0, false
	}
	var sum float64
	for _, b := range bary {
		if b > 0 {
			sum += b
		}
	}
	return bary[k] / sum, true
}

// WeightColor ramps from black at 0 to yellow at 1.
func WeightColor(w float64) color.NRGBA {
	c := uint8(mathutil.Clamp01(w)*255 + 0.5)
	return color.NRGBA{R: c, G: c, B: 0, A: 255}
}

func groupsOrWhole(s Scene) []Group {
	if len(s.Groups) > 0 {
		return s.Groups
	}
	return []Group{{TriangleCount: len(s.Mesh.Triangles)}}
}

func inRange(tri [3]int, n int) bool {
	for _, i := range tri {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
