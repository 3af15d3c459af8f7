package debugview

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
)

func quadScene() Scene {
	return Scene{
		Mesh: bind.Mesh{
			Vertices:  []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
		},
		Sample: mathutil.Vec3{0.8, 0.2, 0.1},
	}
}

type fixedTint color.NRGBA

func (f fixedTint) Tint(string) (color.NRGBA, bool) { return color.NRGBA(f), true }

func TestCornerShare(t *testing.T) {
	bary := mathutil.Vec3{0.6, -0.2, 0.6}
	w, ok := CornerShare(bary, 0)
	if !ok || math.Abs(w-0.5) > 1e-12 {
		t.Fatalf("corner 0 share = %v %v, want 0.5", w, ok)
	}
	if _, ok := CornerShare(bary, 1); ok {
		t.Fatalf("negative coefficient must not be drawn")
	}
	if _, ok := CornerShare(mathutil.Vec3{math.NaN(), 1, 0}, 0); ok {
		t.Fatalf("NaN coefficient must not be drawn")
	}
}

func TestWeightColor(t *testing.T) {
	if c := WeightColor(0); c != (color.NRGBA{A: 255}) {
		t.Fatalf("zero weight should be black, got %v", c)
	}
	if c := WeightColor(1); c != (color.NRGBA{R: 255, G: 255, A: 255}) {
		t.Fatalf("full weight should be yellow, got %v", c)
	}
	if c := WeightColor(2); c.R != 255 {
		t.Fatalf("weights above 1 clamp, got %v", c)
	}
}

func TestFitProjection(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -1, 0}, {1, 1, 0}, {math.Inf(1), 0, 0}}
	p := FitProjection(pts, mathutil.Vec3{}, 100, 10)

	lo := p.Project(mathutil.Vec3{-1, -1, 0})
	hi := p.Project(mathutil.Vec3{1, 1, 0})
	if math.Abs(lo[0]-10) > 1e-9 || math.Abs(hi[0]-90) > 1e-9 {
		t.Fatalf("x extent %v..%v, want 10..90", lo[0], hi[0])
	}
	if lo[1] < hi[1] {
		t.Fatalf("screen y should grow downwards: %v %v", lo, hi)
	}
}

func TestFillTriangleDepth(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	lc := DefaultLightConfig()
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	FillTriangle(fb, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{8, 0, 1}, mathutil.Vec3{0, 8, 1}, red, &lc)
	FillTriangle(fb, mathutil.Vec3{0, 0, 0}, mathutil.Vec3{8, 0, 0}, mathutil.Vec3{0, 8, 0}, blue, &lc)

	i := (1*fb.Width + 1) * 4
	if fb.Color[i+3] != 255 || fb.Color[i] == 0 || fb.Color[i+2] != 0 {
		t.Fatalf("nearer red face should win, got %v", fb.Color[i:i+4])
	}
	j := (7*fb.Width + 7) * 4
	if fb.Color[j+3] != 0 {
		t.Fatalf("pixel outside the triangle was written")
	}
}

func TestLineEndpoints(t *testing.T) {
	fb := NewFrameBuffer(10, 10)
	fb.Line(1, 1, 8, 5, 0, Magenta)
	for _, p := range []image.Point{{1, 1}, {8, 5}} {
		i := (p.Y*fb.Width + p.X) * 4
		if fb.Color[i] != 255 || fb.Color[i+2] != 255 {
			t.Fatalf("endpoint %v not drawn", p)
		}
	}
	fb.Line(math.NaN(), 0, 3, 3, 0, Magenta) // must not hang or panic
}

func TestRenderOverlay(t *testing.T) {
	s := quadScene()
	res, err := bind.ResolveBoneWeights(s.Mesh, nil, s.Sample, bind.ClosestFace)
	if err == nil {
		t.Fatalf("expected no contribution without a weight table")
	}
	s.Match = res.Match

	img := Render(s, Options{Size: 64, Supersample: 2, Tints: fixedTint{R: 40, G: 200, B: 40, A: 255}})
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}

	var magenta, opaque int
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] > 0 {
			opaque++
		}
		if img.Pix[i] > 200 && img.Pix[i+1] < 80 && img.Pix[i+2] > 200 {
			magenta++
		}
	}
	if opaque == 0 {
		t.Fatalf("mesh not drawn")
	}
	if magenta == 0 {
		t.Fatalf("matched triangle outline not drawn")
	}
}

func TestRenderVertexMatch(t *testing.T) {
	s := quadScene()
	s.Match = bind.Match{Strategy: bind.ClosestVertex, Vertex: bind.VertexHit{Vertex: 1}}
	img := Render(s, Options{Size: 32, Supersample: 1})
	if img.Bounds().Dx() != 32 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
}

func TestWriteWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bind.webp")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, Magenta)
	if err := WriteWebP(path, img); err != nil {
		t.Fatalf("WriteWebP: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Fatalf("output is not a RIFF/WEBP container")
	}
}
