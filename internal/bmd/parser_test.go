package bmd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// bmdWriter assembles little-endian BMD bytes for tests.
type bmdWriter struct{ bytes.Buffer }

func (w *bmdWriter) str(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.Write(b)
}

func (w *bmdWriter) i16(v int16)   { binary.Write(&w.Buffer, binary.LittleEndian, v) }
func (w *bmdWriter) f32(v float32) { binary.Write(&w.Buffer, binary.LittleEndian, v) }

func (w *bmdWriter) vec3(x, y, z float32) {
	w.f32(x)
	w.f32(y)
	w.f32(z)
}

// quadModel has one quad mesh over two bones and one single-key action.
func quadModel() []byte {
	w := &bmdWriter{}
	w.WriteString("BMD")
	w.WriteByte(10)
	w.str("quad", 32)
	w.i16(1) // meshes
	w.i16(3) // bones
	w.i16(1) // actions

	w.i16(4) // verts
	w.i16(1) // normals
	w.i16(1) // texcoords
	w.i16(1) // triangles
	w.i16(0) // texture

	corners := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for i, c := range corners {
		w.i16(int16(i / 2))
		w.i16(0)
		w.vec3(c[0], c[1], c[2])
	}
	w.i16(0)
	w.i16(0)
	w.vec3(0, 0, 1)
	w.i16(0)
	w.i16(0)
	w.f32(0.5)
	w.f32(0.5)

	tri := make([]byte, 64)
	tri[0] = 4
	for k := 0; k < 4; k++ {
		binary.LittleEndian.PutUint16(tri[2+k*2:], uint16(k))
	}
	w.Write(tri)
	w.str(`texture\skin01.jpg`, 32)

	// action 0: one key, no locked positions
	w.i16(1)
	w.WriteByte(0)

	// bone 0: root
	w.WriteByte(0)
	w.str("Root", 32)
	w.i16(-1)
	w.vec3(0, 0, 2)
	w.vec3(0, 0, 0)

	// bone 1: child
	w.WriteByte(0)
	w.str("Arm", 32)
	w.i16(0)
	w.vec3(1, 0, 0)
	w.vec3(0, 0, 1.5)

	// bone 2: dummy
	w.WriteByte(1)

	return w.Bytes()
}

func TestDecodeQuadModel(t *testing.T) {
	meshes, bones, err := Decode(quadModel())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("want 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if len(m.Verts) != 4 || m.Verts[2] != [3]float32{1, 1, 0} {
		t.Fatalf("unexpected verts %v", m.Verts)
	}
	if m.Nodes[0] != 0 || m.Nodes[3] != 1 {
		t.Fatalf("unexpected nodes %v", m.Nodes)
	}
	if m.TexPath != "texture/skin01.jpg" {
		t.Fatalf("texture path not normalized: %q", m.TexPath)
	}
	if got := m.Tris[0].Corners(); len(got) != 2 || got[0] != [3]int{0, 1, 2} || got[1] != [3]int{0, 2, 3} {
		t.Fatalf("quad split: %v", got)
	}

	if len(bones) != 3 {
		t.Fatalf("want 3 bones, got %d", len(bones))
	}
	if bones[0].Name != "Root" || bones[0].Parent != -1 || bones[0].BindPosition != [3]float64{0, 0, 2} {
		t.Fatalf("root bone: %+v", bones[0])
	}
	if bones[1].Name != "Arm" || bones[1].Parent != 0 || bones[1].BindRotation[2] != 1.5 {
		t.Fatalf("arm bone: %+v", bones[1])
	}
	if !bones[2].IsDummy || bones[2].Parent != -1 {
		t.Fatalf("dummy bone: %+v", bones[2])
	}
}

func TestParseFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.bmd")
	if err := os.WriteFile(path, quadModel(), 0o644); err != nil {
		t.Fatal(err)
	}
	meshes, bones, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(meshes) != 1 || len(bones) != 3 {
		t.Fatalf("unexpected counts: meshes=%d bones=%d", len(meshes), len(bones))
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, _, err := Decode([]byte("OBJ\x0a")); err == nil {
		t.Fatalf("expected header error")
	}
	if _, _, err := Decode([]byte("BMD\x0c\x00\x00\x00\x00")); !errors.Is(err, ErrEncrypted) {
		t.Fatalf("want ErrEncrypted, got %v", err)
	}
	truncated := quadModel()[:120]
	if _, _, err := Decode(truncated); err == nil {
		t.Fatalf("expected truncation error")
	}
}

// actionHeader is a mesh-less model with one bone and one locked action.
func actionHeader(numKeys int16) []byte {
	w := &bmdWriter{}
	w.WriteString("BMD")
	w.WriteByte(10)
	w.str("actions", 32)
	w.i16(0) // meshes
	w.i16(1) // bones
	w.i16(1) // actions
	w.i16(numKeys)
	w.WriteByte(1) // lock positions
	w.Write(make([]byte, 48))
	return w.Bytes()
}

func TestDecodeBadActionKeys(t *testing.T) {
	tests := []struct {
		name    string
		numKeys int16
	}{
		{"negative", -16},
		{"skip past end", 30000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decode panicked: %v", r)
				}
			}()
			if _, _, err := Decode(actionHeader(tt.numKeys)); err == nil {
				t.Fatalf("expected error for key count %d", tt.numKeys)
			}
		})
	}
}

func TestTriangleCorners(t *testing.T) {
	tri := Triangle{Polygon: 3, VI: [4]int16{5, 6, 7, 0}}
	if got := tri.Corners(); len(got) != 1 || got[0] != [3]int{5, 6, 7} {
		t.Fatalf("triangle corners: %v", got)
	}
}
