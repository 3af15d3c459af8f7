package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// ErrEncrypted is returned for BMD versions whose payload is encrypted.
var ErrEncrypted = errors.New("bmd: encrypted model versions are not supported")

const (
	maxMeshes    = 100
	triangleSize = 64
	nameSize     = 32
)

// Parse reads an unencrypted (version 10) BMD file and returns meshes and bones.
func Parse(path string) ([]Mesh, []Bone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	meshes, bones, err := Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (%s)", err, path)
	}
	return meshes, bones, nil
}

// Decode parses BMD bytes already in memory.
func Decode(raw []byte) ([]Mesh, []Bone, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, nil, fmt.Errorf("bmd: invalid header")
	}
	switch version := raw[3]; version {
	case 12, 15:
		return nil, nil, fmt.Errorf("%w: version %d", ErrEncrypted, version)
	}
	r := &reader{data: raw[4:]}
	return r.parse()
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) skip(n int) {
	r.off = min(r.off+n, len(r.data))
}

func (r *reader) readStr(n int) string {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	if i := strings.IndexByte(string(s), 0); i >= 0 {
		return string(s[:i])
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	return int16(r.readU16())
}

func (r *reader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readF32() float32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readVec3() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

func (r *reader) readByte() byte {
	if r.off >= len(r.data) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) parse() ([]Mesh, []Bone, error) {
	_ = r.readStr(nameSize) // model name
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, nil, fmt.Errorf("bmd: invalid mesh count %d", meshCount)
	}

	meshes := make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		m, err := r.parseMesh()
		if err != nil {
			return nil, nil, fmt.Errorf("bmd: mesh %d: %w", i, err)
		}
		meshes = append(meshes, m)
	}

	// Actions: key counts, optional locked positions we do not need.
	actionKeys := make([]int, actionCount)
	for a := 0; a < actionCount; a++ {
		numKeys := int(r.readI16())
		if numKeys < 0 {
			return nil, nil, fmt.Errorf("bmd: action %d: negative key count %d", a, numKeys)
		}
		if r.readByte() > 0 {
			r.skip(numKeys * 12)
		}
		actionKeys[a] = numKeys
	}

	bones := make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.remaining() <= 0 {
			return nil, nil, fmt.Errorf("bmd: truncated at bone %d of %d", b, boneCount)
		}
		bones = append(bones, r.parseBone(actionKeys))
	}

	return meshes, bones, nil
}

func (r *reader) parseMesh() (Mesh, error) {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	_ = r.readI16() // texture index
	if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
		return Mesh{}, fmt.Errorf("negative element count")
	}

	// Vertices: node:i16, pad:i16, x, y, z:f32
	verts := make([][3]float32, nv)
	nodes := make([]int16, nv)
	for j := 0; j < nv; j++ {
		nodes[j] = r.readI16()
		_ = r.readI16()
		verts[j] = r.readVec3()
	}

	// Normals: node:i16, pad:i16, nx, ny, nz:f32, bindVertex:i16, pad:i16
	normals := make([][3]float32, nn)
	for j := 0; j < nn; j++ {
		_ = r.readI16()
		_ = r.readI16()
		normals[j] = r.readVec3()
		_ = r.readI16()
		_ = r.readI16()
	}

	uvs := make([][2]float32, ntc)
	for j := 0; j < ntc; j++ {
		uvs[j] = [2]float32{r.readF32(), r.readF32()}
	}

	tris := make([]Triangle, nt)
	for j := 0; j < nt; j++ {
		base := r.off
		if base+triangleSize > len(r.data) {
			return Mesh{}, fmt.Errorf("truncated at triangle %d of %d", j, nt)
		}
		t := Triangle{Polygon: int(r.data[base])}
		for k := 0; k < 4; k++ {
			t.VI[k] = int16(binary.LittleEndian.Uint16(r.data[base+2+k*2:]))
			t.NI[k] = int16(binary.LittleEndian.Uint16(r.data[base+10+k*2:]))
			t.TI[k] = int16(binary.LittleEndian.Uint16(r.data[base+18+k*2:]))
		}
		tris[j] = t
		r.off += triangleSize
	}

	texPath := strings.ReplaceAll(r.readStr(nameSize), "\\", "/")

	return Mesh{
		Verts:   verts,
		Nodes:   nodes,
		Normals: normals,
		UVs:     uvs,
		Tris:    tris,
		TexPath: texPath,
	}, nil
}

// parseBone reads one bone; the bind pose is the first key of action 0.
func (r *reader) parseBone(actionKeys []int) Bone {
	if r.readByte() > 0 {
		return Bone{Parent: -1, IsDummy: true}
	}

	name := r.readStr(nameSize)
	parent := int(r.readI16())

	var bindPos, bindRot [3]float64
	for a, numKeys := range actionKeys {
		for k := 0; k < numKeys; k++ {
			p := r.readVec3()
			if a == 0 && k == 0 {
				bindPos = [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
			}
		}
		for k := 0; k < numKeys; k++ {
			rot := r.readVec3()
			if a == 0 && k == 0 {
				bindRot = [3]float64{float64(rot[0]), float64(rot[1]), float64(rot[2])}
			}
		}
	}

	return Bone{
		Name:         name,
		Parent:       parent,
		BindPosition: bindPos,
		BindRotation: bindRot,
	}
}
