// Package skinfile reads a baked skinned-mesh snapshot from JSON or YAML.
//
// Layout (YAML shown, JSON uses the same keys):
//
//	vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	triangles: [[0, 1, 2]]
//	bonesPerVertex: [1, 1, 2]
//	boneWeights:
//	  - {bone: 0, weight: 1}
//	  - {bone: 1, weight: 1}
//	  - {bone: 1, weight: 0.5}
//	  - {bone: 2, weight: 0.5}
//	bones:
//	  - {name: Hips, parent: -1, position: [0, 1, 0], rotation: [0, 0, 0]}
//	meshTransform: {position: [0, 0, 0], rotation: [0, 0, 0]}
//
// Rotations are XYZ Euler angles in degrees.
package skinfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"skinbind/internal/skin"
)

// File mirrors the on-disk document.
type File struct {
	Vertices       [][3]float64      `json:"vertices" yaml:"vertices"`
	Triangles      [][3]int          `json:"triangles" yaml:"triangles"`
	BonesPerVertex []int             `json:"bonesPerVertex" yaml:"bonesPerVertex"`
	BoneWeights    []skin.BoneWeight `json:"boneWeights" yaml:"boneWeights"`
	Bones          []Bone            `json:"bones" yaml:"bones"`
	MeshTransform  *Transform        `json:"meshTransform,omitempty" yaml:"meshTransform,omitempty"`
	Texture        string            `json:"texture,omitempty" yaml:"texture,omitempty"`
}

// Bone is a local bind transform relative to Parent (-1 for roots).
type Bone struct {
	Name     string     `json:"name" yaml:"name"`
	Parent   int        `json:"parent" yaml:"parent"`
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [3]float64 `json:"rotation" yaml:"rotation"`
	Missing  bool       `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Transform is a position plus XYZ Euler rotation in degrees.
type Transform struct {
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [3]float64 `json:"rotation" yaml:"rotation"`
}

// Load reads path, picking the decoder from the extension (.json, .yaml, .yml).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skinfile: read %s: %w", path, err)
	}
	f, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("skinfile: %s: %w", path, err)
	}
	return f, nil
}

// Decode parses data in the format named by ext and validates it.
func Decode(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks cross references. Triangle indices are left to the scanner,
// which skips triangles that point outside the vertex list.
func (f *File) Validate() error {
	if len(f.BonesPerVertex) != 0 && len(f.BonesPerVertex) != len(f.Vertices) {
		return fmt.Errorf("bonesPerVertex has %d entries for %d vertices", len(f.BonesPerVertex), len(f.Vertices))
	}
	for i, bw := range f.BoneWeights {
		if bw.Bone < 0 {
			return fmt.Errorf("boneWeights[%d]: negative bone index %d", i, bw.Bone)
		}
		if len(f.Bones) > 0 && bw.Bone >= len(f.Bones) {
			return fmt.Errorf("boneWeights[%d]: bone %d out of range (%d bones)", i, bw.Bone, len(f.Bones))
		}
	}
	for i, b := range f.Bones {
		if b.Parent >= i {
			return fmt.Errorf("bones[%d] %q: parent %d must precede it", i, b.Name, b.Parent)
		}
	}
	return nil
}

// Table decodes the flattened weights into a per-vertex table.
func (f *File) Table() (*skin.Table, error) {
	counts := f.BonesPerVertex
	if len(counts) == 0 {
		counts = make([]int, len(f.Vertices))
	}
	return skin.FromFlattened(counts, f.BoneWeights)
}
