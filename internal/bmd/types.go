package bmd

// Triangle holds polygon type and index triples into vertex/normal/texcoord arrays.
// Polygon == 4 means quad (two triangles: 0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Corners returns the vertex index triples this face contributes, splitting
// quads along the 0-2 diagonal.
func (t Triangle) Corners() [][3]int {
	first := [3]int{int(t.VI[0]), int(t.VI[1]), int(t.VI[2])}
	if t.Polygon == 4 {
		return [][3]int{first, {int(t.VI[0]), int(t.VI[2]), int(t.VI[3])}}
	}
	return [][3]int{first}
}

// Mesh holds parsed geometry for one sub-mesh within a BMD file.
type Mesh struct {
	Verts   [][3]float32 // vertex positions in the space of bone Nodes[i]
	Nodes   []int16      // bone index per vertex (rigid skinning)
	Normals [][3]float32
	UVs     [][2]float32
	Tris    []Triangle
	TexPath string // texture reference from BMD (e.g. "skin01.jpg")
}

// Bone holds bind-pose data for one bone in the skeleton hierarchy.
type Bone struct {
	Name         string
	Parent       int
	IsDummy      bool
	BindPosition [3]float64
	BindRotation [3]float64 // Euler XYZ radians
}
