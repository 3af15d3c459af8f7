// Package skin holds per-vertex bone influences.
package skin

import "fmt"

// BoneWeight is one (bone, weight) influence on a vertex.
type BoneWeight struct {
	Bone   int     `json:"bone" yaml:"bone"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Table maps a vertex index to its ordered, sparse list of bone influences.
// A Table is read-only once built; lookups never allocate.
type Table struct {
	rows [][]BoneWeight
}

// NewTable wraps rows directly. Row i belongs to vertex i.
func NewTable(rows [][]BoneWeight) *Table {
	return &Table{rows: rows}
}

// FromFlattened decodes the packed layout used by most engines: one count per
// vertex plus a single array holding every vertex's influences back to back.
func FromFlattened(countPerVertex []int, all []BoneWeight) (*Table, error) {
	rows := make([][]BoneWeight, len(countPerVertex))
	start := 0
	for v, n := range countPerVertex {
		if n < 0 {
			return nil, fmt.Errorf("skin: vertex %d has negative bone count %d", v, n)
		}
		if start+n > len(all) {
			return nil, fmt.Errorf("skin: vertex %d needs weights [%d:%d] but only %d are present", v, start, start+n, len(all))
		}
		rows[v] = all[start : start+n : start+n]
		start += n
	}
	if start != len(all) {
		return nil, fmt.Errorf("skin: %d trailing bone weights not claimed by any vertex", len(all)-start)
	}
	return &Table{rows: rows}, nil
}

// FromRigid builds a table where each vertex follows exactly one bone at full
// weight. Negative bone indices leave the vertex without influences.
func FromRigid(boneOfVertex []int) *Table {
	backing := make([]BoneWeight, 0, len(boneOfVertex))
	rows := make([][]BoneWeight, len(boneOfVertex))
	for v, b := range boneOfVertex {
		if b < 0 {
			continue
		}
		backing = append(backing, BoneWeight{Bone: b, Weight: 1})
		rows[v] = backing[len(backing)-1 : len(backing) : len(backing)]
	}
	return &Table{rows: rows}
}

// Weights returns the influences of vertex v, or nil when v is out of range.
// The returned slice must not be modified.
func (t *Table) Weights(v int) []BoneWeight {
	if t == nil || v < 0 || v >= len(t.rows) {
		return nil
	}
	return t.rows[v]
}

// Len returns the number of vertices the table covers.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Stats summarises a table for inspection output.
type Stats struct {
	Vertices      int
	Influences    int
	MaxPerVertex  int
	Unweighted    int
	DistinctBones int
}

func (t *Table) Stats() Stats {
	s := Stats{Vertices: t.Len()}
	bones := make(map[int]struct{})
	for v := 0; v < t.Len(); v++ {
		row := t.rows[v]
		s.Influences += len(row)
		if len(row) > s.MaxPerVertex {
			s.MaxPerVertex = len(row)
		}
		if len(row) == 0 {
			s.Unweighted++
		}
		for _, bw := range row {
			bones[bw.Bone] = struct{}{}
		}
	}
	s.DistinctBones = len(bones)
	return s
}
