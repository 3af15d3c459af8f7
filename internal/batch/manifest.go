package batch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"skinbind/internal/bind"
	"skinbind/internal/constraint"
	"skinbind/internal/mathutil"
)

// MatchInfo describes the mesh feature a job was sampled from.
type MatchInfo struct {
	Method      string         `json:"method"`
	Triangle    *int           `json:"triangle,omitempty"`
	Corners     *[3]int        `json:"corners,omitempty"`
	Barycentric *mathutil.Vec3 `json:"barycentric,omitempty"`
	Vertex      *int           `json:"vertex,omitempty"`
	Distance    float64        `json:"distance"`
}

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name       string                       `json:"name"`
	Model      string                       `json:"model"`
	Sample     mathutil.Vec3                `json:"sample"`
	Match      *MatchInfo                   `json:"match,omitempty"`
	Weights    bind.Weights                 `json:"weights,omitempty"`
	Constraint *constraint.Document `json:"constraint,omitempty"`
	Image      string                       `json:"image,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// NewManifestEntry converts a result for serialization, exporting the
// constraint in the shape selected by export.
func NewManifestEntry(r Result, export constraint.Export) ManifestEntry {
	e := ManifestEntry{
		Name:    r.Job.Name,
		Model:   r.Job.Model,
		Sample:  r.Outcome.Sample,
		Weights: r.Outcome.Result.Weights,
		Image:   r.Image,
		Error:   r.Error,
	}
	if r.Outcome.Matched {
		e.Match = MatchFor(r.Outcome.Result.Match)
	}
	if r.Success {
		d := export.Document(r.Outcome.Constraint)
		e.Constraint = &d
	}
	return e
}

// MatchFor summarises a bind match.
func MatchFor(m bind.Match) *MatchInfo {
	info := &MatchInfo{Method: m.Strategy.String()}
	switch m.Strategy {
	case bind.ClosestFace:
		t := m.Triangle
		info.Triangle = &t.Triangle
		info.Corners = &t.Corners
		info.Barycentric = &t.Barycentric
		info.Distance = t.Distance
	case bind.ClosestVertex:
		v := m.Vertex
		info.Vertex = &v.Vertex
		info.Distance = v.Distance
	}
	return info
}

// WriteManifest writes the results as indented JSON to path.
func WriteManifest(path string, results []Result, export constraint.Export) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = NewManifestEntry(r, export)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
