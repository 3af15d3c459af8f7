package bind

import (
	"fmt"
	"strings"
)

// Strategy selects which scanner locates the feature to sample weights from.
type Strategy int

const (
	// ClosestFace blends the three corners of the nearest triangle by the
	// barycentric coordinates of the sample point's projection.
	ClosestFace Strategy = iota
	// ClosestVertex copies the weights of the single nearest vertex.
	ClosestVertex
)

func (s Strategy) String() string {
	switch s {
	case ClosestFace:
		return "face"
	case ClosestVertex:
		return "vertex"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "face" / "vertex" and a few spellings of each.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "face", "closest-face", "closestface", "triangle", "barycentric":
		return ClosestFace, nil
	case "vertex", "closest-vertex", "closestvertex":
		return ClosestVertex, nil
	}
	return 0, fmt.Errorf("bind: %q: %w", name, ErrUnknownStrategy)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if s != ClosestFace && s != ClosestVertex {
		return nil, fmt.Errorf("bind: %d: %w", int(s), ErrUnknownStrategy)
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
