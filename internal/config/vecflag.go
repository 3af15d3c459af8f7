package config

import (
	"fmt"
	"strconv"
	"strings"

	"skinbind/internal/mathutil"
)

// VecFlag is a flag.Value holding three comma-separated numbers, "x,y,z".
type VecFlag struct {
	V mathutil.Vec3
}

func (f *VecFlag) String() string {
	if f == nil {
		return "0,0,0"
	}
	return fmt.Sprintf("%g,%g,%g", f.V[0], f.V[1], f.V[2])
}

func (f *VecFlag) Set(s string) error {
	v, err := ParseVec3(s)
	if err != nil {
		return err
	}
	f.V = v
	return nil
}

// ParseVec3 parses "x,y,z". Whitespace around the numbers is ignored.
func ParseVec3(s string) (mathutil.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mathutil.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return v, nil
}
