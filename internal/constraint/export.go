package constraint

import (
	"fmt"
	"strings"

	"skinbind/internal/mathutil"
)

// Vendor selects the parent constraint component an export targets.
type Vendor int

const (
	// VendorDefault resolves to the VRChat shape.
	VendorDefault Vendor = iota
	// VendorUnity exports a stock Unity ParentConstraint.
	VendorUnity
	// VendorSpecific exports a VRChat VRCParentConstraint.
	VendorSpecific
)

func (v Vendor) String() string {
	switch v {
	case VendorUnity:
		return "unity"
	case VendorSpecific:
		return "specific"
	default:
		return "default"
	}
}

// ParseVendor accepts "default", "unity", "specific" or its alias "vrchat".
// The empty string is VendorDefault.
func ParseVendor(s string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return VendorDefault, nil
	case "unity":
		return VendorUnity, nil
	case "specific", "vrchat":
		return VendorSpecific, nil
	}
	return VendorDefault, fmt.Errorf("constraint: unknown vendor %q", s)
}

// Component names the component the vendor resolves to.
func (v Vendor) Component() string {
	if v == VendorUnity {
		return "ParentConstraint"
	}
	return "VRCParentConstraint"
}

// EulerOrder is the axis order of exported rotation angles. Angles are
// always listed as x, y, z; the order says which axis is applied first.
type EulerOrder int

const (
	// OrderXYZ applies X, then Y, then Z (R = Rz·Ry·Rx).
	OrderXYZ EulerOrder = iota
	// OrderZXY applies Z, then X, then Y (R = Ry·Rx·Rz), as Unity's eulerAngles.
	OrderZXY
)

func (o EulerOrder) String() string {
	if o == OrderZXY {
		return "zxy"
	}
	return "xyz"
}

// ParseEulerOrder accepts "xyz" or "zxy". The empty string is OrderXYZ.
func ParseEulerOrder(s string) (EulerOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xyz":
		return OrderXYZ, nil
	case "zxy":
		return OrderZXY, nil
	}
	return OrderXYZ, fmt.Errorf("constraint: unknown euler order %q", s)
}

// Export selects the serialized shape of a constraint.
type Export struct {
	Vendor Vendor
	Order  EulerOrder
}

// DocumentSource is one exported source. The VRChat shape stores offsets
// on each source; the Unity shape leaves them nil.
type DocumentSource struct {
	Bone              int            `json:"bone"`
	Name              string         `json:"name"`
	Weight            float64        `json:"weight"`
	TranslationOffset *mathutil.Vec3 `json:"translationOffset,omitempty"`
	RotationOffset    *mathutil.Vec3 `json:"rotationOffset,omitempty"`
}

// Document is the exported constraint. The Unity shape keeps offsets in
// TranslationOffsets and RotationOffsets, parallel to Sources.
type Document struct {
	Vendor             string           `json:"vendor"`
	Component          string           `json:"component"`
	EulerOrder         string           `json:"eulerOrder"`
	Sources            []DocumentSource `json:"sources"`
	TranslationOffsets []mathutil.Vec3  `json:"translationOffsets,omitempty"`
	RotationOffsets    []mathutil.Vec3  `json:"rotationOffsets,omitempty"`
	TranslationAtRest  mathutil.Vec3    `json:"translationAtRest"`
	RotationAtRest     mathutil.Vec3    `json:"rotationAtRest"`
	Locked             bool             `json:"locked"`
	Active             bool             `json:"active"`
}

// Document converts c into the shape selected by e.
func (e Export) Document(c ParentConstraint) Document {
	d := Document{
		Vendor:            e.Vendor.String(),
		Component:         e.Vendor.Component(),
		EulerOrder:        e.Order.String(),
		Sources:           make([]DocumentSource, len(c.Sources)),
		TranslationAtRest: c.TranslationAtRest,
		RotationAtRest:    e.angles(c.RotationAtRest),
		Locked:            c.Locked,
		Active:            c.Active,
	}
	unity := e.Vendor == VendorUnity
	if unity {
		d.TranslationOffsets = make([]mathutil.Vec3, len(c.Sources))
		d.RotationOffsets = make([]mathutil.Vec3, len(c.Sources))
	}
	for i, s := range c.Sources {
		rot := e.angles(s.RotationOffset)
		d.Sources[i] = DocumentSource{Bone: s.Bone, Name: s.Name, Weight: s.Weight}
		if unity {
			d.TranslationOffsets[i] = s.TranslationOffset
			d.RotationOffsets[i] = rot
			continue
		}
		pos := s.TranslationOffset
		d.Sources[i].TranslationOffset = &pos
		d.Sources[i].RotationOffset = &rot
	}
	return d
}

// angles re-expresses XYZ degrees in the export order.
func (e Export) angles(deg mathutil.Vec3) mathutil.Vec3 {
	if e.Order == OrderXYZ {
		return deg
	}
	m := mathutil.QuatToMat3(eulerQuat(deg))
	return wrapDegrees(mathutil.EulerRad2Deg(m.EulerZXY()))
}
