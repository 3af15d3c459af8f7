// Package filter tells effect overlays apart from real surface meshes.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"skinbind/internal/bmd"
)

var gradientEffectRE = regexp.MustCompile(`^(?:mini_|hangul)?gra(?:\d|_|$)`)

var effectPatterns = []string{
	"glow", "flare", "chrome", "effect",
	"aura", "shiny", "spark", "fire", "blur",
	"elec_light", "arrowlight", "lighting_mega", "pin_star",
	"lightmarks", "light_blue", "light_red",
	"energy", "plasma", "shine", "halo", "trail",
	"gradation", "sdblight", "alpha_line", "4x4", "damage",
	"ground_wind", "ground_star", "line_of_big",
	"force", "runeset",
	"shockwave", "swordeff",
	"cursorpin", "empact", "circle_shield",
	"arrowbom", "raypiece",
}

// effectPrefixPatterns must match at the START of the texture stem only.
// "flame" is prefix-only to avoid false positives like "requitalbox_flame_wood"
// (metal frame of reward box, not a fire effect).
var effectPrefixPatterns = []string{"flame"}

// billboardSpan is the largest extent, in model units, of a tiny mesh that is
// still treated as a sprite.
const billboardSpan = 20

// IsEffectMesh reports whether m is an aura/glow/effect overlay rather than
// part of the skinned surface.
func IsEffectMesh(m *bmd.Mesh) bool {
	return IsEffectTexture(m.TexPath) || isBillboard(m)
}

// IsEffectTexture matches the texture naming of glow, fire and similar overlays.
func IsEffectTexture(texPath string) bool {
	stem := TextureStem(texPath)
	if gradientEffectRE.MatchString(stem) {
		return true
	}
	for _, p := range effectPatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	for _, p := range effectPrefixPatterns {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}
	return false
}

// isBillboard catches unnamed sprites: at most two quads and eight vertices
// spanning a small area. Large quads such as blade decals are kept.
func isBillboard(m *bmd.Mesh) bool {
	if len(m.Verts) == 0 || len(m.Verts) > 8 || len(m.Tris) > 4 {
		return false
	}
	lo, hi := m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		for k := range v {
			lo[k] = min(lo[k], v[k])
			hi[k] = max(hi[k], v[k])
		}
	}
	for k := range lo {
		if hi[k]-lo[k] > billboardSpan {
			return false
		}
	}
	return true
}

// TextureStem lowercases a model texture reference and strips its directory
// and extension: "Player\\Skin01.JPG" -> "skin01".
func TextureStem(texPath string) string {
	tex := strings.ToLower(strings.ReplaceAll(texPath, "\\", "/"))
	base := filepath.Base(tex)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
