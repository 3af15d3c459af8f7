package debugview

import (
	"image/color"
	"math"

	"skinbind/internal/mathutil"
)

// FillTriangle rasterizes one flat-shaded triangle given in screen space
// (x, y in pixels, z growing towards the viewer) with a depth test.
func FillTriangle(fb *FrameBuffer, a, b, c mathutil.Vec3, base color.NRGBA, lc *LightConfig) {
	x0, y0, z0 := a[0], a[1], a[2]
	x1, y1, z1 := b[0], b[1], b[2]
	x2, y2, z2 := c[0], c[1], c[2]

	// Face normal for flat shading; screen y points down so flip it back.
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-8 {
		return
	}
	n = n.Normalize()
	n[1] = -n[1]
	shade := lc.Shade(n)
	cr := lc.Apply(base.R, shade)
	cg := lc.Apply(base.G, shade)
	cb := lc.Apply(base.B, shade)

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			i := zIdx * 4
			fb.Color[i] = cr
			fb.Color[i+1] = cg
			fb.Color[i+2] = cb
			fb.Color[i+3] = 255
		}
	}
}
