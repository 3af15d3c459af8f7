package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

const (
	ozjHeader = 24 // OZJ: 24-byte header + JPEG data
	oztHeader = 4  // OZT: 4-byte header + TGA data
)

// Load reads a texture file and returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return img, nil
}

// Decode strips the container header implied by ext and decodes the image.
func Decode(raw []byte, ext string) (*image.NRGBA, error) {
	data := raw
	switch strings.ToLower(ext) {
	case ".ozj":
		if len(raw) <= ozjHeader {
			return nil, fmt.Errorf("OZJ too short (%d bytes)", len(raw))
		}
		data = raw[ozjHeader:]
	case ".ozt":
		if len(raw) <= oztHeader {
			return nil, fmt.Errorf("OZT too short (%d bytes)", len(raw))
		}
		data = raw[oztHeader:]
	case ".jpg", ".jpeg", ".tga", ".png":
	default:
		return nil, fmt.Errorf("unknown extension %q", ext)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// AverageColor returns the alpha-weighted mean colour of img. Fully
// transparent images yield mid grey.
func AverageColor(img *image.NRGBA) color.NRGBA {
	var r, g, b, a float64
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := img.PixOffset(x, y)
			w := float64(img.Pix[i+3])
			r += float64(img.Pix[i]) * w
			g += float64(img.Pix[i+1]) * w
			b += float64(img.Pix[i+2]) * w
			a += w
		}
	}
	if a == 0 {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return color.NRGBA{
		R: uint8(r/a + 0.5),
		G: uint8(g/a + 0.5),
		B: uint8(b/a + 0.5),
		A: 255,
	}
}
