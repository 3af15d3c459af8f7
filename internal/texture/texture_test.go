package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func solid(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeContainers(t *testing.T) {
	red := pngBytes(t, solid(color.NRGBA{R: 255, A: 255}, 2, 2))

	img, err := Decode(red, ".PNG")
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if got := img.NRGBAAt(1, 1); got.R != 255 || got.A != 255 {
		t.Fatalf("unexpected pixel %v", got)
	}

	// OZJ only strips its header; the payload format is sniffed by image.Decode.
	ozj := append(make([]byte, ozjHeader), red...)
	if _, err := Decode(ozj, ".ozj"); err != nil {
		t.Fatalf("ozj: %v", err)
	}
	ozt := append(make([]byte, oztHeader), red...)
	if _, err := Decode(ozt, ".ozt"); err != nil {
		t.Fatalf("ozt: %v", err)
	}

	if _, err := Decode(make([]byte, 10), ".ozj"); err == nil {
		t.Fatalf("expected short OZJ error")
	}
	if _, err := Decode(red, ".dds"); err == nil {
		t.Fatalf("expected unknown extension error")
	}
	if _, err := Decode([]byte("not an image"), ".jpg"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestAverageColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 0})

	got := AverageColor(img)
	want := color.NRGBA{R: 200, G: 100, B: 0, A: 255}
	if got != want {
		t.Fatalf("AverageColor = %v, want %v (transparent pixels ignored)", got, want)
	}

	if got := AverageColor(image.NewNRGBA(image.Rect(0, 0, 1, 1))); got.R != 128 || got.A != 255 {
		t.Fatalf("transparent image should be grey, got %v", got)
	}
}

func TestIndexPriorityAndLookup(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, solid(color.NRGBA{G: 255, A: 255}, 1, 1))
	writeFile(t, filepath.Join(dir, "texture", "Skin01.ozj"), append(make([]byte, ozjHeader), data...))
	writeFile(t, filepath.Join(dir, "texture", "skin01.ozt"), append(make([]byte, oztHeader), data...))
	writeFile(t, filepath.Join(dir, "Hair", "texture", "hair.png"), data)
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	idx := BuildIndex(dir)
	if idx.Len() != 2 {
		t.Fatalf("want 2 stems, got %d", idx.Len())
	}
	path, ok := idx.ResolvePath(`Player\texture\SKIN01.jpg`)
	if !ok || filepath.Ext(path) != ".ozt" {
		t.Fatalf("want the OZT to win, got %q %v", path, ok)
	}
	if _, ok := idx.ResolvePath("hair.tga"); !ok {
		t.Fatalf("subdirectory texture not indexed")
	}
	if _, ok := idx.ResolvePath("missing.jpg"); ok {
		t.Fatalf("unexpected hit")
	}
}

func TestCacheTint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "body.png"), pngBytes(t, solid(color.NRGBA{R: 10, G: 20, B: 30, A: 255}, 4, 4)))
	writeFile(t, filepath.Join(dir, "broken.png"), []byte("garbage"))

	c := NewCache(BuildIndex(dir), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tint, ok := c.Tint("body.jpg"); !ok || tint != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
				t.Errorf("tint = %v %v", tint, ok)
			}
		}()
	}
	wg.Wait()

	if c.Resolve("body") == nil {
		t.Fatalf("Resolve should return the cached image")
	}
	if _, ok := c.Tint("broken.png"); ok {
		t.Fatalf("undecodable texture should have no tint")
	}
	if _, ok := c.Tint(""); ok {
		t.Fatalf("empty name should have no tint")
	}
	var nilCache *Cache
	if nilCache.Resolve("body") != nil {
		t.Fatalf("nil cache should resolve nothing")
	}
}
