package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extRank orders candidate files sharing a stem. Formats that may carry alpha
// win over plain JPEG.
var extRank = map[string]int{
	".ozt":  5,
	".tga":  4,
	".png":  3,
	".ozj":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans the directory of a model for textures: the directory
// itself, its texture/ and Texture/ folders, and the texture folders of
// each direct subdirectory.
func BuildIndex(modelDir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	searchDirs := []string{modelDir}
	searchDirs = append(searchDirs, textureDirs(modelDir)...)
	entries, _ := os.ReadDir(modelDir)
	for _, e := range entries {
		if e.IsDir() && !isTextureDir(e.Name()) {
			searchDirs = append(searchDirs, textureDirs(filepath.Join(modelDir, e.Name()))...)
		}
	}

	for _, dir := range searchDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			idx.add(filepath.Join(dir, f.Name()))
		}
	}
	return idx
}

func textureDirs(dir string) []string {
	var out []string
	var seen []os.FileInfo
	for _, name := range []string{"texture", "Texture"} {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		// case-insensitive filesystems report both spellings for one folder
		dup := false
		for _, s := range seen {
			if os.SameFile(s, info) {
				dup = true
			}
		}
		if dup {
			continue
		}
		seen = append(seen, info)
		out = append(out, p)
	}
	return out
}

func isTextureDir(name string) bool {
	return strings.EqualFold(name, "texture")
}

func (idx *Index) add(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	rank, ok := extRank[ext]
	if !ok {
		return
	}
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if existing, exists := idx.entries[stem]; exists && extRank[strings.ToLower(filepath.Ext(existing))] >= rank {
		return
	}
	idx.entries[stem] = path
}

// ResolvePath returns the filesystem path for a texture name as stored in a
// model, or ("", false). Directory prefixes with either slash are ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
