// Package joblist reads batch job files.
//
//	defaults:
//	  method: vertex
//	jobs:
//	  - name: earring_l
//	    model: Player/HelmMale01.bmd
//	    position: [0.08, 1.62, 0.01]
//	    offset: [0, 0, 0]
//	    debug: true
package joblist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"skinbind/internal/bind"
	"skinbind/internal/mathutil"
)

type fileJob struct {
	Name          string        `json:"name" yaml:"name"`
	Model         string        `json:"model" yaml:"model"`
	Method        string        `json:"method" yaml:"method"`
	Position      mathutil.Vec3 `json:"position" yaml:"position"`
	Rotation      mathutil.Vec3 `json:"rotation" yaml:"rotation"`
	LocalPosition mathutil.Vec3 `json:"localPosition" yaml:"localPosition"`
	LocalRotation mathutil.Vec3 `json:"localRotation" yaml:"localRotation"`
	Offset        mathutil.Vec3 `json:"offset" yaml:"offset"`
	Debug         bool          `json:"debug" yaml:"debug"`
}

type file struct {
	Defaults struct {
		Method string `json:"method" yaml:"method"`
	} `json:"defaults" yaml:"defaults"`
	Jobs []fileJob `json:"jobs" yaml:"jobs"`
}

// Parse reads a job file (.json, .yaml or .yml). Relative model paths are
// resolved against the directory of the job file. Jobs without a name are
// named after their position in the list. The method of a job falls back to
// the file's defaults, then to fallback.
func Parse(path string, fallback bind.Strategy) ([]Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("joblist: read %s: %w", path, err)
	}

	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &f)
	default:
		return nil, fmt.Errorf("joblist: %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("joblist: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	jobs := make([]Job, 0, len(f.Jobs))
	var errs []error
	seen := make(map[string]bool, len(f.Jobs))
	for i, fj := range f.Jobs {
		j := Job{
			Name:          fj.Name,
			Model:         fj.Model,
			Method:        fallback,
			Position:      fj.Position,
			Rotation:      fj.Rotation,
			LocalPosition: fj.LocalPosition,
			LocalRotation: fj.LocalRotation,
			Offset:        fj.Offset,
			Debug:         fj.Debug,
		}
		if j.Name == "" {
			j.Name = fmt.Sprintf("job%03d", i)
		}
		if seen[j.Name] {
			errs = append(errs, fmt.Errorf("job %q: duplicate name", j.Name))
			continue
		}
		seen[j.Name] = true
		if j.Model == "" {
			errs = append(errs, fmt.Errorf("job %q: model is required", j.Name))
			continue
		}
		if !filepath.IsAbs(j.Model) {
			j.Model = filepath.Join(dir, filepath.FromSlash(j.Model))
		}

		method := fj.Method
		if method == "" {
			method = f.Defaults.Method
		}
		if method != "" {
			s, perr := bind.ParseStrategy(method)
			if perr != nil {
				errs = append(errs, fmt.Errorf("job %q: %w", j.Name, perr))
				continue
			}
			j.Method = s
		}
		jobs = append(jobs, j)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("joblist: %s: %w", path, errors.Join(errs...))
	}
	return jobs, nil
}
