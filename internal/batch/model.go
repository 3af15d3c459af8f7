package batch

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"skinbind/internal/bind"
	"skinbind/internal/logger"
	"skinbind/internal/rig"
	"skinbind/internal/spatial"
	"skinbind/internal/texture"
)

// Model is a loaded rig plus the lookup structures shared by every job that
// samples it. Safe for concurrent use.
type Model struct {
	Rig      *rig.Rig
	Resolver *bind.Resolver
	Textures *texture.Cache // nil unless debug images were requested
	Indexed  bool           // vertex queries go through a k-d tree
}

// ModelOptions controls how LoadModel prepares a model.
type ModelOptions struct {
	// UseIndex builds a k-d tree for nearest-vertex queries.
	UseIndex bool
	// WithTextures indexes the textures next to the model for debug tints.
	WithTextures bool
}

// LoadModel reads a model file and prepares it for binding.
func LoadModel(path string, opts ModelOptions) (*Model, error) {
	r, err := rig.Load(path)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Rig:      r,
		Resolver: bind.NewResolver(r.Mesh, r.Weights),
	}
	if opts.UseIndex {
		m.Resolver.WithLocator(spatial.NewVertexIndex(r.Mesh.Vertices))
		m.Indexed = true
	}
	if opts.WithTextures {
		m.Textures = texture.NewCache(texture.BuildIndex(filepath.Dir(path)), logger.WithComponent("texture"))
	}
	return m, nil
}

// ModelSet is the outcome of loading every model of a batch. A model that
// failed to load has an entry in Errors instead of Models.
type ModelSet struct {
	Models map[string]*Model
	Errors map[string]error
}

// LoadModels loads paths concurrently, at most workers at a time. Per-model
// failures are recorded in the set; only context cancellation aborts.
func LoadModels(ctx context.Context, paths []string, workers int, opts func(path string) ModelOptions) (ModelSet, error) {
	set := ModelSet{
		Models: make(map[string]*Model, len(paths)),
		Errors: make(map[string]error),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := LoadModel(path, opts(path))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				set.Errors[path] = err
				return nil
			}
			set.Models[path] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return set, err
	}
	return set, nil
}
