package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"skinbind/internal/debugview"
	"skinbind/internal/joblist"
	"skinbind/internal/logger"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Render    debugview.Options
	Workers   int
	Progress  time.Duration // 0 disables progress reports
}

// Result holds the outcome of processing one job.
type Result struct {
	Job     joblist.Job
	Outcome Outcome
	Image   string // debug image path relative to OutputDir
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Jobs whose model is missing
// from models fail with the recorded load error. Results keep job order.
func Run(ctx context.Context, cfg Config, jobs []joblist.Job, models ModelSet) []Result {
	log := logger.WithComponent("batch")
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						log.Info("progress", "done", p, "total", total, "jobs_per_sec", fmt.Sprintf("%.1f", rate))
					}
				}
			}
		}()
	}

	images := debugPaths(jobs)

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, jobs[idx], images[idx], models)
				processed.Add(1)
			}
		}()
	}

	// Send work
send:
	for i := range jobs {
		select {
		case jobChan <- i:
		case <-ctx.Done():
			for j := i; j < total; j++ {
				results[j] = Result{Job: jobs[j], Error: ctx.Err().Error()}
			}
			break send
		}
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(ctx context.Context, cfg Config, job joblist.Job, image string, models ModelSet) Result {
	log := logger.FromContext(logger.WithJob(ctx, job.Name))
	res := Result{Job: job}

	m, ok := models.Models[job.Model]
	if !ok {
		err := models.Errors[job.Model]
		if err == nil {
			err = fmt.Errorf("model %s not loaded", job.Model)
		}
		res.Error = err.Error()
		log.Error("bind failed", "error", err)
		return res
	}

	out, err := Bind(m, job)
	res.Outcome = out
	if err != nil {
		res.Error = err.Error()
		log.Error("bind failed", "model", job.Model, "error", err)
	} else {
		res.Success = true
		if !out.Constraint.HasMultipleSources() {
			log.Warn("constraint has a single source; the sample point may sit in a rigid region", "bone", out.Constraint.Sources[0].Name)
		}
	}

	// A failed bind still gets an image when a feature was matched, which
	// helps explain zero-weight regions.
	if job.Debug && out.Matched {
		img := DebugImage(m, out, cfg.Render)
		if werr := debugview.WriteWebP(filepath.Join(cfg.OutputDir, filepath.FromSlash(image)), img); werr != nil {
			log.Warn("debug image not written", "error", werr)
		} else {
			res.Image = image
		}
	}
	return res
}

// debugPaths gives every debug job its own image path relative to the
// output directory. Names that sanitize to the same file get the job index
// appended.
func debugPaths(jobs []joblist.Job) []string {
	paths := make([]string, len(jobs))
	taken := make(map[string]bool)
	for i, job := range jobs {
		if !job.Debug {
			continue
		}
		name := sanitize(job.Name)
		base := name
		for n := i; taken[strings.ToLower(base)]; n++ {
			base = fmt.Sprintf("%s_%d", name, n)
		}
		taken[strings.ToLower(base)] = true
		paths[i] = "debug/" + base + ".webp"
	}
	return paths
}

func sanitize(name string) string {
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}
