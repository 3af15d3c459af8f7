package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"skinbind/internal/batch"
	"skinbind/internal/config"
	"skinbind/internal/debugview"
	"skinbind/internal/joblist"
	"skinbind/internal/logger"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	jobsFile := flag.String("jobs", "", "Job file (.yaml or .json)")
	testN := flag.Int("test", 0, "Run only the first N jobs")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: binds)")
	method := flag.String("method", "", "Default bind method for jobs that name none")
	size := flag.Int("size", 0, "Debug image size in pixels (default: 512)")
	vendor := flag.String("vendor", "", "Constraint shape: default, unity or vrchat")
	eulerOrder := flag.String("euler-order", "", "Exported rotation order: xyz or zxy (default: xyz)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	logFormat := flag.String("log-format", "", "text or json")

	flag.Parse()

	if *jobsFile == "" && flag.NArg() > 0 {
		*jobsFile = flag.Arg(0)
	}
	if *jobsFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: skinbatch [-config file] -jobs jobs.yaml")
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		Method:     *method,
		OutputDir:  *outputDir,
		Vendor:     *vendor,
		EulerOrder: *eulerOrder,
		RenderSize: *size,
		Workers:    *workers,
		LogLevel:   *logLevel,
		LogFormat:  *logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, nil)

	jobs, err := joblist.Parse(*jobsFile, cfg.Strategy())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to run.")
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Samples and debug requests per model decide how each model is prepared.
	samples := map[string]int{}
	debug := map[string]bool{}
	for _, j := range jobs {
		samples[j.Model]++
		debug[j.Model] = debug[j.Model] || j.Debug
	}
	models := joblist.Models(jobs)

	fmt.Printf("Skinned mesh constraint binder\n")
	fmt.Printf("Jobs: %d, Models: %d, Workers: %d\n", len(jobs), len(models), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	set, err := batch.LoadModels(ctx, models, cfg.Workers, func(path string) batch.ModelOptions {
		return batch.ModelOptions{
			UseIndex:     samples[path] >= cfg.IndexThreshold,
			WithTextures: debug[path],
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading models: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Models loaded: %d/%d in %.1fs\n", len(set.Models), len(models), time.Since(start).Seconds())

	results := batch.Run(ctx, batch.Config{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Progress:  2 * time.Second,
		Render: debugview.Options{
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			View:        cfg.View,
		},
	}, jobs, set)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	// Count results
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Bound: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(20, len(failed))
		for _, r := range failed[:limit] {
			fmt.Printf("  %s: %s\n", r.Job.Name, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results, cfg.Export()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
