package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"skinbind/internal/batch"
	"skinbind/internal/bind"
	"skinbind/internal/config"
	"skinbind/internal/debugview"
	"skinbind/internal/joblist"
	"skinbind/internal/logger"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	model := flag.String("model", "", "Model file (.bmd, .json, .yaml)")
	method := flag.String("method", "", "Bind method: face or vertex (default: face)")
	name := flag.String("name", "bind", "Name used for the debug image")
	debug := flag.String("debug", "", "Write a debug WebP to this path")
	size := flag.Int("size", 0, "Debug image size in pixels (default: 512)")
	vendor := flag.String("vendor", "", "Constraint shape: default, unity or vrchat")
	eulerOrder := flag.String("euler-order", "", "Exported rotation order: xyz or zxy (default: xyz)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	var position, rotation, localPos, localRot, offset config.VecFlag
	flag.Var(&position, "pos", "World position of the constrained object, x,y,z")
	flag.Var(&rotation, "rot", "World rotation of the constrained object, XYZ Euler degrees")
	flag.Var(&localPos, "local-pos", "Local position used as the rest pose")
	flag.Var(&localRot, "local-rot", "Local rotation used as the rest pose, degrees")
	flag.Var(&offset, "offset", "Sample point offset in the object's local space")

	flag.Parse()

	if *model == "" {
		fmt.Fprintln(os.Stderr, "Usage: skinbind -model <file> -pos x,y,z [-method face|vertex] [-debug out.webp]")
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Resolve(config.Flags{
		Method:     *method,
		Vendor:     *vendor,
		EulerOrder: *eulerOrder,
		RenderSize: *size,
		LogLevel:   *logLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, nil)

	m, err := batch.LoadModel(*model, batch.ModelOptions{WithTextures: *debug != ""})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	job := joblist.Job{
		Name:          *name,
		Model:         *model,
		Method:        cfg.Strategy(),
		Position:      position.V,
		Rotation:      rotation.V,
		LocalPosition: localPos.V,
		LocalRotation: localRot.V,
		Offset:        offset.V,
	}
	out, bindErr := batch.Bind(m, job)

	if *debug != "" && out.Matched {
		img := batch.DebugImage(m, out, debugview.Options{
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			View:        cfg.View,
		})
		if err := debugview.WriteWebP(*debug, img); err != nil {
			slog.Warn("debug image not written", "error", err)
		} else {
			slog.Info("debug image written", "path", filepath.Clean(*debug))
		}
	}

	if bindErr != nil {
		if errors.Is(bindErr, bind.ErrNoContribution) {
			fmt.Fprintln(os.Stderr, "Error: the sampled feature has no bone weights")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", bindErr)
		os.Exit(1)
	}
	if !out.Constraint.HasMultipleSources() {
		slog.Warn("constraint has a single source; the sample point may sit in a rigid region",
			"bone", out.Constraint.Sources[0].Name)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch.NewManifestEntry(batch.Result{Job: job, Outcome: out, Success: true}, cfg.Export())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
