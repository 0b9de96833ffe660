// meshprep is a CLI for normalizing raw building meshes into clean,
// watertight models ready for voxelization and occupancy sampling.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/buildingnet/meshprep/internal/batch"
	"github.com/buildingnet/meshprep/internal/config"
	"github.com/buildingnet/meshprep/internal/logger"
	"github.com/buildingnet/meshprep/internal/normalize"
	"github.com/buildingnet/meshprep/internal/occupancy"
	"github.com/buildingnet/meshprep/internal/voxelize"
	"github.com/buildingnet/meshprep/internal/watertight"
	"github.com/buildingnet/meshprep/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "normalize":
		cmdNormalize(args)
	case "close":
		cmdClose(args)
	case "voxelize":
		cmdVoxelize(args)
	case "sample":
		cmdSample(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshprep - building mesh normalization pipeline

Usage:
  meshprep <command> [options] <args>

Commands:
  normalize <input-dir> <output-dir>  Simplify, select and deplane meshes
  close <input-dir> <output-dir>      Make meshes watertight (external tool)
  voxelize <input-dir> <output-dir>   Voxelize meshes to binvox grids
  sample <input-dir> <output-dir>     Sample occupancy points
  info <file.obj[.gz]>                Show mesh statistics
  config                              Write the default config file

Options (apply to any command):
  -config <path>          Explicit config file
  -debug                  Enable debug logging
  -workers <n>            Worker pool size (0 = one per CPU)
  -voxels <n>             Simplification voxel grid dimension
  -scan-steps <n>         Ground plane scan steps
  -max-scan-height <f>    Ground plane max scan height fraction
  -volume-threshold <f>   Ground plane volume reduction threshold
  -no-gzip                Write uncompressed OBJ output

Examples:
  meshprep normalize ./raw ./normalized
  meshprep close -workers 4 ./normalized ./watertight
  meshprep sample -config batch.yaml ./watertight ./points`)
}

// setup parses flags, loads config and initializes logging. Every
// subcommand except help goes through here.
func setup(args []string) *config.Config {
	config.ParseFlags(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// dirArgs returns the input and output directories from the positional
// arguments, creating the output directory if needed.
func dirArgs(usage string) (string, string) {
	rest := config.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		os.Exit(1)
	}
	inputDir, outputDir := rest[0], rest[1]
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return inputDir, outputDir
}

// runBatch plans jobs for each input pattern and drives them through
// the worker pool, exiting nonzero if any file failed.
func runBatch(cfg *config.Config, inputDir, outputDir, newSuffix string, patterns []string, fn batch.ProcessFunc) {
	defer logger.Sync()

	jobs, skipped, err := batch.PlanGlobs(inputDir, outputDir, newSuffix, patterns...)
	if err != nil {
		logger.Fatal("planning batch", zap.Error(err))
	}
	logger.Info("batch planned",
		zap.String("input_dir", inputDir),
		zap.Int("jobs", len(jobs)),
		zap.Int("skipped", skipped))

	runner := batch.NewRunner(cfg.Batch.Workers)
	failed := runner.Run(context.Background(), jobs, fn)

	logger.Info("batch finished",
		zap.Int("processed", len(jobs)-failed),
		zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdNormalize(args []string) {
	cfg := setup(args)
	inputDir, outputDir := dirArgs("meshprep normalize [options] <input-dir> <output-dir>")

	params := cfg.Pipeline.Params()
	if err := params.Validate(); err != nil {
		logger.Fatal("invalid pipeline parameters", zap.Error(err))
	}

	outSuffix := ".obj"
	if cfg.Batch.Compress {
		outSuffix = ".obj.gz"
	}

	runBatch(cfg, inputDir, outputDir, outSuffix, []string{"*.obj", "*.obj.gz"}, func(ctx context.Context, job batch.Job) error {
		m, err := formats.ReadOBJ(job.Input)
		if err != nil {
			return err
		}
		result, err := normalize.Normalize(m, params)
		if err != nil {
			return err
		}
		logger.Debug("mesh normalized",
			zap.String("input", job.Input),
			zap.Int("vertices_in", m.VertexCount()),
			zap.Int("vertices_out", result.VertexCount()))
		return formats.WriteOBJ(job.Output, result)
	})
}

func cmdClose(args []string) {
	cfg := setup(args)
	inputDir, outputDir := dirArgs("meshprep close [options] <input-dir> <output-dir>")

	closer := watertight.NewCloser(cfg.Watertight.Binary, watertight.ExecBuilder{})

	// The watertighting tool reads plain OBJ only.
	runBatch(cfg, inputDir, outputDir, ".obj", []string{"*.obj"}, func(ctx context.Context, job batch.Job) error {
		return closer.Close(ctx, job.Input, job.Output)
	})
}

func cmdVoxelize(args []string) {
	cfg := setup(args)
	inputDir, outputDir := dirArgs("meshprep voxelize [options] <input-dir> <output-dir>")

	vox := voxelize.New(cfg.Voxelize.Binary, cfg.Voxelize.Resolution, watertight.ExecBuilder{})

	runBatch(cfg, inputDir, outputDir, ".binvox", []string{"*.obj", "*.obj.gz"}, func(ctx context.Context, job batch.Job) error {
		return vox.Voxelize(ctx, job.Input, job.Output)
	})
}

func cmdSample(args []string) {
	cfg := setup(args)
	inputDir, outputDir := dirArgs("meshprep sample [options] <input-dir> <output-dir>")

	method, err := occupancy.ParseMethod(cfg.Occupancy.Method)
	if err != nil {
		logger.Fatal("invalid occupancy config", zap.Error(err))
	}
	sampler := occupancy.NewSampler(cfg.Occupancy.Points, cfg.Occupancy.Seed)

	patterns := []string{"*.obj", "*.obj.gz"}
	if method == occupancy.MethodVoxelGridLookup {
		patterns = []string{"*.binvox"}
	}

	runBatch(cfg, inputDir, outputDir, ".occ.gz", patterns, func(ctx context.Context, job batch.Job) error {
		var set *formats.OccupancySet
		switch method {
		case occupancy.MethodVoxelGridLookup:
			grid, err := formats.ReadBinvox(job.Input)
			if err != nil {
				return err
			}
			set, err = sampler.SampleGrid(grid)
			if err != nil {
				return err
			}
		default:
			m, err := formats.ReadOBJ(job.Input)
			if err != nil {
				return err
			}
			set, err = sampler.SampleMesh(m)
			if err != nil {
				return err
			}
		}
		return formats.WriteOccupancy(job.Output, set)
	})
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshprep info <file.obj[.gz]>")
		os.Exit(1)
	}

	m, err := formats.ReadOBJ(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())

	if bounds, ok := m.Bounds(); ok {
		ext := bounds.Extent()
		fmt.Printf("Bounds:    [%g %g %g] .. [%g %g %g]\n",
			bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
			bounds.Max.X, bounds.Max.Y, bounds.Max.Z)
		fmt.Printf("Extent:    %g x %g x %g\n", ext.X, ext.Y, ext.Z)
		fmt.Printf("Volume:    %g\n", bounds.Volume())
	}

	components := m.Components()
	fmt.Printf("Components: %d\n", len(components))
	for i, tris := range components {
		if i >= 10 {
			fmt.Printf("  ... and %d more\n", len(components)-10)
			break
		}
		fmt.Printf("  #%d: %d triangles\n", i, len(tris))
	}
}

func cmdConfig(args []string) {
	cfg := config.Default()

	// With an explicit path write there, otherwise use the config dir.
	if len(args) > 0 {
		path := args[0]
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config already exists: %s\n", path)
			os.Exit(1)
		}
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	path := filepath.Join(config.ConfigDir(), "meshprep.yaml")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Config already exists: %s\n", path)
		os.Exit(1)
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
}
