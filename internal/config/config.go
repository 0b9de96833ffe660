// Package config handles pipeline configuration loading and management.
package config

import "github.com/buildingnet/meshprep/internal/normalize"

// Config holds all pipeline settings.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Watertight WatertightConfig `yaml:"watertight"`
	Voxelize   VoxelizeConfig   `yaml:"voxelize"`
	Occupancy  OccupancyConfig  `yaml:"occupancy"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PipelineConfig holds the mesh normalization tunables.
type PipelineConfig struct {
	SimplifyVoxels           int     `yaml:"simplify_voxels"`
	ScanSteps                int     `yaml:"scan_steps"`
	MaxScanHeightFraction    float64 `yaml:"max_scan_height_fraction"`
	VolumeReductionThreshold float64 `yaml:"volume_reduction_threshold"`
	DecimateRatio            float64 `yaml:"decimate_ratio"`
}

// Params converts the section into pipeline parameters.
func (c PipelineConfig) Params() normalize.Params {
	return normalize.Params{
		SimplifyVoxels:           c.SimplifyVoxels,
		ScanSteps:                c.ScanSteps,
		MaxHeightFraction:        c.MaxScanHeightFraction,
		VolumeReductionThreshold: c.VolumeReductionThreshold,
		DecimateRatio:            c.DecimateRatio,
	}
}

// WatertightConfig holds the external watertighting tool settings.
type WatertightConfig struct {
	Binary string `yaml:"binary"`
}

// VoxelizeConfig holds the external voxelizer settings.
type VoxelizeConfig struct {
	Binary     string `yaml:"binary"`
	Resolution int    `yaml:"resolution"`
}

// OccupancyConfig holds occupancy sampling settings.
type OccupancyConfig struct {
	Points int    `yaml:"points"`
	Method string `yaml:"method"`
	Seed   int64  `yaml:"seed"`
}

// BatchConfig holds worker pool and output settings.
type BatchConfig struct {
	Workers  int  `yaml:"workers"`  // 0 means one worker per CPU
	Compress bool `yaml:"compress"` // gzip OBJ output
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the standard operating point.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			SimplifyVoxels:           128,
			ScanSteps:                10,
			MaxScanHeightFraction:    0.15,
			VolumeReductionThreshold: 0.8,
			DecimateRatio:            0,
		},
		Watertight: WatertightConfig{
			Binary: "./bin/manifold",
		},
		Voxelize: VoxelizeConfig{
			Binary:     "./binvox",
			Resolution: 32,
		},
		Occupancy: OccupancyConfig{
			Points: 100_000,
			Method: "mesh_contains",
			Seed:   0,
		},
		Batch: BatchConfig{
			Workers:  0,
			Compress: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
