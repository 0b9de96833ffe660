package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers   = flag.Int("workers", 0, "Worker pool size (0 = one per CPU)")
	flagVoxels    = flag.Int("voxels", 0, "Simplification voxel grid dimension")
	flagScanSteps = flag.Int("scan-steps", 0, "Ground plane scan steps")
	flagMaxFrac   = flag.Float64("max-scan-height", 0, "Ground plane max scan height fraction")
	flagThreshold = flag.Float64("volume-threshold", 0, "Ground plane volume reduction threshold")
	flagNoGzip    = flag.Bool("no-gzip", false, "Write uncompressed OBJ output")
)

// ParseFlags parses command-line flags. Call this early in main(),
// passing the arguments after the subcommand name.
func ParseFlags(args []string) {
	flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagVoxels > 0 {
		cfg.Pipeline.SimplifyVoxels = *flagVoxels
	}
	if *flagScanSteps > 0 {
		cfg.Pipeline.ScanSteps = *flagScanSteps
	}
	if *flagMaxFrac > 0 {
		cfg.Pipeline.MaxScanHeightFraction = *flagMaxFrac
	}
	if *flagThreshold > 0 {
		cfg.Pipeline.VolumeReductionThreshold = *flagThreshold
	}
	if *flagNoGzip {
		cfg.Batch.Compress = false
	}
}
