// Package main provides the sedaplus command, which merges the SEDA and NCES
// school files into one cleaned table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"sedaplus/internal/config"
	"sedaplus/internal/formatter"
	"sedaplus/internal/logger"
	"sedaplus/internal/pipeline"
	"sedaplus/internal/summary"
	"sedaplus/pkg/metadata"

	"github.com/google/uuid"
)

// envPrefix scopes environment overrides, e.g. SEDA_LOG_LEVEL.
const envPrefix = "SEDA"

type options struct {
	configPath string
	inputs     map[string]*string
	output     string
	manifest   string
	logLevel   string
	summary    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "sedaplus: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("sedaplus", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{inputs: make(map[string]*string)}

	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config (defaults are used when empty)")
	opts.inputs[config.SourceOutcomes] = fs.String("outcomes", "", "SEDA school pool outcomes file")
	opts.inputs[config.SourceCovariates] = fs.String("covariates", "", "SEDA school covariates file")
	opts.inputs[config.SourceCharacteristics] = fs.String("characteristics", "", "NCES public school characteristics file")
	opts.inputs[config.SourcePoverty] = fs.String("poverty", "", "NCES school poverty estimates file")
	fs.StringVar(&opts.output, "output", "", "Output CSV path (overrides output.path)")
	fs.StringVar(&opts.manifest, "manifest", "", "Write a JSON digest manifest of inputs and output to this path")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.summary, "summary", false, "Print a descriptive summary of the result")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: sedaplus [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(envPrefix); err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if opts.output != "" {
		cfg.Output.Path = opts.output
	}

	return cfg, cfg.Validate()
}

// resolveInputs takes each source's path from its flag, falling back to the
// file named in config.
func resolveInputs(cfg *config.Config, flags map[string]*string) pipeline.Inputs {
	inputs := make(pipeline.Inputs, len(cfg.Sources))

	for _, src := range cfg.Sources {
		path := src.File
		if p, ok := flags[src.Name]; ok && *p != "" {
			path = *p
		}

		inputs[src.Name] = path
	}

	return inputs
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Output: stderr,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	runID := uuid.NewString()
	log = log.With("run_id", runID)

	log.Info("starting run", "output", cfg.Output.Path, "sources", cfg.SourceNames())

	report, err := pipeline.Run(resolveInputs(cfg, opts.inputs), cfg.Output.Path, cfg, log)
	if err != nil {
		log.Error("run failed", "error", err)
		return err
	}

	for _, d := range report.Inputs {
		log.Debug("input digest", "path", d.Path, "sha256", d.Hash, "size", d.Size)
	}

	log.Info("output written", "path", report.Output.Path, "sha256", report.Output.Hash, "rows", report.Result.Len())

	if opts.manifest != "" {
		manifest := metadata.Manifest{RunID: runID, Inputs: report.Inputs, Output: report.Output}
		if err := metadata.WriteManifest(opts.manifest, manifest); err != nil {
			return err
		}

		log.Info("manifest written", "path", opts.manifest)
	}

	if opts.summary {
		profiles := summary.Profile(report.Result, cfg.Filters.SentinelStrings)

		align := make([]formatter.Alignment, len(summary.Headers))
		for i := 2; i < len(align)-1; i++ {
			align[i] = formatter.AlignRight
		}

		fmt.Fprint(stdout, formatter.Table(summary.Headers, summary.Rows(profiles), align...))
	}

	return nil
}
