// Package pipeline runs the load, merge, clean, derive, filter and write
// stages that turn the four school data sources into one flat table.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"sedaplus/internal/clean"
	"sedaplus/internal/config"
	"sedaplus/internal/features"
	"sedaplus/internal/loader"
	"sedaplus/internal/logger"
	"sedaplus/internal/merge"
	"sedaplus/internal/normalizer"
	"sedaplus/internal/table"
	"sedaplus/internal/writer"
	"sedaplus/pkg/metadata"
)

// ErrMissingInput is returned when no path is given for a configured source.
var ErrMissingInput = errors.New("no input path for source")

// Stage names, in execution order.
const (
	StageMerge        = "merge"
	StageDropMissing  = "drop_missing"
	StageGradeRange   = "drop_grade_sentinel"
	StageDerive       = "derive_features"
	StageCategories   = "exclude_categories"
	StageOutliers     = "trim_outliers"
	stageLoadTemplate = "load_%s"
)

// Inputs maps a source name to the file it is read from.
type Inputs map[string]string

// Stage records the shape of the table after one stage.
type Stage struct {
	Name    string
	Rows    int
	Columns int
}

// Report describes a completed run.
type Report struct {
	Stages   []Stage
	Passes   []clean.OutlierPass
	Inputs   []metadata.Digest
	Output   metadata.Digest
	Result   *table.Table
	Duration time.Duration
}

// Rows returns the row count recorded for the named stage, or -1.
func (r *Report) Rows(stage string) int {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Rows
		}
	}

	return -1
}

// LoadStage is the stage name under which a source's load is recorded.
func LoadStage(source string) string {
	return fmt.Sprintf(stageLoadTemplate, source)
}

// Run executes every stage and writes the result to output. Any stage error
// aborts the run before anything is written.
func Run(inputs Inputs, output string, cfg *config.Config, log *logger.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{}

	record := func(name string, t *table.Table) {
		report.Stages = append(report.Stages, Stage{Name: name, Rows: t.Len(), Columns: t.Width()})
		log.Info("stage complete", "stage", name, "rows", t.Len(), "columns", t.Width())
	}

	key := cfg.Join.Key
	ld := loader.NewLoader(cfg.Filters.NullTokens)
	processor := normalizer.NewProcessor(key)
	tables := make([]*table.Table, 0, len(cfg.Sources))

	for _, src := range cfg.Sources {
		path, ok := inputs[src.Name]
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, src.Name)
		}

		raw, err := ld.Load(src, path)
		if err != nil {
			return nil, err
		}

		digest, err := metadata.FileDigest(path)
		if err != nil {
			return nil, err
		}

		report.Inputs = append(report.Inputs, digest)

		normalized, err := processor.Process(raw, src)
		if err != nil {
			return nil, err
		}

		record(LoadStage(src.Name), normalized)
		tables = append(tables, normalized)
	}

	t, err := merge.JoinAll(key, tables...)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	record(StageMerge, t)

	t, err = clean.DropMissing(t)
	if err != nil {
		return nil, fmt.Errorf("missing value filter: %w", err)
	}

	record(StageDropMissing, t)

	if len(cfg.Filters.GradeColumns) > 0 {
		t, err = clean.DropSentinel(t, cfg.Filters.GradeColumns, cfg.Filters.GradeSentinel)
		if err != nil {
			return nil, fmt.Errorf("grade range filter: %w", err)
		}
	}

	record(StageGradeRange, t)

	t, err = features.Derive(t, cfg.Features)
	if err != nil {
		return nil, err
	}

	record(StageDerive, t)

	t, err = clean.ExcludeCategories(t, cfg.Filters.Exclusions)
	if err != nil {
		return nil, fmt.Errorf("category filter: %w", err)
	}

	record(StageCategories, t)

	t, report.Passes, err = clean.TrimOutliers(t, key, cfg.Filters.LowerPercentile, cfg.Filters.UpperPercentile)
	if err != nil {
		return nil, fmt.Errorf("outlier filter: %w", err)
	}

	for _, p := range report.Passes {
		if p.Removed > 0 {
			log.Debug("outlier pass", "column", p.Column, "lower", p.Lower, "upper", p.Upper, "removed", p.Removed)
		}
	}

	record(StageOutliers, t)

	if t.Len() == 0 {
		log.Warn("no schools survived filtering", "output", output)
	}

	if err := writer.WriteCSV(output, t, writer.Options{
		Delimiter: cfg.Output.DelimiterRune(),
		BOMPrefix: cfg.Output.BOM,
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}

	report.Output, err = metadata.FileDigest(output)
	if err != nil {
		return nil, err
	}

	report.Result = t
	report.Duration = time.Since(start)

	log.Info("run complete", "output", output, "rows", t.Len(), "duration", report.Duration)

	return report, nil
}
