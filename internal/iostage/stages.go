// Package iostage provides the four pipeline tasks. Each task takes only
// a context, settings come from the configuration the stages were created
// with, and data is handed over through artifact files.
package iostage

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/agrietl/internal/ioartifact"
	"github.com/gnames/agrietl/internal/iodb"
	"github.com/gnames/agrietl/internal/ioextract"
	"github.com/gnames/agrietl/internal/ioload"
	"github.com/gnames/agrietl/internal/ioschema"
	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/agrietl/pkg/dag"
	"github.com/gnames/agrietl/pkg/db"
	"github.com/gnames/agrietl/pkg/lifecycle"
	"github.com/gnames/agrietl/pkg/transform"
	"github.com/gnames/agrietl/pkg/validate"
	"github.com/gnames/gn"
)

// Task identifiers, in execution order.
const (
	TaskExtract   = "extract_agric_data"
	TaskValidate  = "transform_and_validate_data"
	TaskCreate    = "create_table"
	TaskLoad      = "loading_to_postgres"
	maxViolations = 20
)

// Stages holds settings and collaborators of the pipeline tasks.
type Stages struct {
	cfg *config.Config
	cat *catalog.Catalog

	extractor    lifecycle.Extractor
	connect      func(ctx context.Context) (db.Operator, error)
	tableManager func(op db.Operator) lifecycle.TableManager
	loader       func(op db.Operator) lifecycle.Loader
}

// Option configures Stages.
type Option func(*Stages)

// OptExtractor replaces the World Bank extractor.
func OptExtractor(e lifecycle.Extractor) Option {
	return func(s *Stages) {
		s.extractor = e
	}
}

// OptConnect replaces the function that opens a database connection.
func OptConnect(fn func(ctx context.Context) (db.Operator, error)) Option {
	return func(s *Stages) {
		s.connect = fn
	}
}

// OptTableManager replaces the factory of the table manager.
func OptTableManager(fn func(op db.Operator) lifecycle.TableManager) Option {
	return func(s *Stages) {
		s.tableManager = fn
	}
}

// OptLoader replaces the factory of the loader.
func OptLoader(fn func(op db.Operator) lifecycle.Loader) Option {
	return func(s *Stages) {
		s.loader = fn
	}
}

// New creates Stages with default collaborators.
func New(cfg *config.Config, cat *catalog.Catalog, opts ...Option) *Stages {
	res := &Stages{
		cfg: cfg,
		cat: cat,
		extractor: ioextract.New(cfg, cat,
			ioextract.OptProgressBar(cfg.Log.Destination == "file"),
		),
		connect: func(ctx context.Context) (db.Operator, error) {
			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return nil, err
			}
			return op, nil
		},
		tableManager: func(op db.Operator) lifecycle.TableManager {
			return ioschema.NewManager(op, cat, cfg.Load.Table)
		},
		loader: func(op db.Operator) lifecycle.Loader {
			return ioload.New(op, cat, cfg.Load.Table)
		},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Tasks returns the pipeline tasks in execution order.
func (s *Stages) Tasks() []dag.Task {
	return []dag.Task{
		{ID: TaskExtract, Run: s.Extract},
		{ID: TaskValidate, Run: s.TransformValidate},
		{ID: TaskCreate, Run: s.CreateTable},
		{ID: TaskLoad, Run: s.Load},
	}
}

// DAG creates the pipeline DAG with retry settings from the configuration.
func (s *Stages) DAG(onFailure dag.FailureHook, logRef string) *dag.DAG {
	return dag.New(s.cfg.Run.DagID, s.Tasks(),
		dag.OptOwner(s.cfg.Run.Owner),
		dag.OptRetries(s.cfg.Run.Retries),
		dag.OptRetryDelay(s.cfg.Run.RetryDelay),
		dag.OptLogRef(logRef),
		dag.OptOnFailure(onFailure),
	)
}

// Extract downloads raw records and saves them to the raw artifact.
func (s *Stages) Extract(ctx context.Context) error {
	entries, err := s.extractor.Extract(ctx)
	if err != nil {
		return err
	}

	path := s.cfg.RawArtifactPath()
	slog.Info("Saving raw extracted data", "path", path, "records", len(entries))
	return ioartifact.WriteRaw(path, entries)
}

// TransformValidate pivots raw records into a wide table, validates it,
// and saves the validated table for loading.
func (s *Stages) TransformValidate(_ context.Context) error {
	entries, err := ioartifact.ReadRaw(s.cfg.RawArtifactPath())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Warn("Raw data file is empty", "path", s.cfg.RawArtifactPath())
	}

	wide := transform.Transform(entries, s.cat)
	slog.Info("Data transformed",
		"records", len(entries),
		"rows", wide.Len(),
		"columns", len(wide.Columns),
	)

	schema := validate.NewSchema(s.cat, s.cfg.Extract.YearStart, s.cfg.Extract.YearEnd)
	res, err := validate.Validate(wide, schema)
	if err != nil {
		logViolations(err)
		return err
	}

	path := s.cfg.WideArtifactPath()
	if err = ioartifact.WriteWide(path, res); err != nil {
		return err
	}
	gn.Info("Validated <em>%s</em> rows", humanize.Comma(int64(res.Len())))
	return nil
}

// CreateTable makes sure the destination table exists.
func (s *Stages) CreateTable(ctx context.Context) error {
	op, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	return s.tableManager(op).EnsureTable(ctx)
}

// Load merges the validated table into the destination table and removes
// artifacts of the run.
func (s *Stages) Load(ctx context.Context) error {
	wide, err := ioartifact.ReadWide(s.cfg.WideArtifactPath())
	if err != nil {
		return err
	}

	op, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	n, err := s.loader(op).Upsert(ctx, wide)
	if err != nil {
		return err
	}

	removed := ioartifact.Remove(s.cfg.RawArtifactPath(), s.cfg.WideArtifactPath())
	slog.Debug("Artifacts removed", "count", removed)

	gn.Info("Loaded <em>%s</em> rows into <em>%s</em>",
		humanize.Comma(n), s.cfg.Load.Table)
	return nil
}

func logViolations(err error) {
	vs := validate.Violations(err)
	if len(vs) == 0 {
		slog.Error("Data validation failed", "error", err)
		return
	}

	slog.Error("Data validation failed", "violations", len(vs))
	for _, v := range validate.Summary(vs) {
		slog.Error("Validation summary", "check", v)
	}
	for i, v := range vs {
		if i == maxViolations {
			slog.Error("More violations are not shown", "count", len(vs)-i)
			break
		}
		slog.Error("Validation failure", "case", v.String())
	}
}
