package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Rana718/seedgraph/internal/config"
	"github.com/Rana718/seedgraph/internal/schema"
	"github.com/Rana718/seedgraph/internal/seeder"
)

// project is a loaded configuration with its ready-to-run engine.
type project struct {
	cfg    *config.Config
	engine *seeder.Engine
	seed   *int64
	source string
}

// loadProject reads the config, applies overrides and builds the engine
// from either the YAML schema or the DDL directory. Progress goes to out.
func loadProject(override func(*config.Config), out io.Writer) (*project, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &project{cfg: cfg, seed: cfg.Seed}

	var tables seeder.Config
	if cfg.UsesDDL() {
		color.New(color.FgCyan).Fprintf(out, "📖 Parsing DDL from %s...\n", cfg.DDLDir)
		parsed, err := schema.LoadDDL(cfg.DDLDir)
		if err != nil {
			return nil, err
		}
		tables = schema.BuildConfig(parsed, schema.DDLOptions{
			DefaultCount:   cfg.DefaultCount,
			Counts:         cfg.Counts,
			InferRelations: cfg.InferRelations,
		})
		p.source = cfg.DDLDir
	} else {
		if !cfg.SchemaExists() {
			return nil, fmt.Errorf("schema file %s not found (run 'seedgraph init' or pass --schema/--ddl)", cfg.SchemaPath)
		}
		color.New(color.FgCyan).Fprintf(out, "📖 Parsing %s...\n", cfg.SchemaPath)
		doc, err := schema.Load(cfg.SchemaPath, cfg.DefaultCount)
		if err != nil {
			return nil, err
		}
		doc.ApplyCounts(cfg.Counts)
		tables = doc.Config
		if p.seed == nil {
			p.seed = doc.Seed
		}
		p.source = cfg.SchemaPath
	}

	opts := []seeder.Option{seeder.WithOutput(out)}
	ref, _ := cfg.ReferenceTime()
	if !ref.IsZero() {
		opts = append(opts, seeder.WithReferenceTime(ref))
	}

	engine, err := seeder.New(tables, opts...)
	if err != nil {
		return nil, err
	}
	if p.seed != nil {
		engine.Seed(*p.seed)
	}
	p.engine = engine
	return p, nil
}
