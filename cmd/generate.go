package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/seedgraph/internal/config"
	"github.com/Rana718/seedgraph/internal/export"
	"github.com/Rana718/seedgraph/internal/seeder"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dataset and export it",
	Long: `
Load the schema, generate every table in dependency order and write the
result to the output directory.

Examples:
  seedgraph generate
  seedgraph generate --seed 42 --format csv
  seedgraph generate --ddl db/schema --dialect mysql --batch 100
  seedgraph generate --format json --stdout > seed.json`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("schema", "", "YAML schema file (overrides schema_path)")
	generateCmd.Flags().String("ddl", "", "directory or .sql file with CREATE TABLE statements")
	generateCmd.Flags().Int64("seed", 0, "random seed for reproducible output")
	generateCmd.Flags().String("format", "", "output format: sql, csv, json, msgpack, sqlite")
	generateCmd.Flags().String("dialect", "", "SQL dialect: postgresql, mysql, sqlite")
	generateCmd.Flags().String("out", "", "output directory")
	generateCmd.Flags().Bool("stdout", false, "write sql or json to stdout instead of a file")
	generateCmd.Flags().Bool("create-tables", false, "emit CREATE TABLE IF NOT EXISTS before inserts")
	generateCmd.Flags().Int("batch", 0, "rows per INSERT statement")
	generateCmd.Flags().Bool("infer-relations", false, "treat <table>_id columns as relations in DDL mode")
}

func generateOverrides(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if v, _ := flags.GetString("schema"); v != "" {
			cfg.SchemaPath = v
			cfg.DDLDir = ""
		}
		if v, _ := flags.GetString("ddl"); v != "" {
			cfg.DDLDir = v
		}
		if flags.Changed("seed") {
			v, _ := flags.GetInt64("seed")
			cfg.Seed = &v
		}
		if v, _ := flags.GetString("format"); v != "" {
			cfg.Output.Format = v
		}
		if v, _ := flags.GetString("dialect"); v != "" {
			cfg.Output.Dialect = v
		}
		if v, _ := flags.GetString("out"); v != "" {
			cfg.Output.Dir = v
		}
		if v, _ := flags.GetBool("create-tables"); v {
			cfg.Output.CreateTables = true
		}
		if v, _ := flags.GetInt("batch"); v > 0 {
			cfg.Output.Batch = v
		}
		if v, _ := flags.GetBool("infer-relations"); v {
			cfg.InferRelations = true
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	toStdout, _ := cmd.Flags().GetBool("stdout")

	// keep stdout clean for the data itself
	var progress io.Writer = os.Stdout
	if toStdout {
		progress = os.Stderr
	}

	p, err := loadProject(generateOverrides(cmd), progress)
	if err != nil {
		return err
	}

	dialect, err := export.ParseDialect(p.cfg.Output.Dialect)
	if err != nil {
		return err
	}

	if p.seed != nil {
		color.New(color.FgCyan).Fprintf(progress, "🎲 Seed: %d\n", *p.seed)
	}

	data, err := p.engine.Generate()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	order, err := p.engine.Order()
	if err != nil {
		return err
	}

	if toStdout {
		return writeStdout(cmd.OutOrStdout(), data, p.cfg, dialect, order)
	}

	path, err := export.Write(context.Background(), data, export.Options{
		Dir:          p.cfg.Output.Dir,
		Format:       p.cfg.Output.Format,
		Dialect:      dialect,
		Order:        order,
		CreateTables: p.cfg.Output.CreateTables,
		Batch:        p.cfg.Output.Batch,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	total := 0
	for _, rows := range data {
		total += len(rows)
	}
	color.New(color.FgGreen).Fprintf(progress, "✅ Generated %d rows in %d tables\n", total, len(data))
	color.New(color.FgGreen).Fprintf(progress, "📁 Written to %s\n", path)
	return nil
}

func writeStdout(w io.Writer, data seeder.Snapshot, cfg *config.Config, dialect export.Dialect, order []string) error {
	switch cfg.Output.Format {
	case "sql":
		text, err := export.ToSQL(data, export.SQLOptions{
			Dialect:      dialect,
			Order:        order,
			CreateTables: cfg.Output.CreateTables,
			Batch:        cfg.Output.Batch,
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case "json":
		content, err := export.ToJSON(data, order)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(content))
		return err
	default:
		return fmt.Errorf("--stdout supports sql and json, not %s", cfg.Output.Format)
	}
}
