package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/seedgraph/internal/config"
	"github.com/Rana718/seedgraph/internal/seeder"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the generation order without generating",
	Long: `
Print the order in which tables will be generated, with each table's
dependency level, row count and the tables it depends on. Circular
dependencies are reported here before any data is produced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("schema")
		ddlDir, _ := cmd.Flags().GetString("ddl")

		out := cmd.OutOrStdout()
		p, err := loadProject(func(cfg *config.Config) {
			if schemaPath != "" {
				cfg.SchemaPath = schemaPath
				cfg.DDLDir = ""
			}
			if ddlDir != "" {
				cfg.DDLDir = ddlDir
			}
		}, out)
		if err != nil {
			return err
		}

		steps, err := p.engine.Plan()
		if err != nil {
			if seeder.IsCircular(err) {
				color.New(color.FgRed).Fprintf(out, "❌ %v\n", err)
			}
			return err
		}

		printPlan(out, steps)
		return nil
	},
}

func init() {
	planCmd.Flags().String("schema", "", "YAML schema file (overrides schema_path)")
	planCmd.Flags().String("ddl", "", "directory or .sql file with CREATE TABLE statements")
}

func printPlan(out io.Writer, steps []seeder.Step) {
	color.New(color.FgCyan, color.Bold).Fprintf(out, "📋 Execution plan (%d tables)\n\n", len(steps))
	for i, step := range steps {
		deps := "-"
		if len(step.DependsOn) > 0 {
			deps = strings.Join(step.DependsOn, ", ")
		}
		count := fmt.Sprintf("%d rows", step.Count)
		if !step.Configured {
			count = "not configured"
		}
		fmt.Fprintf(out, "  %2d. %-24s level %-3d %-16s depends on: %s\n", i+1, step.Table, step.Level, count, deps)
	}
}
