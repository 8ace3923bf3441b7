package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/seedgraph/internal/config"
	"github.com/Rana718/seedgraph/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a seedgraph project",
	Long:  `Create a seedgraph.config.json, a sample seedgraph.yaml schema and a sample SQL schema for the chosen dialect. Existing files are kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(".", dbType)
	},
}

func init() {
	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL")
}

func initializeProject(root string, dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	for _, dir := range tmpl.GetDirectoryStructure() {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := []struct {
		path    string
		content string
	}{
		{config.FileName, tmpl.GetConfig()},
		{"seedgraph.yaml", tmpl.GetSchema()},
		{filepath.Join("db", "schema", "schema.sql"), tmpl.GetDDL()},
	}

	for _, f := range files {
		target := filepath.Join(root, f.path)
		if _, err := os.Stat(target); err == nil {
			color.Yellow("ℹ️  Skipped %s (already exists)", f.path)
			continue
		}
		if err := os.WriteFile(target, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", f.path, err)
		}
		color.Green("📝 Created %s", f.path)
	}

	fmt.Println()
	color.Green("✅ Initialized seedgraph project with %s output", dbType)
	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   seedgraph plan                         # Show generation order\n")
	fmt.Printf("   seedgraph generate                     # Write db/seed/seed_<time>.sql\n")
	fmt.Printf("   seedgraph generate --ddl db/schema     # Generate from SQL tables\n")

	return nil
}
