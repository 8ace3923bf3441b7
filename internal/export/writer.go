package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// Formats lists the output formats Write understands.
var Formats = []string{"sql", "csv", "json", "msgpack", "sqlite"}

type Options struct {
	Dir          string
	Format       string
	Dialect      Dialect
	Order        []string
	CreateTables bool
	Batch        int
	// Now stamps file names; time.Now when zero.
	Now time.Time
}

// ValidateFormat reports whether format is one of Formats.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
}

// Write exports data under opts.Dir and returns the path of the file (or,
// for csv, the directory) it created.
func Write(ctx context.Context, data seeder.Snapshot, opts Options) (string, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return "", err
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	timestamp := now.Format("2006-01-02_15-04-05")

	switch opts.Format {
	case "csv":
		return writeCSVDir(ctx, data, filepath.Join(opts.Dir, fmt.Sprintf("seed_%s_csv", timestamp)))
	case "sqlite":
		path := filepath.Join(opts.Dir, fmt.Sprintf("seed_%s.db", timestamp))
		if err := ToSQLite(ctx, data, opts.Order, path); err != nil {
			return "", err
		}
		return path, nil
	}

	var (
		content []byte
		err     error
		ext     = opts.Format
	)
	switch opts.Format {
	case "sql":
		var text string
		text, err = ToSQL(data, SQLOptions{Dialect: opts.Dialect, Order: opts.Order, CreateTables: opts.CreateTables, Batch: opts.Batch})
		content = []byte(text)
	case "json":
		content, err = ToJSON(data, opts.Order)
	case "msgpack":
		content, err = ToMsgpack(data, opts.Order)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", opts.Format, err)
	}

	path := filepath.Join(opts.Dir, fmt.Sprintf("seed_%s.%s", timestamp, ext))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func writeCSVDir(ctx context.Context, data seeder.Snapshot, dirPath string) (string, error) {
	for table := range data {
		if table == "" || table == "." || table == ".." || strings.ContainsAny(table, `/\`) {
			return "", fmt.Errorf("table name %q cannot be used as a file name", table)
		}
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for table, rows := range data {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := os.Create(filepath.Join(dirPath, table+".csv"))
			if err != nil {
				return fmt.Errorf("failed to create CSV file for %s: %w", table, err)
			}
			defer file.Close()

			if err := writeCSV(file, rows); err != nil {
				return fmt.Errorf("failed to write CSV for %s: %w", table, err)
			}
			return file.Close()
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return dirPath, nil
}
