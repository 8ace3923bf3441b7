package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	FileName  = "seedgraph.config.json"
	EnvPrefix = "SEEDGRAPH"

	defaultCount = 10
)

type Config struct {
	Version        string         `json:"version" mapstructure:"version"`
	SchemaPath     string         `json:"schema_path" mapstructure:"schema_path"`
	DDLDir         string         `json:"ddl_dir,omitempty" mapstructure:"ddl_dir"`
	DefaultCount   int            `json:"default_count" mapstructure:"default_count"`
	Counts         map[string]int `json:"counts,omitempty" mapstructure:"counts"`
	Seed           *int64         `json:"seed,omitempty" mapstructure:"seed"`
	ReferenceDate  string         `json:"reference_date,omitempty" mapstructure:"reference_date"`
	InferRelations bool           `json:"infer_relations,omitempty" mapstructure:"infer_relations"`
	Output         Output         `json:"output" mapstructure:"output"`
}

type Output struct {
	Dir          string `json:"dir" mapstructure:"dir"`
	Format       string `json:"format" mapstructure:"format"`
	Dialect      string `json:"dialect" mapstructure:"dialect"`
	CreateTables bool   `json:"create_tables,omitempty" mapstructure:"create_tables"`
	Batch        int    `json:"batch,omitempty" mapstructure:"batch"`
}

var (
	supportedFormats  = []string{"sql", "csv", "json", "msgpack", "sqlite"}
	supportedDialects = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{DefaultCount: defaultCount}
	cfg.applyDefaults()
	return cfg
}

// RegisterDefaults makes every key known to viper so SEEDGRAPH_* variables
// reach Load even without a config file. Call it after SetEnvPrefix.
func RegisterDefaults() {
	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("schema_path", d.SchemaPath)
	viper.SetDefault("ddl_dir", "")
	viper.SetDefault("default_count", d.DefaultCount)
	viper.SetDefault("reference_date", "")
	viper.SetDefault("infer_relations", false)
	viper.SetDefault("output.dir", d.Output.Dir)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("output.dialect", d.Output.Dialect)
	viper.SetDefault("output.create_tables", false)
	viper.SetDefault("output.batch", d.Output.Batch)
	_ = viper.BindEnv("seed")
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// an explicit default_count of 0 is kept
	if !viper.IsSet("default_count") {
		cfg.DefaultCount = defaultCount
	}

	counts, err := envCounts(viper.GetEnvPrefix(), os.Environ())
	if err != nil {
		return nil, err
	}
	for table, n := range counts {
		if cfg.Counts == nil {
			cfg.Counts = make(map[string]int)
		}
		cfg.Counts[table] = n
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// envCounts reads per-table counts from <prefix>_COUNTS_<TABLE>=n. Table
// names are lowercased, as viper does for counts read from a file.
func envCounts(prefix string, environ []string) (map[string]int, error) {
	if prefix == "" {
		return nil, nil
	}
	marker := strings.ToUpper(prefix) + "_COUNTS_"

	counts := make(map[string]int)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, marker) || len(key) == len(marker) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q is not an integer", key, value)
		}
		counts[strings.ToLower(strings.TrimPrefix(key, marker))] = n
	}
	return counts, nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.SchemaPath == "" {
		c.SchemaPath = "seedgraph.yaml"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "db/seed"
	}
	if c.Output.Format == "" {
		c.Output.Format = "sql"
	}
	if c.Output.Dialect == "" {
		c.Output.Dialect = "postgresql"
	}
	if c.Output.Batch <= 0 {
		c.Output.Batch = 1
	}
}

func (c *Config) Validate() error {
	if !contains(supportedFormats, c.Output.Format) {
		return fmt.Errorf("unsupported output format: %s. Supported formats: %v", c.Output.Format, supportedFormats)
	}
	if !contains(supportedDialects, c.Output.Dialect) {
		return fmt.Errorf("unsupported dialect: %s. Supported dialects: %v", c.Output.Dialect, supportedDialects)
	}
	if c.DefaultCount < 0 {
		return fmt.Errorf("default_count cannot be negative")
	}
	for table, n := range c.Counts {
		if n < 0 {
			return fmt.Errorf("count for table %s cannot be negative", table)
		}
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir cannot be empty")
	}
	if _, err := c.ReferenceTime(); err != nil {
		return err
	}
	return nil
}

// ReferenceTime parses reference_date. The zero time means none was set.
func (c *Config) ReferenceTime() (time.Time, error) {
	if c.ReferenceDate == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.ReferenceDate); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reference_date %q: expected RFC3339 or YYYY-MM-DD", c.ReferenceDate)
}

// UsesDDL reports whether tables come from SQL files instead of the YAML
// schema.
func (c *Config) UsesDDL() bool {
	return c.DDLDir != ""
}

// SchemaExists reports whether the YAML schema file is present.
func (c *Config) SchemaExists() bool {
	_, err := os.Stat(c.SchemaPath)
	return err == nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
