package template

import "fmt"

type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	PostgreSQL DatabaseType = "postgresql"
	MySQL      DatabaseType = "mysql"
)

type ProjectTemplate struct {
	DatabaseType DatabaseType
}

type dbConfig struct {
	dialect          string
	primaryKey       string
	foreignKey       string
	textType         string
	timestampType    string
	timestampDefault string
}

var dbConfigs = map[DatabaseType]dbConfig{
	SQLite: {
		dialect:          "sqlite",
		primaryKey:       "INTEGER PRIMARY KEY AUTOINCREMENT",
		foreignKey:       "INTEGER",
		textType:         "TEXT",
		timestampType:    "DATETIME",
		timestampDefault: "CURRENT_TIMESTAMP",
	},
	MySQL: {
		dialect:          "mysql",
		primaryKey:       "INT AUTO_INCREMENT PRIMARY KEY",
		foreignKey:       "INT",
		textType:         "VARCHAR(255)",
		timestampType:    "TIMESTAMP",
		timestampDefault: "CURRENT_TIMESTAMP",
	},
	PostgreSQL: {
		dialect:          "postgresql",
		primaryKey:       "SERIAL PRIMARY KEY",
		foreignKey:       "INTEGER",
		textType:         "VARCHAR(255)",
		timestampType:    "TIMESTAMP WITH TIME ZONE",
		timestampDefault: "NOW()",
	},
}

func NewProjectTemplate(dbType DatabaseType) *ProjectTemplate {
	return &ProjectTemplate{DatabaseType: dbType}
}

func (pt *ProjectTemplate) GetConfig() string {
	cfg := dbConfigs[pt.DatabaseType]
	return fmt.Sprintf(`{
  "schema_path": "seedgraph.yaml",
  "default_count": 10,
  "seed": 42,
  "output": {
    "dir": "db/seed",
    "format": "sql",
    "dialect": "%s",
    "batch": 50
  }
}`, cfg.dialect)
}

// GetSchema returns a sample YAML schema covering relations, a
// self-reference and a join table.
func (pt *ProjectTemplate) GetSchema() string {
	return `seed: 42
tables:
  users:
    count: 10
    fields:
      id: {type: sequence, start: 1}
      name: fullName
      email: email
      active: boolean
      created_at: {type: datePast, years: 2}
  posts:
    count: 25
    fields:
      id: {type: sequence, start: 1}
      author_id: {type: relation, table: users, field: id}
      parent_id: {type: relation, table: posts, field: id}
      title: title
      status: {type: oneOf, values: [draft, published, archived]}
      created_at: {type: datePast, years: 1}
      published_at: {type: dateSoon, days: 30, ref: created_at}
  tags:
    count: 8
    fields:
      id: {type: sequence, start: 1}
      name: word
  post_tags:
    count: 40
    fields:
      post_id: {type: crossJoin, side: left, tables: [posts, tags]}
      tag_id: {type: crossJoin, side: right, tables: [posts, tags]}
`
}

// GetDDL returns the same users/posts tables as SQL, for --ddl runs.
func (pt *ProjectTemplate) GetDDL() string {
	cfg := dbConfigs[pt.DatabaseType]
	return fmt.Sprintf(`CREATE TABLE users (
    id %s,
    name %s NOT NULL,
    email %s UNIQUE NOT NULL,
    created_at %s NOT NULL DEFAULT %s
);

CREATE TABLE posts (
    id %s,
    user_id %s NOT NULL REFERENCES users(id),
    title %s NOT NULL,
    created_at %s NOT NULL DEFAULT %s
);
`, cfg.primaryKey, cfg.textType, cfg.textType, cfg.timestampType, cfg.timestampDefault,
		cfg.primaryKey, cfg.foreignKey, cfg.textType, cfg.timestampType, cfg.timestampDefault)
}

func (pt *ProjectTemplate) GetDirectoryStructure() []string {
	return []string{"db/schema", "db/seed"}
}

func ValidateDatabaseType(dbType string) DatabaseType {
	types := map[string]DatabaseType{
		"sqlite":     SQLite,
		"mysql":      MySQL,
		"postgresql": PostgreSQL,
		"postgres":   PostgreSQL,
	}

	if dt, exists := types[dbType]; exists {
		return dt
	}
	return PostgreSQL
}
