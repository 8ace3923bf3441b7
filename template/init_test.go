package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/seedgraph/internal/schema"
	"github.com/Rana718/seedgraph/internal/seeder"
)

func TestTemplatesAreUsable(t *testing.T) {
	for _, dbType := range []DatabaseType{PostgreSQL, MySQL, SQLite} {
		t.Run(string(dbType), func(t *testing.T) {
			tmpl := NewProjectTemplate(dbType)

			var cfg map[string]any
			require.NoError(t, json.Unmarshal([]byte(tmpl.GetConfig()), &cfg))
			assert.Equal(t, string(dbType), cfg["output"].(map[string]any)["dialect"])

			doc, err := schema.Parse([]byte(tmpl.GetSchema()), 10)
			require.NoError(t, err)
			engine, err := seeder.New(doc.Config)
			require.NoError(t, err)
			engine.Seed(*doc.Seed)
			data, err := engine.Generate()
			require.NoError(t, err)
			assert.Len(t, data["post_tags"], 40)

			tables, err := schema.ParseDDL(tmpl.GetDDL())
			require.NoError(t, err)
			require.Len(t, tables, 2)
			assert.Equal(t, "id", tables[0].PrimaryKey)
			assert.Equal(t, "users", tables[1].Columns[1].FKTable)
		})
	}
}

func TestValidateDatabaseType(t *testing.T) {
	assert.Equal(t, PostgreSQL, ValidateDatabaseType("postgres"))
	assert.Equal(t, SQLite, ValidateDatabaseType("sqlite"))
	assert.Equal(t, PostgreSQL, ValidateDatabaseType("unknown"))
}
