package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/seedgraph/internal/seeder"
)

const blogDDL = `
-- users first
CREATE TABLE IF NOT EXISTS "users" (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    name TEXT,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE INDEX idx_users_email ON users (email);

/* posts reference users and themselves */
CREATE TABLE posts (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    parent_id INTEGER,
    price DECIMAL(10, 2),
    title VARCHAR(200) NOT NULL,
    FOREIGN KEY (parent_id) REFERENCES posts(id)
);

CREATE TABLE comments (
    id INTEGER,
    post_id INTEGER,
    author_id INTEGER,
    body TEXT,
    PRIMARY KEY (id)
);
`

func findColumn(t *testing.T, table TableInfo, name string) ColumnInfo {
	t.Helper()
	for _, c := range table.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %s not found in %s", name, table.Name)
	return ColumnInfo{}
}

func TestParseDDL(t *testing.T) {
	tables, err := ParseDDL(blogDDL)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	users, posts, comments := tables[0], tables[1], tables[2]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, "id", users.PrimaryKey)

	id := findColumn(t, users, "id")
	assert.True(t, id.IsPrimary)
	assert.True(t, id.AutoIncrement)

	email := findColumn(t, users, "email")
	assert.Equal(t, "VARCHAR(255)", email.Type)
	assert.False(t, email.Nullable)
	assert.True(t, findColumn(t, users, "name").Nullable)
	assert.Equal(t, "TIMESTAMP WITH TIME ZONE", findColumn(t, users, "created_at").Type)
	assert.Equal(t, "NOW()", findColumn(t, users, "created_at").Default)

	userID := findColumn(t, posts, "user_id")
	assert.Equal(t, "users", userID.FKTable)
	assert.Equal(t, "id", userID.FKColumn)
	assert.Equal(t, "posts", findColumn(t, posts, "parent_id").FKTable)
	assert.Equal(t, "DECIMAL(10, 2)", findColumn(t, posts, "price").Type)
	assert.Len(t, posts.Columns, 5)

	assert.Equal(t, "id", comments.PrimaryKey)
	assert.False(t, findColumn(t, comments, "post_id").IsForeignKey())
}

func TestParseDDL_MySQLBackticks(t *testing.T) {
	tables, err := ParseDDL("CREATE TABLE `orders` (`id` INT AUTO_INCREMENT PRIMARY KEY, `index_no` INT, `customer_id` INT, FOREIGN KEY (`customer_id`) REFERENCES `customers`(`id`));")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "orders", tables[0].Name)
	require.Len(t, tables[0].Columns, 3)
	assert.Equal(t, "index_no", tables[0].Columns[1].Name)
	assert.Equal(t, "customers", findColumn(t, tables[0], "customer_id").FKTable)
	assert.True(t, findColumn(t, tables[0], "id").AutoIncrement)
}

func TestBuildConfig(t *testing.T) {
	tables, err := ParseDDL(blogDDL)
	require.NoError(t, err)

	cfg := BuildConfig(tables, DDLOptions{DefaultCount: 4, Counts: map[string]int{"comments": 6}})
	require.Len(t, cfg.Tables, 3)
	assert.Equal(t, 4, cfg.Tables[0].Count)
	assert.Equal(t, 6, cfg.Tables[2].Count)

	engine, err := seeder.New(cfg)
	require.NoError(t, err)
	engine.Seed(1)

	order, err := engine.Order()
	require.NoError(t, err)
	assert.Less(t, indexOf(order, "users"), indexOf(order, "posts"))

	data, err := engine.Generate()
	require.NoError(t, err)

	userIDs := map[any]bool{}
	for i, row := range data["users"] {
		assert.Equal(t, i+1, row.Value("id"))
		userIDs[row.Value("id")] = true
	}
	for _, row := range data["posts"] {
		assert.True(t, userIDs[row.Value("user_id")])
	}
	assert.Nil(t, data["posts"][0].Value("parent_id"))
}

func TestBuildConfig_InferRelations(t *testing.T) {
	tables, err := ParseDDL(blogDDL)
	require.NoError(t, err)

	without := BuildConfig(tables, DDLOptions{DefaultCount: 2})
	engine, err := seeder.New(without)
	require.NoError(t, err)
	assert.Empty(t, engine.Graph().DependenciesOf("comments"))

	with := BuildConfig(tables, DDLOptions{DefaultCount: 2, InferRelations: true})
	engine, err = seeder.New(with)
	require.NoError(t, err)
	// post_id finds posts; author_id has no authors table
	assert.Equal(t, []string{"posts"}, engine.Graph().DependenciesOf("comments"))
}

const tagsDDL = `
CREATE TABLE posts (id SERIAL PRIMARY KEY, title TEXT);
CREATE TABLE tags (id SERIAL PRIMARY KEY, label TEXT);
CREATE TABLE post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id),
    tag_id INTEGER NOT NULL,
    CONSTRAINT fk_tag FOREIGN KEY (tag_id) REFERENCES tags(id),
    CONSTRAINT pk_post_tags PRIMARY KEY (post_id, tag_id)
);
`

func TestBuildConfig_CompositeKeyJoin(t *testing.T) {
	tables, err := ParseDDL(tagsDDL)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, []string{"post_id", "tag_id"}, tables[2].CompositeKey)

	t.Run("pairs are unique", func(t *testing.T) {
		cfg := BuildConfig(tables, DDLOptions{DefaultCount: 2, Counts: map[string]int{"post_tags": 4}})
		engine, err := seeder.New(cfg)
		require.NoError(t, err)
		engine.Seed(1)

		data, err := engine.Generate()
		require.NoError(t, err)
		require.Len(t, data["post_tags"], 4)

		seen := map[string]bool{}
		for _, row := range data["post_tags"] {
			key := fmt.Sprint(row.Value("post_id"), "/", row.Value("tag_id"))
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	})

	t.Run("more rows than pairs", func(t *testing.T) {
		cfg := BuildConfig(tables, DDLOptions{DefaultCount: 2, Counts: map[string]int{"post_tags": 5}})
		engine, err := seeder.New(cfg)
		require.NoError(t, err)
		engine.Seed(1)

		_, err = engine.Generate()
		require.Error(t, err)
		assert.True(t, seeder.IsExhaustion(err))
	})
}

func TestLoadDDL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_posts.sql"), []byte("CREATE TABLE posts (id SERIAL PRIMARY KEY, user_id INT REFERENCES users(id));"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_users.sql"), []byte("CREATE TABLE users (id SERIAL PRIMARY KEY);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("CREATE TABLE ignored (id INT);"), 0644))

	tables, err := LoadDDL(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, "posts", tables[1].Name)

	single, err := LoadDDL(filepath.Join(dir, "02_posts.sql"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = LoadDDL(t.TempDir())
	assert.Error(t, err)
}
