package seeder

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(rows []*Row, column string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Value(column))
	}
	return out
}

func TestGenerate_ResolvesDeclarationOrder(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "posts", Count: 5, Schema: []Column{
			{Name: "id", Field: UUID()},
			{Name: "authorId", Field: Relation("users", "id")},
		}},
		{Name: "users", Count: 2, Schema: []Column{
			{Name: "id", Field: UUID()},
			{Name: "name", Field: FullName()},
		}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)
	require.Len(t, data["users"], 2)
	require.Len(t, data["posts"], 5)

	userIDs := values(data["users"], "id")
	for _, post := range data["posts"] {
		assert.Contains(t, userIDs, post.Value("authorId"))
	}
}

func TestGenerate_EmptyReferencedTable(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 0, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "posts", Count: 5, Schema: []Column{{Name: "authorId", Field: Relation("users", "id")}}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), "table 'users' is empty")
}

func TestGenerate_MissingField(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 1, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "posts", Count: 1, Schema: []Column{{Name: "authorId", Field: Relation("users", "nonExistentField")}}},
	}})
	require.NoError(t, err)

	_, err = e.Generate()
	require.Error(t, err)
	assert.True(t, IsSchema(err))
	assert.Contains(t, err.Error(), "field 'nonExistentField' does not exist")
}

func TestGenerate_SelfReference(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "categories", Count: 10, Schema: []Column{
			{Name: "id", Field: UUID()},
			{Name: "name", Field: FullName()},
			{Name: "parentId", Field: Relation("categories", "id")},
		}},
	}})
	require.NoError(t, err)
	e.Seed(7)

	data, err := e.Generate()
	require.NoError(t, err)

	categories := data["categories"]
	require.Len(t, categories, 10)
	assert.Nil(t, categories[0].Value("parentId"))

	seen := map[any]bool{}
	for _, c := range categories {
		if parent := c.Value("parentId"); parent != nil {
			assert.True(t, seen[parent], "parent %v must belong to an earlier row", parent)
		}
		seen[c.Value("id")] = true
	}
}

func TestGenerate_SelfReferenceSingleRowIsNull(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "nodes", Count: 1, Schema: []Column{
			{Name: "id", Field: UUID()},
			{Name: "parentId", Field: Relation("nodes")},
		}},
	}})
	require.NoError(t, err)
	e.Seed(123)

	data, err := e.Generate()
	require.NoError(t, err)
	v, ok := data["nodes"][0].Get("parentId")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestGenerate_MixedExternalAndSelfReferences(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 2, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "posts", Count: 5, Schema: []Column{
			{Name: "id", Field: UUID()},
			{Name: "authorId", Field: Relation("users", "id")},
			{Name: "parentPostId", Field: Relation("posts", "id")},
		}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)

	userIDs := values(data["users"], "id")
	postIDs := values(data["posts"], "id")
	for _, post := range data["posts"] {
		assert.Contains(t, userIDs, post.Value("authorId"))
		if parent := post.Value("parentPostId"); parent != nil {
			assert.Contains(t, postIDs, parent)
		}
	}
}

func TestGenerate_ReadsEarlierColumnsOfSameRow(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "items", Count: 5, Schema: []Column{
			{Name: "basePrice", Field: Const(100)},
			{Name: "tax", Field: Custom(func(ctx *Context) any {
				return float64(ctx.Row.Value("basePrice").(int)) * 0.2
			})},
			{Name: "total", Field: Custom(func(ctx *Context) any {
				base := float64(ctx.Row.Value("basePrice").(int))
				return base + base*0.2
			})},
		}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)
	for _, item := range data["items"] {
		assert.Equal(t, 100, item.Value("basePrice"))
		assert.Equal(t, 20.0, item.Value("tax"))
		assert.Equal(t, 120.0, item.Value("total"))
	}
}

func TestGenerate_LaterColumnsAreNotVisible(t *testing.T) {
	var visible []string
	e, err := New(Config{Tables: []Table{
		{Name: "t", Count: 1, Schema: []Column{
			{Name: "a", Field: Const(1)},
			{Name: "inspect", Field: Custom(func(ctx *Context) any {
				visible = ctx.Row.Columns()
				return nil
			})},
			{Name: "b", Field: Const(2)},
		}},
	}})
	require.NoError(t, err)

	_, err = e.Generate()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, visible)
}

func TestGenerate_DateSoonFollowsReference(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "tasks", Count: 50, Schema: []Column{
			{Name: "createdAt", Field: DatePast(1)},
			{Name: "updatedAt", Field: DateSoon(10, "createdAt")},
		}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)
	for _, task := range data["tasks"] {
		created := task.Value("createdAt").(time.Time)
		updated := task.Value("updatedAt").(time.Time)
		assert.False(t, updated.Before(created))
		assert.LessOrEqual(t, updated.Sub(created), 10*24*time.Hour)
	}
}

func TestGenerate_RowCountsMatchConfig(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "empty", Count: 0, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "one", Count: 1, Schema: []Column{{Name: "id", Field: Sequence(1)}}},
		{Name: "many", Count: 250, Schema: []Column{{Name: "id", Field: Sequence(1)}, {Name: "oneId", Field: Relation("one")}}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)
	assert.Len(t, data["empty"], 0)
	assert.Len(t, data["one"], 1)
	require.Len(t, data["many"], 250)
	assert.Equal(t, 1, data["many"][0].Value("id"))
	assert.Equal(t, 250, data["many"][249].Value("id"))
}

func TestGenerate_Deterministic(t *testing.T) {
	config := func() Config {
		return Config{Tables: []Table{
			{Name: "posts", Count: 4, Schema: []Column{
				{Name: "id", Field: UUID()},
				{Name: "authorId", Field: Relation("users")},
				{Name: "publishedAt", Field: DatePast(2)},
			}},
			{Name: "users", Count: 3, Schema: []Column{
				{Name: "id", Field: UUID()},
				{Name: "name", Field: FullName()},
				{Name: "email", Field: Email()},
				{Name: "active", Field: Bool()},
			}},
		}}
	}

	run := func() []byte {
		e, err := New(config())
		require.NoError(t, err)
		e.Seed(12345)
		data, err := e.Generate()
		require.NoError(t, err)
		out, err := json.Marshal(data)
		require.NoError(t, err)
		return out
	}

	assert.JSONEq(t, string(run()), string(run()))
}

func TestGenerate_ReseedingSameEngineRepeatsOutput(t *testing.T) {
	join := NewCrossJoin("a", "b")
	e, err := New(Config{Tables: []Table{
		{Name: "a", Count: 3, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "b", Count: 3, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "ab", Count: 9, Schema: []Column{{Name: "aId", Field: join.Left()}, {Name: "bId", Field: join.Right()}}},
	}})
	require.NoError(t, err)

	e.Seed(99)
	first, err := e.Generate()
	require.NoError(t, err)
	e.Seed(99)
	second, err := e.Generate()
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
}

func TestGenerate_IndependentEnginesDoNotShareRandomState(t *testing.T) {
	cfg := Config{Tables: []Table{{Name: "users", Count: 5, Schema: []Column{{Name: "id", Field: UUID()}}}}}

	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)
	a.Seed(1)
	b.Seed(1)

	// drawing from a must not move b
	_, err = a.Generate()
	require.NoError(t, err)
	fromB, err := b.Generate()
	require.NoError(t, err)

	c, err := New(cfg)
	require.NoError(t, err)
	c.Seed(1)
	fromC, err := c.Generate()
	require.NoError(t, err)

	assert.Equal(t, values(fromC["users"], "id"), values(fromB["users"], "id"))
}

func TestGenerate_CircularDependency(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "A", Count: 1, Schema: []Column{{Name: "bId", Field: Relation("B")}}},
		{Name: "B", Count: 1, Schema: []Column{{Name: "aId", Field: Relation("A")}}},
	}})
	require.NoError(t, err)

	_, err = e.Generate()
	require.Error(t, err)
	assert.True(t, IsCircular(err))
}

func TestGenerate_UnconfiguredDependencyIsSkippedButUnresolvable(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 2, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "audit", Count: 1, Schema: []Column{{Name: "note", Field: CustomE(func(*Context) (any, error) { return "ok", nil })}}},
		{Name: "posts", Count: 1, Schema: []Column{{Name: "orgId", Field: Relation("orgs")}}},
	}})
	require.NoError(t, err)

	order, err := e.Order()
	require.NoError(t, err)
	assert.Contains(t, order, "orgs")

	_, err = e.Generate()
	require.Error(t, err)
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), "orgs")
}

func TestGenerate_UnconfiguredNodeWithoutUseIsTolerated(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 2, Schema: []Column{{Name: "id", Field: UUID()}}},
		{Name: "posts", Count: 0, Schema: []Column{{Name: "orgId", Field: Relation("orgs")}}},
	}})
	require.NoError(t, err)

	data, err := e.Generate()
	require.NoError(t, err)
	_, present := data["orgs"]
	assert.False(t, present)
	assert.Len(t, data["users"], 2)
	assert.Len(t, data["posts"], 0)
}

func TestGenerate_WritesProgress(t *testing.T) {
	var out bytes.Buffer
	e, err := New(Config{Tables: []Table{
		{Name: "users", Count: 2, Schema: []Column{{Name: "id", Field: UUID()}}},
	}}, WithOutput(&out))
	require.NoError(t, err)

	_, err = e.Generate()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "users: 2 rows")
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]Config{
		"empty table name": {Tables: []Table{{Name: "", Count: 1}}},
		"duplicate table": {Tables: []Table{
			{Name: "users", Count: 1, Schema: []Column{{Name: "id", Field: UUID()}}},
			{Name: "users", Count: 1, Schema: []Column{{Name: "id", Field: UUID()}}},
		}},
		"negative count":   {Tables: []Table{{Name: "users", Count: -1}}},
		"duplicate column": {Tables: []Table{{Name: "users", Count: 1, Schema: []Column{{Name: "id", Field: UUID()}, {Name: "id", Field: UUID()}}}}},
		"nil field":        {Tables: []Table{{Name: "users", Count: 1, Schema: []Column{{Name: "id"}}}}},
		"unnamed column":   {Tables: []Table{{Name: "users", Count: 1, Schema: []Column{{Field: UUID()}}}}},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNew_DoesNotMutateCallerSchema(t *testing.T) {
	rel := Relation("categories")
	schema := []Column{{Name: "id", Field: UUID()}, {Name: "parentId", Field: rel}}

	_, err := New(Config{Tables: []Table{{Name: "categories", Count: 2, Schema: schema}}})
	require.NoError(t, err)
	assert.Same(t, rel, schema[1].Field)
}

func TestPlan(t *testing.T) {
	e, err := New(Config{Tables: []Table{
		{Name: "comments", Count: 10, Schema: []Column{{Name: "postId", Field: Relation("posts")}, {Name: "userId", Field: Relation("users")}}},
		{Name: "posts", Count: 5, Schema: []Column{{Name: "authorId", Field: Relation("users")}}},
		{Name: "users", Count: 2, Schema: []Column{{Name: "id", Field: UUID()}}},
	}})
	require.NoError(t, err)

	steps, err := e.Plan()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, Step{Table: "users", Level: 0, Count: 2, Configured: true}, steps[0])
	assert.Equal(t, "posts", steps[1].Table)
	assert.Equal(t, 1, steps[1].Level)
	assert.Equal(t, "comments", steps[2].Table)
	assert.Equal(t, 2, steps[2].Level)
	assert.Equal(t, []string{"posts", "users"}, steps[2].DependsOn)
}
