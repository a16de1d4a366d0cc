// Copyright (c) HashiCorp, Inc.

package compile

import (
	"testing"

	"github.com/hashicorp/go-sdql/fieldpath"
	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employeesConfig() schema.Config {
	return schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"employees": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "manager_id", Type: schema.TypeUUID},
				{Name: "name", Type: schema.TypeString},
			}},
		},
		Relationships: []schema.Relationship{
			{FromTable: "employees", FromField: "manager_id", ToTable: "employees", ToField: "id", Kind: schema.ManyToOne},
		},
	})
}

func usersOrdersConfig() schema.Config {
	return schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"users": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "name", Type: schema.TypeString},
			}},
			"orders": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "user_id", Type: schema.TypeUUID},
				{Name: "total", Type: schema.TypeNumber},
			}},
		},
		Relationships: []schema.Relationship{
			{FromTable: "orders", FromField: "user_id", ToTable: "users", ToField: "id", Kind: schema.ManyToOne},
		},
	})
}

func TestJoinSet_dedupesIdenticalJoin(t *testing.T) {
	cfg := employeesConfig()
	js := NewJoinSet(cfg)

	alias1 := js.resolve("employees", "employees", "manager_id", "id")
	alias2 := js.resolve("employees", "employees", "manager_id", "id")

	assert.Equal(t, alias1, alias2)
	assert.Len(t, js.Clauses(), 1)
}

func TestJoinSet_distinctSourceGetsNumericSelfJoinAlias(t *testing.T) {
	cfg := employeesConfig()
	js := NewJoinSet(cfg)

	first := js.resolve("employees", "employees", "manager_id", "id")
	assert.Equal(t, "employees", first)

	second := js.resolve("employees", "employees", "id", "manager_id")
	assert.Equal(t, "employees_2", second)
	assert.Len(t, js.Clauses(), 2)
}

func TestResolveField_sameTableNeedsNoJoin(t *testing.T) {
	cfg := employeesConfig()
	s, err := NewState(cfg, "employees", true)
	require.NoError(t, err)

	path, err := fieldpath.Parse("manager_id")
	require.NoError(t, err)

	resolved, err := s.ResolveField("employees", "employees", path)
	require.NoError(t, err)
	assert.Equal(t, "employees.manager_id", resolved.SQL)
	assert.Equal(t, schema.TypeUUID, resolved.Type)
	assert.Len(t, s.Joins.Clauses(), 0)
}

func TestResolveField_relationshipHopSynthesizesJoin(t *testing.T) {
	cfg := usersOrdersConfig()
	s, err := NewState(cfg, "orders", true)
	require.NoError(t, err)

	path, err := fieldpath.Parse("users.name")
	require.NoError(t, err)

	resolved, err := s.ResolveField("orders", "orders", path)
	require.NoError(t, err)
	assert.Equal(t, "users.name", resolved.SQL)
	require.Len(t, s.Joins.Clauses(), 1)
	assert.Contains(t, s.Joins.Clauses()[0], "LEFT JOIN users ON orders.user_id = users.id")
}

func TestResolveField_jsonPathOnUnknownLeafType(t *testing.T) {
	cfg := schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"events": {AllowedFields: []schema.Field{
				{Name: "payload", Type: schema.TypeObject},
			}},
		},
	})
	s, err := NewState(cfg, "events", true)
	require.NoError(t, err)

	path, err := fieldpath.Parse("payload->meta->source")
	require.NoError(t, err)

	resolved, err := s.ResolveField("events", "events", path)
	require.NoError(t, err)
	assert.Equal(t, schema.TypeUnknown, resolved.Type)
	assert.Contains(t, resolved.SQL, "payload")
}

func TestDirectionFields(t *testing.T) {
	rel := schema.Relationship{FromTable: "employees", FromField: "manager_id", ToTable: "employees", ToField: "id"}
	from, to := directionFields(rel, "employees")
	assert.Equal(t, "manager_id", from)
	assert.Equal(t, "id", to)
}
