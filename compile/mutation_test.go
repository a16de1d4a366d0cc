// Copyright (c) HashiCorp, Inc.

package compile_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/compile"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersMutationConfig() schema.Config {
	return schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"users": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "name", Type: schema.TypeString},
				{Name: "age", Type: schema.TypeNumber, Nullable: true},
				{Name: "active", Type: schema.TypeBoolean, HasDefault: true, Default: true},
			}},
		},
	})
}

func newNonParamState(t *testing.T, cfg schema.Config, root string) *compile.State {
	t.Helper()
	s, err := compile.NewState(cfg, root, false)
	require.NoError(t, err)
	return s
}

func TestBuildInsert_defaultsAndExplicitColumns(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.InsertQuery{
		Table:    "users",
		RowOrder: []string{"id", "name"},
		NewRow: map[string]ast.Expr{
			"id":   ast.UUIDExpr{Value: "550e8400-e29b-41d4-a716-446655440000"},
			"name": ast.LiteralExpr{Value: "Alice"},
		},
	}
	sql, err := compile.BuildInsert(s, q)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO users (id, name, active)")
	assert.Contains(t, sql, "TRUE")
}

func TestBuildInsert_missingRequiredFieldRejected(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.InsertQuery{
		Table:    "users",
		RowOrder: []string{"id"},
		NewRow:   map[string]ast.Expr{"id": ast.UUIDExpr{Value: "550e8400-e29b-41d4-a716-446655440000"}},
	}
	_, err := compile.BuildInsert(s, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMissingRequired)
}

func TestBuildInsert_disallowedFieldRejected(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.InsertQuery{
		Table:    "users",
		RowOrder: []string{"ssn"},
		NewRow:   map[string]ast.Expr{"ssn": ast.LiteralExpr{Value: "123"}},
	}
	_, err := compile.BuildInsert(s, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDisallowedField)
}

func TestBuildInsert_newRowConditionGatesInsert(t *testing.T) {
	cfg := usersMutationConfig()
	q := ast.InsertQuery{
		Table:    "users",
		RowOrder: []string{"id", "name", "age"},
		NewRow: map[string]ast.Expr{
			"id":   ast.UUIDExpr{Value: "550e8400-e29b-41d4-a716-446655440000"},
			"name": ast.LiteralExpr{Value: "Alice"},
			"age":  ast.LiteralExpr{Value: 25.0},
		},
		Condition: ast.FieldCond{
			Path: "NEW_ROW.age",
			Ops:  []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}},
		},
	}
	s := newNonParamState(t, cfg, "users")
	sql, err := compile.BuildInsert(s, q)
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")

	q.NewRow["age"] = ast.LiteralExpr{Value: 10.0}
	s2 := newNonParamState(t, cfg, "users")
	_, err = compile.BuildInsert(s2, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConditionNotMet)
}

func TestBuildInsert_residualConditionForbidden(t *testing.T) {
	cfg := usersMutationConfig()
	q := ast.InsertQuery{
		Table:    "users",
		RowOrder: []string{"id", "name"},
		NewRow: map[string]ast.Expr{
			"id":   ast.UUIDExpr{Value: "550e8400-e29b-41d4-a716-446655440000"},
			"name": ast.LiteralExpr{Value: "Alice"},
		},
		Condition: ast.FieldCond{
			Path: "users.name",
			Ops:  []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "Alice"}}},
		},
	}
	s := newNonParamState(t, cfg, "users")
	_, err := compile.BuildInsert(s, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbiddenNewRow)
}

func TestBuildUpdate_setsSortedByFieldName(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.UpdateQuery{
		Table: "users",
		Changes: map[string]ast.Expr{
			"name": ast.LiteralExpr{Value: "Bob"},
			"age":  ast.LiteralExpr{Value: 30.0},
		},
	}
	sql, err := compile.BuildUpdate(s, q)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE users SET age = 30, name = 'Bob'`, sql)
}

func TestBuildUpdate_residualConditionLowersToWhere(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.UpdateQuery{
		Table:   "users",
		Changes: map[string]ast.Expr{"name": ast.LiteralExpr{Value: "Bob"}},
		Condition: ast.FieldCond{
			Path: "users.id",
			Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.UUIDExpr{
				Value: "550e8400-e29b-41d4-a716-446655440000",
			}}},
		},
	}
	sql, err := compile.BuildUpdate(s, q)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE users.id = ('550e8400-e29b-41d4-a716-446655440000')::UUID")
}

func TestBuildUpdate_conditionNotMetRejected(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.UpdateQuery{
		Table:   "users",
		Changes: map[string]ast.Expr{"age": ast.LiteralExpr{Value: 5.0}},
		Condition: ast.FieldCond{
			Path: "NEW_ROW.age",
			Ops:  []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}},
		},
	}
	_, err := compile.BuildUpdate(s, q)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConditionNotMet)
}

func TestBuildDelete_unconditional(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	sql, err := compile.BuildDelete(s, ast.DeleteQuery{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users", sql)
}

func TestBuildDelete_falseConditionRejected(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	_, err := compile.BuildDelete(s, ast.DeleteQuery{Table: "users", Condition: ast.BoolCond(false)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConditionNotMet)
}

func TestBuildDelete_residualConditionLowersToWhere(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	q := ast.DeleteQuery{
		Table: "users",
		Condition: ast.FieldCond{
			Path: "users.name",
			Ops:  []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "Bob"}}},
		},
	}
	sql, err := compile.BuildDelete(s, q)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM users WHERE users.name = 'Bob'`, sql)
}

func TestBuildDelete_unknownTableRejected(t *testing.T) {
	cfg := usersMutationConfig()
	s := newNonParamState(t, cfg, "users")

	_, err := compile.BuildDelete(s, ast.DeleteQuery{Table: "ghosts"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnknownTable)
}
