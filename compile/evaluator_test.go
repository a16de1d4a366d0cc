// Copyright (c) HashiCorp, Inc.

package compile

import (
	"testing"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/fieldpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldPathForTest(raw string) fieldpath.Path {
	p, err := fieldpath.Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func TestEvaluateCondition_andResidualFolding(t *testing.T) {
	ctx := evalContext{newRow: map[string]any{"age": 25.0}}
	c := ast.AndCond{Children: []ast.Condition{
		ast.FieldCond{Path: "NEW_ROW.age", Ops: []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}}},
		ast.FieldCond{Path: "users.name", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "x"}}}},
	}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalResidual, r.kind)
	assert.Equal(t, ast.FieldCond{Path: "users.name", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "x"}}}}, r.residual)
}

func TestEvaluateCondition_andFalseDominates(t *testing.T) {
	ctx := evalContext{newRow: map[string]any{"age": 5.0}}
	c := ast.AndCond{Children: []ast.Condition{
		ast.FieldCond{Path: "NEW_ROW.age", Ops: []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}}},
		ast.FieldCond{Path: "users.name", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "x"}}}},
	}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalFalse, r.kind)
}

func TestEvaluateCondition_orTrueDominates(t *testing.T) {
	ctx := evalContext{newRow: map[string]any{"age": 25.0}}
	c := ast.OrCond{Children: []ast.Condition{
		ast.FieldCond{Path: "NEW_ROW.age", Ops: []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}}},
		ast.FieldCond{Path: "users.name", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: "x"}}}},
	}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalTrue, r.kind)
}

func TestEvaluateCondition_orAllResidual(t *testing.T) {
	ctx := evalContext{}
	c := ast.OrCond{Children: []ast.Condition{
		ast.FieldCond{Path: "users.a", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: 1.0}}}},
		ast.FieldCond{Path: "users.b", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: 2.0}}}},
	}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalResidual, r.kind)
	assert.Equal(t, ast.OrCondKind, r.residual.CondKind())
}

func TestEvaluateCondition_orNoResidualIsFalse(t *testing.T) {
	ctx := evalContext{newRow: map[string]any{"age": 5.0}}
	c := ast.OrCond{Children: []ast.Condition{
		ast.FieldCond{Path: "NEW_ROW.age", Ops: []ast.FieldOp{{Op: ast.OpGt, Value: ast.LiteralExpr{Value: 18.0}}}},
	}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalFalse, r.kind)
}

func TestEvaluateCondition_notNegatesResidual(t *testing.T) {
	ctx := evalContext{}
	c := ast.NotCond{Child: ast.FieldCond{Path: "users.a", Ops: []ast.FieldOp{{Op: ast.OpEq, Value: ast.LiteralExpr{Value: 1.0}}}}}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalResidual, r.kind)
	assert.Equal(t, ast.NotCondKind, r.residual.CondKind())
}

func TestEvaluateCondition_existsAlwaysResidual(t *testing.T) {
	ctx := evalContext{}
	c := ast.ExistsCond{Table: "orders", Condition: ast.BoolCond(true)}
	r, err := evaluateCondition(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, evalResidual, r.kind)
}

func TestEvalExprPure_arithmeticOverNewRow(t *testing.T) {
	ctx := evalContext{newRow: map[string]any{"a": 2.0, "b": 3.0}}
	e := ast.FuncExpr{Name: ast.FuncAdd, Args: []ast.Expr{
		ast.FieldExpr{Path: fieldPathForTest("NEW_ROW.a")},
		ast.FieldExpr{Path: fieldPathForTest("NEW_ROW.b")},
	}}
	v, err := evalExprPure(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEvalExprPure_storedFieldIsNotPure(t *testing.T) {
	ctx := evalContext{}
	e := ast.FieldExpr{Path: fieldPathForTest("users.name")}
	_, err := evalExprPure(ctx, e)
	require.Error(t, err)
}
