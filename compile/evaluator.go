// Copyright (c) HashiCorp, Inc.

package compile

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/fieldpath"
)

// evalKind is the three-value domain spec §9 calls out for the mutation
// partial evaluator: {True, False, Residual(Condition)}.
type evalKind int

const (
	evalTrue evalKind = iota
	evalFalse
	evalResidual
)

type evalResult struct {
	kind     evalKind
	residual ast.Condition
}

// evalContext is spec §4.8's "evaluation context": the new row plus the
// Config's runtime variables, everything a mutation condition may resolve
// purely from memory without touching a stored table.
type evalContext struct {
	newRow map[string]any
	vars   map[string]any
}

// errNotPure signals that an expression reached a stored-field reference and
// cannot be folded in memory; the caller falls back to treating the
// enclosing condition as residual.
var errNotPure = fmt.Errorf("expression is not resolvable from NEW_ROW alone")

// evaluateCondition is spec §9's second interpreter: it folds a condition
// against ctx, returning True, False, or the remaining Residual(Condition)
// that must be lowered into a WHERE clause.
func evaluateCondition(ctx evalContext, c ast.Condition) (evalResult, error) {
	switch v := c.(type) {
	case ast.BoolCond:
		if v {
			return evalResult{kind: evalTrue}, nil
		}
		return evalResult{kind: evalFalse}, nil

	case ast.AndCond:
		var residuals []ast.Condition
		for _, child := range v.Children {
			r, err := evaluateCondition(ctx, child)
			if err != nil {
				return evalResult{}, err
			}
			switch r.kind {
			case evalFalse:
				return evalResult{kind: evalFalse}, nil
			case evalResidual:
				residuals = append(residuals, r.residual)
			}
		}
		return foldResiduals(residuals, func(cs []ast.Condition) ast.Condition { return ast.AndCond{Children: cs} }), nil

	case ast.OrCond:
		var residuals []ast.Condition
		for _, child := range v.Children {
			r, err := evaluateCondition(ctx, child)
			if err != nil {
				return evalResult{}, err
			}
			switch r.kind {
			case evalTrue:
				return evalResult{kind: evalTrue}, nil
			case evalResidual:
				residuals = append(residuals, r.residual)
			}
		}
		if len(residuals) == 0 {
			return evalResult{kind: evalFalse}, nil
		}
		return foldResiduals(residuals, func(cs []ast.Condition) ast.Condition { return ast.OrCond{Children: cs} }), nil

	case ast.NotCond:
		r, err := evaluateCondition(ctx, v.Child)
		if err != nil {
			return evalResult{}, err
		}
		switch r.kind {
		case evalTrue:
			return evalResult{kind: evalFalse}, nil
		case evalFalse:
			return evalResult{kind: evalTrue}, nil
		default:
			return evalResult{kind: evalResidual, residual: ast.NotCond{Child: r.residual}}, nil
		}

	case ast.ExistsCond:
		// $exists always references a stored table: never purely evaluable.
		return evalResult{kind: evalResidual, residual: v}, nil

	case ast.FieldCond:
		return evaluateFieldCond(ctx, v)

	default:
		return evalResult{}, fmt.Errorf("compile.evaluateCondition: %w: %T", errs.ErrUnknownASTVariant, c)
	}
}

// foldResiduals collapses a list of surviving (non-dominant) residual
// children back into a single Condition, flattening the common
// single-child case.
func foldResiduals(residuals []ast.Condition, wrap func([]ast.Condition) ast.Condition) evalResult {
	switch len(residuals) {
	case 0:
		return evalResult{kind: evalTrue}
	case 1:
		return evalResult{kind: evalResidual, residual: residuals[0]}
	default:
		return evalResult{kind: evalResidual, residual: wrap(residuals)}
	}
}

func evaluateFieldCond(ctx evalContext, f ast.FieldCond) (evalResult, error) {
	path, err := fieldpath.Parse(f.Path)
	if err != nil {
		return evalResult{}, err
	}
	if !path.IsNewRow {
		return evalResult{kind: evalResidual, residual: f}, nil
	}
	tail := path.Tail()
	if len(tail) == 0 {
		return evalResult{}, fmt.Errorf("compile.evaluateFieldCond: %w: bare NEW_ROW reference", errs.ErrInvalidFieldPath)
	}
	rowVal, _ := ctx.newRow[tail[0]]

	for _, fo := range f.Ops {
		rhs, err := evalExprPure(ctx, fo.Value)
		if err != nil {
			// A stored-field reference inside a NEW_ROW-rooted condition is
			// still a stored-field reference: fall back to residual so the
			// mutation builder can apply its own accept/reject policy.
			return evalResult{kind: evalResidual, residual: f}, nil
		}
		ok, err := compareValues(rowVal, fo.Op, rhs)
		if errors.Is(err, errNotPure) {
			return evalResult{kind: evalResidual, residual: f}, nil
		}
		if err != nil {
			return evalResult{}, err
		}
		if !ok {
			return evalResult{kind: evalFalse}, nil
		}
	}
	return evalResult{kind: evalTrue}, nil
}

// evalExprPure computes the in-memory value of an expression that must be
// resolvable purely from ctx; it returns errNotPure the moment it reaches
// a reference to a stored field.
func evalExprPure(ctx evalContext, e ast.Expr) (any, error) {
	switch v := e.(type) {
	case ast.LiteralExpr:
		return v.Value, nil
	case ast.UUIDExpr:
		return v.Value, nil
	case ast.DateExpr:
		return v.Value, nil
	case ast.TimestampExpr:
		return v.Value, nil
	case ast.JSONBExpr:
		return v.Value, nil
	case ast.VarExpr:
		val, ok := ctx.vars[v.Name]
		if !ok {
			return nil, fmt.Errorf("compile.evalExprPure: %w: %q", errs.ErrMissingRequired, v.Name)
		}
		return val, nil
	case ast.FieldExpr:
		if !v.Path.IsNewRow {
			return nil, errNotPure
		}
		tail := v.Path.Tail()
		if len(tail) == 0 {
			return nil, fmt.Errorf("compile.evalExprPure: %w: bare NEW_ROW reference", errs.ErrInvalidFieldPath)
		}
		val := ctx.newRow[tail[0]]
		return val, nil
	case ast.ArrayExpr:
		items := make([]any, 0, len(v.Items))
		for _, it := range v.Items {
			val, err := evalExprPure(ctx, it)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return items, nil
	case ast.FuncExpr:
		return evalFuncPure(ctx, v)
	case ast.CondExpr:
		r, err := evaluateCondition(ctx, v.If)
		if err != nil {
			return nil, err
		}
		switch r.kind {
		case evalTrue:
			return evalExprPure(ctx, v.Then)
		case evalFalse:
			return evalExprPure(ctx, v.Else)
		default:
			return nil, errNotPure
		}
	default:
		return nil, errNotPure
	}
}

func evalFuncPure(ctx evalContext, f ast.FuncExpr) (any, error) {
	args := make([]float64, len(f.Args))
	for i, a := range f.Args {
		val, err := evalExprPure(ctx, a)
		if err != nil {
			return nil, err
		}
		n, ok := toFloat(val)
		if !ok {
			return nil, errNotPure
		}
		args[i] = n
	}
	switch f.Name {
	case ast.FuncAdd:
		return args[0] + args[1], nil
	case ast.FuncSubtract:
		return args[0] - args[1], nil
	case ast.FuncMultiply:
		return args[0] * args[1], nil
	case ast.FuncDivide:
		return args[0] / args[1], nil
	default:
		// Anything beyond basic arithmetic (string/temporal/JSON
		// functions) isn't worth folding in memory: treat as not pure so
		// the enclosing condition falls back to a residual WHERE clause.
		return nil, errNotPure
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// compareValues implements the comparison operators' in-memory semantics,
// mirroring the NULL-aware and degenerate-array rules of spec §4.4/§8
// (Testable Properties 4 and 5) for the mutation evaluator's own domain.
func compareValues(lhs any, op ast.ComparisonOp, rhs any) (bool, error) {
	switch op {
	case ast.OpEq:
		if rhs == nil {
			return lhs == nil, nil
		}
		return equalValues(lhs, rhs), nil
	case ast.OpNe:
		if rhs == nil {
			return lhs != nil, nil
		}
		return !equalValues(lhs, rhs), nil
	case ast.OpIn:
		items, _ := rhs.([]any)
		if len(items) == 0 {
			return false, nil
		}
		for _, it := range items {
			if equalValues(lhs, it) {
				return true, nil
			}
		}
		return false, nil
	case ast.OpNin:
		items, _ := rhs.([]any)
		if len(items) == 0 {
			return true, nil
		}
		for _, it := range items {
			if equalValues(lhs, it) {
				return false, nil
			}
		}
		return true, nil
	case ast.OpGt, ast.OpGte, ast.OpLt, ast.OpLte:
		l, ok1 := toFloat(lhs)
		r, ok2 := toFloat(rhs)
		if !ok1 || !ok2 {
			return false, fmt.Errorf("compile.compareValues: %w: %s requires numeric operands", errs.ErrInvalidParameter, op)
		}
		switch op {
		case ast.OpGt:
			return l > r, nil
		case ast.OpGte:
			return l >= r, nil
		case ast.OpLt:
			return l < r, nil
		default:
			return l <= r, nil
		}
	default:
		// $like/$ilike/$regex against an in-memory value are rare inside
		// mutation conditions; treat as not purely evaluable.
		return false, errNotPure
	}
}

func equalValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}
