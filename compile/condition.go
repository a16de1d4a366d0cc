// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/dialect"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/fieldpath"
	"github.com/hashicorp/go-sdql/schema"
)

// sqlOperators maps ast.ComparisonOp to its SQL infix form, for the
// operators that aren't special-cased (NULL-aware $eq/$ne, $in/$nin).
var sqlOperators = map[ast.ComparisonOp]string{
	ast.OpGt:    ">",
	ast.OpGte:   ">=",
	ast.OpLt:    "<",
	ast.OpLte:   "<=",
	ast.OpEq:    "=",
	ast.OpNe:    "!=",
	ast.OpLike:  "LIKE",
	ast.OpIlike: "ILIKE",
	ast.OpRegex: "~",
}

// LowerCondition is spec §4.4's condition lowering: logical combinators,
// field-operator expansion, EXISTS synthesis, NULL-aware equality.
func (s *State) LowerCondition(currentAlias, currentTable string, c ast.Condition) (string, error) {
	const op = "compile.LowerCondition"

	switch v := c.(type) {
	case ast.BoolCond:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil

	case ast.AndCond:
		return s.lowerLogical(currentAlias, currentTable, v.Children, "AND", "FALSE")

	case ast.OrCond:
		return s.lowerLogical(currentAlias, currentTable, v.Children, "OR", "TRUE")

	case ast.NotCond:
		inner, err := s.LowerCondition(currentAlias, currentTable, v.Child)
		if err != nil {
			return "", fmt.Errorf("%s: $not: %w", op, err)
		}
		return fmt.Sprintf("NOT (%s)", inner), nil

	case ast.ExistsCond:
		return s.lowerExists(currentAlias, currentTable, v)

	case ast.FieldCond:
		return s.lowerFieldCond(currentAlias, currentTable, v)

	default:
		return "", fmt.Errorf("%s: %w: %T", op, errs.ErrUnknownASTVariant, c)
	}
}

// lowerLogical implements $and/$or with the spec §4.4/§9 short-circuit:
// a compile-time-false child dominates $and (whole thing is FALSE), a
// compile-time-true child dominates $or, and a single surviving child
// flattens to just that child's SQL.
func (s *State) lowerLogical(currentAlias, currentTable string, children []ast.Condition, joiner, dominant string) (string, error) {
	const op = "compile.lowerLogical"
	if len(children) == 0 {
		return "", fmt.Errorf("%s: %w", op, errs.ErrEmptyLogicalArgs)
	}

	var parts []string
	for i, child := range children {
		if b, ok := child.(ast.BoolCond); ok {
			lit := "FALSE"
			if bool(b) {
				lit = "TRUE"
			}
			if lit == dominant {
				return dominant, nil
			}
			continue // the neutral element drops out
		}
		sql, err := s.LowerCondition(currentAlias, currentTable, child)
		if err != nil {
			return "", fmt.Errorf("%s: child %d: %w", op, i, err)
		}
		parts = append(parts, sql)
	}

	switch len(parts) {
	case 0:
		// every child was the logical neutral element (e.g. $and:[true,true])
		if dominant == "FALSE" {
			return "TRUE", nil
		}
		return "FALSE", nil
	case 1:
		return parts[0], nil
	default:
		return "(" + strings.Join(parts, " "+joiner+" ") + ")", nil
	}
}

func (s *State) lowerExists(currentAlias, currentTable string, e ast.ExistsCond) (string, error) {
	const op = "compile.lowerExists"
	if !s.Config.HasTable(e.Table) {
		return "", fmt.Errorf("%s: %w: %q", op, errs.ErrUnknownTable, e.Table)
	}
	inner, err := s.LowerCondition(e.Table, e.Table, e.Condition)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	source, discriminator := s.rootSource(e.Table)
	inner = andDiscriminator(inner, discriminator)
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", source, inner), nil
}

func (s *State) lowerFieldCond(currentAlias, currentTable string, f ast.FieldCond) (string, error) {
	const op = "compile.lowerFieldCond"
	path, err := fieldpath.Parse(f.Path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if path.IsNewRow {
		return "", fmt.Errorf("%s: %w", op, errs.ErrNewRowOutsideContext)
	}
	lhs, err := s.ResolveField(currentAlias, currentTable, path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Types.Record(lhs.SQL, lhs.Type); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ops := append([]ast.FieldOp(nil), f.Ops...)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Op.Rank() < ops[j].Op.Rank() })

	parts := make([]string, 0, len(ops))
	for _, fo := range ops {
		part, err := s.lowerFieldOp(currentAlias, currentTable, lhs, fo)
		if err != nil {
			return "", fmt.Errorf("%s: %s: %w", op, fo.Op, err)
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func (s *State) lowerFieldOp(currentAlias, currentTable string, lhs ResolvedField, fo ast.FieldOp) (string, error) {
	switch fo.Op {
	case ast.OpEq, ast.OpNe:
		if lit, ok := fo.Value.(ast.LiteralExpr); ok && lit.Value == nil {
			if fo.Op == ast.OpEq {
				return lhs.SQL + " IS NULL", nil
			}
			return lhs.SQL + " IS NOT NULL", nil
		}
	case ast.OpIn, ast.OpNin:
		arr, ok := fo.Value.(ast.ArrayExpr)
		if !ok {
			return "", fmt.Errorf("%w: %s requires an array", errs.ErrInvalidParameter, fo.Op)
		}
		if len(arr.Items) == 0 {
			if fo.Op == ast.OpIn {
				return "FALSE", nil
			}
			return "TRUE", nil
		}
		items := make([]string, 0, len(arr.Items))
		lhsSQL := lhs.SQL
		for _, it := range arr.Items {
			frag, typ, err := s.LowerExpr(currentAlias, currentTable, it)
			if err != nil {
				return "", err
			}
			var castFrag string
			lhsSQL, castFrag = applyCast(s.Dialect, lhs, frag, typ)
			items = append(items, castFrag)
		}
		verb := "IN"
		if fo.Op == ast.OpNin {
			verb = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", lhsSQL, verb, strings.Join(items, ", ")), nil
	}

	rhs, rhsType, err := s.LowerExpr(currentAlias, currentTable, fo.Value)
	if err != nil {
		return "", err
	}
	lhsSQL, castRHS := applyCast(s.Dialect, lhs, rhs, rhsType)

	sqlOp, ok := sqlOperators[fo.Op]
	if !ok {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidComparisonOp, fo.Op)
	}
	return fmt.Sprintf("%s %s %s", lhsSQL, sqlOp, castRHS), nil
}

// applyCast implements spec §4.3/§4.9's cast policy for a field comparison:
// a UUID-typed field compared against a non-UUID literal gets cast to TEXT
// (avoiding an engine-level implicit-cast failure); a JSON leaf
// (unknown-typed, read as text) compared against a typed RHS gets cast
// to that RHS's type so the comparison is well-typed.
func applyCast(ops dialect.Ops, lhs ResolvedField, rhsSQL string, rhsType schema.SemanticType) (lhsSQL, castRHS string) {
	lhsSQL = lhs.SQL
	switch {
	case lhs.Type == schema.TypeUUID && rhsType != schema.TypeUUID:
		lhsSQL = ops.Cast(lhsSQL, "TEXT")
	case lhs.Type == schema.TypeUnknown && rhsType != schema.TypeUnknown && rhsType != "":
		lhsSQL = ops.Cast(lhsSQL, semanticSQLType(rhsType))
	}
	return lhsSQL, rhsSQL
}

// semanticSQLType maps a SemanticType to the SQL type name used in a CAST.
func semanticSQLType(t schema.SemanticType) string {
	switch t {
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeNumber:
		return "NUMERIC"
	case schema.TypeUUID:
		return "UUID"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDatetime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
