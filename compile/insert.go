// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
)

// BuildInsert lowers an InsertQuery per spec §4.8: default materialization,
// required-field checks, stable column ordering (explicit fields in
// q.RowOrder order, then defaults), and NEW_ROW-only condition evaluation.
func BuildInsert(s *State, q ast.InsertQuery) (string, error) {
	const op = "compile.BuildInsert"

	table, err := s.Config.Table(q.Table)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, name := range q.RowOrder {
		if _, ok := table.Field(name); !ok {
			return "", fmt.Errorf("%s: %w: %q.%q", op, errs.ErrDisallowedField, q.Table, name)
		}
	}

	provided := make(map[string]bool, len(q.RowOrder))
	for _, name := range q.RowOrder {
		provided[name] = true
	}

	columns := append([]string(nil), q.RowOrder...)
	for _, f := range table.AllowedFields {
		if provided[f.Name] {
			continue
		}
		if f.HasDefault {
			columns = append(columns, f.Name)
			continue
		}
		if !f.Nullable {
			return "", fmt.Errorf("%s: %w: %q.%q", op, errs.ErrMissingRequired, q.Table, f.Name)
		}
	}

	newRowValues, err := literalNewRow(s, q.NewRow)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if q.Condition != nil {
		ctx := evalContext{newRow: newRowValues, vars: s.Config.Variables}
		r, err := evaluateCondition(ctx, q.Condition)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		switch r.kind {
		case evalFalse:
			return "", fmt.Errorf("%s: %w: Insert condition not met", op, errs.ErrConditionNotMet)
		case evalResidual:
			return "", fmt.Errorf("%s: %w", op, errs.ErrForbiddenNewRow)
		}
	}

	values := make([]string, 0, len(columns))
	for _, name := range columns {
		field, _ := table.Field(name)
		var frag string
		if e, ok := q.NewRow[name]; ok {
			lowered, typ, err := s.LowerExpr(q.Table, q.Table, e)
			if err != nil {
				return "", fmt.Errorf("%s: newRow.%s: %w", op, name, err)
			}
			frag = lowered
			if field.Type == schema.TypeUUID && typ != schema.TypeUUID {
				frag = s.Dialect.Cast(frag, "UUID")
			}
		} else {
			frag = s.Literal(field.Default)
			if field.Type == schema.TypeUUID {
				frag = s.Dialect.Cast(frag, "UUID")
			}
		}
		values = append(values, frag)
	}

	target := q.Table
	if physical, discriminator, ok := s.Config.PhysicalTable(q.Table); ok {
		target = physical
		columns = append(columns, s.Config.DataTable.DiscriminatorField())
		values = append(values, s.Literal(discriminator))
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(target)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(values, ", "))
	b.WriteString(")")
	return b.String(), nil
}

// literalNewRow evaluates every newRow expression to a concrete Go value,
// the in-memory row the mutation evaluator folds conditions against. A
// newRow value referencing a stored field makes no sense (there is no
// existing row yet) and is rejected.
func literalNewRow(s *State, newRow map[string]ast.Expr) (map[string]any, error) {
	ctx := evalContext{vars: s.Config.Variables}
	out := make(map[string]any, len(newRow))
	for name, e := range newRow {
		v, err := evalExprPure(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("newRow.%s: %w", name, errs.ErrInvalidParameter)
		}
		out[name] = v
	}
	return out, nil
}
