// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
)

// Result is the {sql, params} pair the parameterized builders return.
type Result struct {
	SQL    string
	Params []any
}

// BuildSelect lowers a SelectQuery into a Result, implementing spec §4.6.
func BuildSelect(s *State, q ast.SelectQuery) (Result, error) {
	const op = "compile.BuildSelect"

	if len(q.Selection) == 0 {
		return Result{}, fmt.Errorf("%s: %w", op, errs.ErrEmptySelection)
	}

	cols, err := s.lowerSelection(s.RootTable, s.RootTable, q.Selection)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	var where string
	if q.Condition != nil {
		where, err = s.LowerCondition(s.RootTable, s.RootTable, q.Condition)
		if err != nil {
			return Result{}, fmt.Errorf("%s: condition: %w", op, err)
		}
	}

	source, discriminator := s.rootSource(s.RootTable)
	where = andDiscriminator(where, discriminator)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(source)
	for _, j := range s.Joins.Clauses() {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if limit := s.Dialect.LimitClause(q.Limit, q.Offset); limit != "" {
		b.WriteString(" ")
		b.WriteString(limit)
	}

	return Result{SQL: b.String(), Params: s.Params}, nil
}

// lowerSelection walks a Selection and returns one "<expr> AS \"<alias>\""
// fragment per entry, in deterministic (alphabetical-by-alias) order.
func (s *State) lowerSelection(currentAlias, currentTable string, sel ast.Selection) ([]string, error) {
	names := make([]string, 0, len(sel))
	for name := range sel {
		names = append(names, name)
	}
	sort.Strings(names)

	var cols []string
	for _, name := range names {
		entry := sel[name]
		switch entry.Kind {
		case ast.SelectOmit:
			continue
		case ast.SelectColumn:
			field, err := s.Config.Field(currentTable, name)
			if err != nil {
				return nil, err
			}
			frag := currentAlias + "." + field.Name
			cols = append(cols, fmt.Sprintf("%s AS %s", frag, s.Dialect.QuoteIdent(name)))
		case ast.SelectExprKind:
			frag, _, err := s.LowerExpr(currentAlias, currentTable, entry.Expr)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			cols = append(cols, fmt.Sprintf("%s AS %s", frag, s.Dialect.QuoteIdent(name)))
		case ast.SelectNested:
			if rel, ok := s.Config.Relationship(currentTable, name); ok {
				fromField, toField := directionFields(rel, currentTable)
				nestedAlias := s.Joins.resolve(currentAlias, name, fromField, toField)
				nested, err := s.lowerSelection(nestedAlias, name, entry.Nested)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				cols = append(cols, nested...)
				continue
			}
			return nil, fmt.Errorf("%w: %q is not a relationship of %q", errs.ErrUnknownRelationship, name, currentTable)
		}
	}
	return cols, nil
}
