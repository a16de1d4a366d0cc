// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/fieldpath"
)

// BuildAggregation lowers an AggregationQuery per spec §4.7: GROUP BY plus
// aggregate expressions, auto-joining any cross-table aggregated field.
func BuildAggregation(s *State, q ast.AggregationQuery) (Result, error) {
	const op = "compile.BuildAggregation"

	if len(q.AggregatedFields) == 0 {
		return Result{}, fmt.Errorf("%s: %w", op, errs.ErrEmptySelection)
	}

	groupCols := make([]string, 0, len(q.GroupBy))
	for _, g := range q.GroupBy {
		path, err := fieldpath.Parse(g)
		if err != nil {
			return Result{}, fmt.Errorf("%s: groupBy: %w: %v", op, errs.ErrInvalidFieldPath, err)
		}
		resolved, err := s.ResolveField(s.RootTable, s.RootTable, path)
		if err != nil {
			return Result{}, fmt.Errorf("%s: groupBy: %w", op, err)
		}
		groupCols = append(groupCols, resolved.SQL)
	}

	aliases := make([]string, 0, len(q.AggregatedFields))
	for alias := range q.AggregatedFields {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	aggCols := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		af := q.AggregatedFields[alias]
		frag, err := s.lowerAggregatedField(af)
		if err != nil {
			return Result{}, fmt.Errorf("%s: aggregatedFields.%s: %w", op, alias, err)
		}
		aggCols = append(aggCols, fmt.Sprintf("%s(%s) AS %s", af.Operator, frag, s.Dialect.QuoteIdent(alias)))
	}

	var where string
	var err error
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
	b.WriteString(strings.Join(append(append([]string{}, groupCols...), aggCols...), ", "))
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
	if len(groupCols) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groupCols, ", "))
	}

	return Result{SQL: b.String(), Params: s.Params}, nil
}

// lowerAggregatedField renders the argument to an aggregate operator:
// "*" for COUNT(*), a resolved field path, or an arbitrary expression.
func (s *State) lowerAggregatedField(af ast.AggregatedField) (string, error) {
	if af.Star {
		if af.Operator != ast.AggCount {
			return "", fmt.Errorf("%w: only COUNT may aggregate *", errs.ErrInvalidParameter)
		}
		return "*", nil
	}
	if af.Field != "" {
		path, err := fieldpath.Parse(af.Field)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrInvalidFieldPath, err)
		}
		resolved, err := s.ResolveField(s.RootTable, s.RootTable, path)
		if err != nil {
			return "", err
		}
		return resolved.SQL, nil
	}
	frag, _, err := s.LowerExpr(s.RootTable, s.RootTable, af.Expr)
	return frag, err
}
