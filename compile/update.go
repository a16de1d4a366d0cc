// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
)

// BuildUpdate lowers an UpdateQuery per spec §4.8: forbidden-field rejection
// on the SET list, and a mutation condition that folds against the changed
// values (as NEW_ROW), surfacing any residual as a WHERE clause.
func BuildUpdate(s *State, q ast.UpdateQuery) (string, error) {
	const op = "compile.BuildUpdate"

	table, err := s.Config.Table(q.Table)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(q.Changes))
	for name := range q.Changes {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	for _, name := range names {
		field, ok := table.Field(name)
		if !ok {
			return "", fmt.Errorf("%s: %w: %q.%q", op, errs.ErrDisallowedField, q.Table, name)
		}
		frag, typ, err := s.LowerExpr(q.Table, q.Table, q.Changes[name])
		if err != nil {
			return "", fmt.Errorf("%s: changes.%s: %w", op, name, err)
		}
		if field.Type == schema.TypeUUID && typ != schema.TypeUUID {
			frag = s.Dialect.Cast(frag, "UUID")
		}
		sets = append(sets, fmt.Sprintf("%s = %s", name, frag))
	}

	var where string
	if q.Condition != nil {
		changedValues, err := literalNewRow(s, q.Changes)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		ctx := evalContext{newRow: changedValues, vars: s.Config.Variables}
		r, err := evaluateCondition(ctx, q.Condition)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		switch r.kind {
		case evalFalse:
			return "", fmt.Errorf("%s: %w: Update condition not met", op, errs.ErrConditionNotMet)
		case evalResidual:
			where, err = s.LowerCondition(q.Table, q.Table, r.residual)
			if err != nil {
				return "", fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	target := q.Table
	if _, discriminator, ok := s.Config.PhysicalTable(q.Table); ok {
		target, _ = s.rootSource(q.Table)
		where = andDiscriminator(where, fmt.Sprintf("%s.%s = %s", q.Table, s.Config.DataTable.DiscriminatorField(), s.Literal(discriminator)))
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(target)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), nil
}
