// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/errs"
)

// BuildDelete lowers a DeleteQuery per spec §4.8. A DELETE has no NEW_ROW to
// fold against, so any non-trivial condition is residual by construction;
// the evaluator still runs first to honor a literal $bool condition.
func BuildDelete(s *State, q ast.DeleteQuery) (string, error) {
	const op = "compile.BuildDelete"

	if !s.Config.HasTable(q.Table) {
		return "", fmt.Errorf("%s: %w: %q", op, errs.ErrUnknownTable, q.Table)
	}

	var where string
	if q.Condition != nil {
		ctx := evalContext{vars: s.Config.Variables}
		r, err := evaluateCondition(ctx, q.Condition)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		switch r.kind {
		case evalFalse:
			return "", fmt.Errorf("%s: %w: Delete condition not met.", op, errs.ErrConditionNotMet)
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

	if where == "" {
		return fmt.Sprintf("DELETE FROM %s", target), nil
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", target, where), nil
}
