// Copyright (c) HashiCorp, Inc.

// Package compile implements spec §4.3–§4.9: lowering the ast package's
// recognized trees into SQL fragments, resolving field paths into joins,
// and building the final SELECT/aggregation/mutation statements.
package compile

import (
	"fmt"

	"github.com/hashicorp/go-sdql/dialect"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
)

// State is spec §3's ParserState: the per-compile mutable context threaded
// through every lowering function. A State is used for exactly one
// build_* call and discarded (spec §5: no cross-query state escapes
// besides the read-only Config and dialect catalog).
type State struct {
	Config    schema.Config
	Dialect   dialect.Ops
	RootTable string

	Types *TypeMap
	Joins *JoinSet

	// Parameterize selects the {sql, params} API (SELECT/aggregation) vs.
	// the literal-embedded, params-less API (INSERT/UPDATE/DELETE, spec
	// §6: "returns a literal-embedded statement ... by design").
	Parameterize bool
	Params       []any
}

// NewState resolves cfg's dialect and constructs a fresh State bound to
// rootTable.
func NewState(cfg schema.Config, rootTable string, parameterize bool) (*State, error) {
	if !cfg.HasTable(rootTable) {
		return nil, fmt.Errorf("compile.NewState: %w: %q", errs.ErrUnknownTable, rootTable)
	}
	ops, err := dialect.Resolve(cfg.Dialect)
	if err != nil {
		return nil, fmt.Errorf("compile.NewState: %w", err)
	}
	joins := NewJoinSet(cfg)
	// the root table is already in FROM, so a join back to it is a self-join
	joins.processed[rootTable] = true
	return &State{
		Config:       cfg,
		Dialect:      ops,
		RootTable:    rootTable,
		Types:        NewTypeMap(),
		Joins:        joins,
		Parameterize: parameterize,
	}, nil
}

// rootSource returns the FROM-clause text for table and, when Config's
// dataTable virtualizes it, an extra discriminator predicate the caller
// must AND into its WHERE clause (spec §3 "dataTable").
func (s *State) rootSource(table string) (source, discriminator string) {
	physical, disc, ok := s.Config.PhysicalTable(table)
	if !ok {
		return table, ""
	}
	return fmt.Sprintf("%s AS %s", physical, table), fmt.Sprintf("%s.%s = %s", table, s.Config.DataTable.DiscriminatorField(), quoteStringLiteral(disc))
}

// andDiscriminator folds an optional dataTable discriminator predicate into
// an already-lowered WHERE clause.
func andDiscriminator(where, discriminator string) string {
	switch {
	case discriminator == "":
		return where
	case where == "":
		return discriminator
	default:
		return fmt.Sprintf("(%s) AND %s", where, discriminator)
	}
}

// Literal renders value either as a dialect placeholder (appending it to
// Params) or as an inline SQL literal, depending on Parameterize.
func (s *State) Literal(value any) string {
	if s.Parameterize {
		s.Params = append(s.Params, value)
		return s.Dialect.Placeholder(len(s.Params))
	}
	return inlineLiteral(value)
}

// inlineLiteral renders a Go value as an embedded SQL literal: spec §4.3's
// scalar-primitive emission rules, reused for the string-only mutation
// builders where every literal is embedded rather than parameterized.
func inlineLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return quoteStringLiteral(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quoteStringLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
			continue
		}
		out = append(out, s[i])
	}
	out = append(out, '\'')
	return string(out)
}
