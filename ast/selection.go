// Copyright (c) HashiCorp, Inc.

package ast

// SelectionKind discriminates a Selection entry's shape.
type SelectionKind int

const (
	SelectOmit SelectionKind = iota
	SelectColumn
	SelectExprKind
	SelectNested
)

// SelectionEntry is one value in a Selection map: true/false, a scalar or
// non-scalar expression, or a nested Selection for a relationship join.
type SelectionEntry struct {
	Kind   SelectionKind
	Expr   Expr
	Nested Selection
}

// Selection is spec §3's Selection variant: a map from output field name to
// either a plain column pick, a computed expression, or a nested selection
// that descends across a relationship.
type Selection map[string]SelectionEntry

// AggregateOp is one of the closed aggregate operators.
type AggregateOp string

const (
	AggCount AggregateOp = "COUNT"
	AggSum   AggregateOp = "SUM"
	AggAvg   AggregateOp = "AVG"
	AggMin   AggregateOp = "MIN"
	AggMax   AggregateOp = "MAX"
)

// AggregatedField is spec §3's AggregatedField: an aggregate applied either
// to "*" (only legal for COUNT), a field path, or an arbitrary expression.
type AggregatedField struct {
	Operator AggregateOp
	Star     bool
	Field    string
	Expr     Expr
}

// SelectQuery is the top-level input to BuildSelect.
type SelectQuery struct {
	RootTable string
	Selection Selection
	Condition Condition
	Limit     *int
	Offset    *int
}

// AggregationQuery is the top-level input to BuildAggregation.
type AggregationQuery struct {
	Table            string
	GroupBy          []string
	AggregatedFields map[string]AggregatedField
	Condition        Condition
}
