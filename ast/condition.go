// Copyright (c) HashiCorp, Inc.

package ast

import (
	"fmt"

	"github.com/hashicorp/go-sdql/errs"
)

// ComparisonOp is a field-operator key in a FieldCondition, e.g. $eq, $gt.
// The set is closed and validated the same way hashicorp/mql validates its
// own comparisonOp enum in newComparisonOp.
type ComparisonOp string

const (
	OpEq    ComparisonOp = "$eq"
	OpNe    ComparisonOp = "$ne"
	OpGt    ComparisonOp = "$gt"
	OpGte   ComparisonOp = "$gte"
	OpLt    ComparisonOp = "$lt"
	OpLte   ComparisonOp = "$lte"
	OpIn    ComparisonOp = "$in"
	OpNin   ComparisonOp = "$nin"
	OpLike  ComparisonOp = "$like"
	OpIlike ComparisonOp = "$ilike"
	OpRegex ComparisonOp = "$regex"
)

// opPrecedence orders operators deterministically within a single field
// object: inequality operators first, then the remainder alphabetically,
// per spec §4.4 ("sort operators deterministically... so tests are
// stable").
var opPrecedence = map[ComparisonOp]int{
	OpGt: 0, OpGte: 1, OpLt: 2, OpLte: 3,
	OpEq: 4, OpIlike: 5, OpIn: 6, OpLike: 7, OpNe: 8, OpNin: 9, OpRegex: 10,
}

// Rank returns the deterministic sort key for an operator.
func (op ComparisonOp) Rank() int {
	if r, ok := opPrecedence[op]; ok {
		return r
	}
	return len(opPrecedence)
}

func newComparisonOp(s string) (ComparisonOp, error) {
	switch ComparisonOp(s) {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpLike, OpIlike, OpRegex:
		return ComparisonOp(s), nil
	default:
		return "", fmt.Errorf("ast.newComparisonOp: %w %q", errs.ErrInvalidComparisonOp, s)
	}
}

// FieldOp pairs one comparison operator with its right-hand expression.
// For $in/$nin the right-hand side is an ArrayExpr.
type FieldOp struct {
	Op    ComparisonOp
	Value Expr
}

// ArrayExpr is the right-hand side of an $in/$nin comparison.
type ArrayExpr struct {
	Items []Expr
}

func (ArrayExpr) Kind() ExprKind { return ArrayExprKind }

// CondKind discriminates the Condition sum type.
type CondKind int

const (
	BoolCondKind CondKind = iota
	AndCondKind
	OrCondKind
	NotCondKind
	ExistsCondKind
	FieldCondKind
)

// Condition is the closed set of boolean-producing node forms: spec §3's
// Condition variant.
type Condition interface {
	CondKind() CondKind
}

// BoolCond is a compile-time boolean literal (true/false).
type BoolCond bool

func (BoolCond) CondKind() CondKind { return BoolCondKind }

// AndCond is {$and: [...]}.
type AndCond struct {
	Children []Condition
}

func (AndCond) CondKind() CondKind { return AndCondKind }

// OrCond is {$or: [...]}.
type OrCond struct {
	Children []Condition
}

func (OrCond) CondKind() CondKind { return OrCondKind }

// NotCond is {$not: Condition}.
type NotCond struct {
	Child Condition
}

func (NotCond) CondKind() CondKind { return NotCondKind }

// ExistsCond is {$exists: {table, condition}}.
type ExistsCond struct {
	Table     string
	Condition Condition
}

func (ExistsCond) CondKind() CondKind { return ExistsCondKind }

// FieldCond is {fieldPath: FieldCondition|Primitive}: one or more operators
// applied to a single field path.
type FieldCond struct {
	Path string
	Ops  []FieldOp
}

func (FieldCond) CondKind() CondKind { return FieldCondKind }
