// Copyright (c) HashiCorp, Inc.

package ast

import "github.com/hashicorp/go-sdql/fieldpath"

// ExprKind discriminates the Expr sum type, mirroring the exprType
// discriminator hashicorp/mql uses for its own comparison/logical
// expressions.
type ExprKind int

const (
	LiteralExprKind ExprKind = iota
	FieldExprKind
	VarExprKind
	UUIDExprKind
	DateExprKind
	TimestampExprKind
	JSONBExprKind
	FuncExprKind
	CondExprKind
	ArrayExprKind
)

// Expr is the closed set of scalar and non-scalar expression forms a query
// may contain: spec §3's ScalarExpression and NonScalarExpression variants.
type Expr interface {
	Kind() ExprKind
}

// LiteralExpr is a bare scalar primitive: string, float64, bool, or nil.
type LiteralExpr struct {
	Value any
}

func (LiteralExpr) Kind() ExprKind { return LiteralExprKind }

// FieldExpr is a {$field: "..."} reference, already lexically tokenized.
type FieldExpr struct {
	Raw  string
	Path fieldpath.Path
}

func (FieldExpr) Kind() ExprKind { return FieldExprKind }

// VarExpr is a {$var: "name"} reference into Config.Variables.
type VarExpr struct {
	Name string
}

func (VarExpr) Kind() ExprKind { return VarExprKind }

// UUIDExpr is a {$uuid: "..."} literal.
type UUIDExpr struct {
	Value string
}

func (UUIDExpr) Kind() ExprKind { return UUIDExprKind }

// DateExpr is a {$date: "YYYY-MM-DD"} literal.
type DateExpr struct {
	Value string
}

func (DateExpr) Kind() ExprKind { return DateExprKind }

// TimestampExpr is a {$timestamp: "YYYY-MM-DDTHH:MM:SS[.fff]"} literal.
type TimestampExpr struct {
	Value string
}

func (TimestampExpr) Kind() ExprKind { return TimestampExprKind }

// JSONBExpr is a {$jsonb: <object>} literal, emitted as a JSON/JSONB literal.
type JSONBExpr struct {
	Value any
}

func (JSONBExpr) Kind() ExprKind { return JSONBExprKind }

// FuncName is a closed-catalog function identifier (spec §6).
type FuncName string

const (
	FuncAdd            FuncName = "ADD"
	FuncSubtract       FuncName = "SUBTRACT"
	FuncMultiply       FuncName = "MULTIPLY"
	FuncDivide         FuncName = "DIVIDE"
	FuncGreatestNumber FuncName = "GREATEST_NUMBER"
	FuncLeastNumber    FuncName = "LEAST_NUMBER"
	FuncCoalesceNumber FuncName = "COALESCE_NUMBER"
	FuncConcat         FuncName = "CONCAT"
	FuncUpper          FuncName = "UPPER"
	FuncLower          FuncName = "LOWER"
	FuncLength         FuncName = "LENGTH"
	FuncSubstr         FuncName = "SUBSTR"
	FuncSubstring      FuncName = "SUBSTRING"
	FuncCoalesceString FuncName = "COALESCE_STRING"
	FuncExtract        FuncName = "EXTRACT"
	FuncExtractEpoch   FuncName = "EXTRACT_EPOCH"
	FuncDateFormat     FuncName = "DATE_FORMAT"
	FuncDateDiff       FuncName = "DATEDIFF"
	FuncJSONExtract    FuncName = "JSON_EXTRACT"
	FuncCoalesce       FuncName = "COALESCE"
	FuncGenRandomUUID  FuncName = "GEN_RANDOM_UUID"
)

// FuncCatalog is the closed set of allowed function names. Case-sensitive,
// per spec §6.
var FuncCatalog = map[FuncName]bool{
	FuncAdd: true, FuncSubtract: true, FuncMultiply: true, FuncDivide: true,
	FuncGreatestNumber: true, FuncLeastNumber: true, FuncCoalesceNumber: true,
	FuncConcat: true, FuncUpper: true, FuncLower: true, FuncLength: true,
	FuncSubstr: true, FuncSubstring: true, FuncCoalesceString: true,
	FuncExtract: true, FuncExtractEpoch: true, FuncDateFormat: true, FuncDateDiff: true,
	FuncJSONExtract: true, FuncCoalesce: true, FuncGenRandomUUID: true,
}

// binaryInfixFuncs are the functions lowered as infix operators rather than
// FN(arg1, arg2, ...) calls, per spec §4.3.
var binaryInfixFuncs = map[FuncName]string{
	FuncAdd:      "+",
	FuncSubtract: "-",
	FuncMultiply: "*",
	FuncDivide:   "/",
}

// IsBinaryInfix reports the infix operator for a function name, if any.
func IsBinaryInfix(name FuncName) (string, bool) {
	op, ok := binaryInfixFuncs[name]
	return op, ok
}

// FuncExpr is a {$func: {NAME: [arg, ...]}} call.
type FuncExpr struct {
	Name FuncName
	Args []Expr
}

func (FuncExpr) Kind() ExprKind { return FuncExprKind }

// CondExpr is a {$cond: {if, then, else}} ternary expression.
type CondExpr struct {
	If   Condition
	Then Expr
	Else Expr
}

func (CondExpr) Kind() ExprKind { return CondExprKind }
