// Copyright (c) HashiCorp, Inc.

package ast

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/fieldpath"
	"github.com/hashicorp/go-sdql/validate"
)

// orderedKeys returns a map's keys in a deterministic (alphabetical) order.
// A JSON object has no defined iteration order and Go's map preserves
// none either, so alphabetical order is what makes Testable Property 1
// (determinism) achievable for newRow/changes column ordering.
func orderedKeys(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// exprTags is the closed set of $-prefixed keys recognized as expression
// constructors. A single-key map whose key is one of these is always an
// expression, never a nested selection.
var exprTags = map[string]bool{
	"$field": true, "$var": true, "$uuid": true, "$date": true,
	"$timestamp": true, "$jsonb": true, "$func": true, "$cond": true,
}

// ParseExpression recognizes a raw, JSON-decoded value into an Expr: the
// syntactic half of spec §9's two-step parse (recognition, then semantic
// lowering in the compile package).
func ParseExpression(raw any) (Expr, error) {
	const op = "ast.ParseExpression"
	switch v := raw.(type) {
	case nil:
		return LiteralExpr{Value: nil}, nil
	case string, float64, bool, int:
		return LiteralExpr{Value: v}, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, fmt.Errorf("%s: %w: expression object must have exactly one key, got %d", op, errs.ErrUnknownASTVariant, len(v))
		}
		for key, val := range v {
			return parseTaggedExpr(key, val)
		}
	}
	return nil, fmt.Errorf("%s: %w: unrecognized expression shape %T", op, errs.ErrInvalidParameter, raw)
}

func parseTaggedExpr(tag string, val any) (Expr, error) {
	const op = "ast.parseTaggedExpr"
	switch tag {
	case "$field":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $field value must be a string", op, errs.ErrInvalidFieldPath)
		}
		p, err := fieldpath.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, errs.ErrInvalidFieldPath, err)
		}
		return FieldExpr{Raw: s, Path: p}, nil
	case "$var":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $var value must be a string", op, errs.ErrInvalidParameter)
		}
		return VarExpr{Name: s}, nil
	case "$uuid":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $uuid value must be a string", op, errs.ErrInvalidUUID)
		}
		if !validate.IsUUID(s) {
			return nil, fmt.Errorf("%s: %w: %q", op, errs.ErrInvalidUUID, s)
		}
		return UUIDExpr{Value: s}, nil
	case "$date":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $date value must be a string", op, errs.ErrInvalidDate)
		}
		if !validate.IsDate(s) {
			return nil, fmt.Errorf("%s: %w: %q", op, errs.ErrInvalidDate, s)
		}
		return DateExpr{Value: s}, nil
	case "$timestamp":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $timestamp value must be a string", op, errs.ErrInvalidTimestamp)
		}
		if !validate.IsTimestamp(s) {
			return nil, fmt.Errorf("%s: %w: %q", op, errs.ErrInvalidTimestamp, s)
		}
		return TimestampExpr{Value: s}, nil
	case "$jsonb":
		return JSONBExpr{Value: val}, nil
	case "$func":
		return parseFuncExpr(val)
	case "$cond":
		return parseCondExpr(val)
	default:
		return nil, fmt.Errorf("%s: %w: unknown expression tag %q", op, errs.ErrUnknownASTVariant, tag)
	}
}

func parseFuncExpr(raw any) (Expr, error) {
	const op = "ast.parseFuncExpr"
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("%s: %w: $func value must be a single-key object", op, errs.ErrUnknownFunction)
	}
	for name, rawArgs := range m {
		if !validate.IsFunctionName(name) || !FuncCatalog[FuncName(name)] {
			return nil, fmt.Errorf("%s: %w: %q", op, errs.ErrUnknownFunction, name)
		}
		argList, ok := rawArgs.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: arguments to %q must be an array", op, errs.ErrInvalidParameter, name)
		}
		args := make([]Expr, 0, len(argList))
		for i, a := range argList {
			e, err := ParseExpression(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d of %q: %w", op, i, name, err)
			}
			args = append(args, e)
		}
		return FuncExpr{Name: FuncName(name), Args: args}, nil
	}
	panic("unreachable")
}

func parseCondExpr(raw any) (Expr, error) {
	const op = "ast.parseCondExpr"
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: $cond value must be an object", op, errs.ErrInvalidConditional)
	}
	ifRaw, hasIf := m["if"]
	thenRaw, hasThen := m["then"]
	elseRaw, hasElse := m["else"]
	if !hasIf || !hasThen || !hasElse {
		return nil, fmt.Errorf("%s: %w: $cond requires if, then and else", op, errs.ErrInvalidConditional)
	}
	ifCond, err := ParseCondition(ifRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: if: %w", op, err)
	}
	thenExpr, err := ParseExpression(thenRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: then: %w", op, err)
	}
	elseExpr, err := ParseExpression(elseRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: else: %w", op, err)
	}
	return CondExpr{If: ifCond, Then: thenExpr, Else: elseExpr}, nil
}

// ParseCondition recognizes a raw value into a Condition.
func ParseCondition(raw any) (Condition, error) {
	const op = "ast.ParseCondition"
	switch v := raw.(type) {
	case bool:
		return BoolCond(v), nil
	case map[string]any:
		if len(v) != 1 {
			return nil, fmt.Errorf("%s: %w: condition object must have exactly one key, got %d", op, errs.ErrInvalidLogicalOp, len(v))
		}
		for key, val := range v {
			return parseConditionKey(key, val)
		}
	}
	return nil, fmt.Errorf("%s: %w: unrecognized condition shape %T", op, errs.ErrInvalidParameter, raw)
}

// EnsureConditionObject is the strict-parse entry point from spec §6: a
// ParseCondition whose failure is re-diagnosed by the path-annotated
// walker in diagnostics.go, so the caller sees the exact offending node.
func EnsureConditionObject(raw any) (Condition, error) {
	cond, err := ParseCondition(raw)
	if err == nil {
		return cond, nil
	}
	if path := FindIssue(raw); path != "" {
		return nil, fmt.Errorf("ast.EnsureConditionObject: invalid condition at %s: %w", path, err)
	}
	return nil, err
}

func parseConditionKey(key string, val any) (Condition, error) {
	const op = "ast.parseConditionKey"
	switch key {
	case "$and", "$or":
		arr, ok := val.([]any)
		if !ok || len(arr) == 0 {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrEmptyLogicalArgs)
		}
		children := make([]Condition, 0, len(arr))
		for i, c := range arr {
			parsed, err := ParseCondition(c)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", op, key, i, err)
			}
			children = append(children, parsed)
		}
		if key == "$and" {
			return AndCond{Children: children}, nil
		}
		return OrCond{Children: children}, nil
	case "$not":
		child, err := ParseCondition(val)
		if err != nil {
			return nil, fmt.Errorf("%s: $not: %w", op, err)
		}
		return NotCond{Child: child}, nil
	case "$exists":
		m, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w: $exists value must be an object", op, errs.ErrInvalidExists)
		}
		table, ok := m["table"].(string)
		if !ok || table == "" {
			return nil, fmt.Errorf("%s: %w: $exists missing table", op, errs.ErrInvalidExists)
		}
		condRaw, ok := m["condition"]
		if !ok {
			return nil, fmt.Errorf("%s: %w: $exists missing condition", op, errs.ErrInvalidExists)
		}
		inner, err := ParseCondition(condRaw)
		if err != nil {
			return nil, fmt.Errorf("%s: $exists.condition: %w", op, err)
		}
		return ExistsCond{Table: table, Condition: inner}, nil
	default:
		return parseFieldCond(key, val)
	}
}

func parseFieldCond(path string, val any) (Condition, error) {
	const op = "ast.parseFieldCond"
	if !validate.IsFieldPath(path) {
		return nil, fmt.Errorf("%s: %w: %q", op, errs.ErrInvalidFieldPath, path)
	}

	m, isMap := val.(map[string]any)
	if !isMap {
		lit, err := ParseExpression(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return FieldCond{Path: path, Ops: []FieldOp{{Op: OpEq, Value: lit}}}, nil
	}

	ops := make([]FieldOp, 0, len(m))
	for rawOp, rawVal := range m {
		compOp, err := newComparisonOp(rawOp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var value Expr
		if compOp == OpIn || compOp == OpNin {
			arr, ok := rawVal.([]any)
			if !ok {
				return nil, fmt.Errorf("%s: %w: %s requires an array", op, errs.ErrInvalidParameter, compOp)
			}
			items := make([]Expr, 0, len(arr))
			for i, a := range arr {
				e, err := ParseExpression(a)
				if err != nil {
					return nil, fmt.Errorf("%s: %s[%d]: %w", op, compOp, i, err)
				}
				items = append(items, e)
			}
			value = ArrayExpr{Items: items}
		} else {
			value, err = ParseExpression(rawVal)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", op, compOp, err)
			}
		}
		ops = append(ops, FieldOp{Op: compOp, Value: value})
	}
	return FieldCond{Path: path, Ops: ops}, nil
}

// ParseSelection recognizes a raw object into a Selection.
func ParseSelection(raw any) (Selection, error) {
	const op = "ast.ParseSelection"
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: selection must be an object", op, errs.ErrInvalidParameter)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrEmptySelection)
	}
	sel := make(Selection, len(m))
	for name, val := range m {
		entry, err := parseSelectionEntry(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", op, name, err)
		}
		sel[name] = entry
	}
	return sel, nil
}

func parseSelectionEntry(val any) (SelectionEntry, error) {
	switch v := val.(type) {
	case bool:
		if v {
			return SelectionEntry{Kind: SelectColumn}, nil
		}
		return SelectionEntry{Kind: SelectOmit}, nil
	case map[string]any:
		if isExprObject(v) {
			e, err := ParseExpression(v)
			if err != nil {
				return SelectionEntry{}, err
			}
			return SelectionEntry{Kind: SelectExprKind, Expr: e}, nil
		}
		nested, err := ParseSelection(v)
		if err != nil {
			return SelectionEntry{}, err
		}
		return SelectionEntry{Kind: SelectNested, Nested: nested}, nil
	default:
		return SelectionEntry{}, fmt.Errorf("%w: unrecognized selection entry %T", errs.ErrInvalidParameter, val)
	}
}

// isExprObject reports whether a map is a tagged expression object rather
// than a nested selection.
func isExprObject(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return exprTags[k]
	}
	return false
}

// ParseAggregatedField recognizes {operator, field} into an AggregatedField.
func ParseAggregatedField(raw any) (AggregatedField, error) {
	const op = "ast.ParseAggregatedField"
	m, ok := raw.(map[string]any)
	if !ok {
		return AggregatedField{}, fmt.Errorf("%s: %w: aggregated field must be an object", op, errs.ErrInvalidParameter)
	}
	opName, ok := m["operator"].(string)
	if !ok {
		return AggregatedField{}, fmt.Errorf("%s: %w: missing operator", op, errs.ErrInvalidParameter)
	}
	switch AggregateOp(opName) {
	case AggCount, AggSum, AggAvg, AggMin, AggMax:
	default:
		return AggregatedField{}, fmt.Errorf("%s: %w: unknown aggregate operator %q", op, errs.ErrInvalidParameter, opName)
	}
	field, ok := m["field"]
	if !ok {
		return AggregatedField{}, fmt.Errorf("%s: %w: missing field", op, errs.ErrInvalidParameter)
	}
	if s, ok := field.(string); ok {
		if s == "*" {
			return AggregatedField{Operator: AggregateOp(opName), Star: true}, nil
		}
		return AggregatedField{Operator: AggregateOp(opName), Field: s}, nil
	}
	e, err := ParseExpression(field)
	if err != nil {
		return AggregatedField{}, fmt.Errorf("%s: field: %w", op, err)
	}
	return AggregatedField{Operator: AggregateOp(opName), Expr: e}, nil
}

// ParseSelectQuery recognizes a full {rootTable, selection, condition?,
// limit?, offset?} object into a SelectQuery.
func ParseSelectQuery(raw map[string]any) (SelectQuery, error) {
	const op = "ast.ParseSelectQuery"
	table, ok := raw["rootTable"].(string)
	if !ok || table == "" {
		return SelectQuery{}, fmt.Errorf("%s: %w: missing rootTable", op, errs.ErrUnknownTable)
	}
	sel, err := ParseSelection(raw["selection"])
	if err != nil {
		return SelectQuery{}, fmt.Errorf("%s: %w", op, err)
	}
	q := SelectQuery{RootTable: table, Selection: sel}
	if condRaw, ok := raw["condition"]; ok {
		cond, err := ParseCondition(condRaw)
		if err != nil {
			return SelectQuery{}, fmt.Errorf("%s: condition: %w", op, err)
		}
		q.Condition = cond
	}
	if limRaw, ok := raw["limit"]; ok {
		n, err := asInt(limRaw)
		if err != nil {
			return SelectQuery{}, fmt.Errorf("%s: limit: %w", op, err)
		}
		q.Limit = &n
	}
	if offRaw, ok := raw["offset"]; ok {
		n, err := asInt(offRaw)
		if err != nil {
			return SelectQuery{}, fmt.Errorf("%s: offset: %w", op, err)
		}
		q.Offset = &n
	}
	return q, nil
}

// ParseAggregationQuery recognizes a full aggregation query object.
func ParseAggregationQuery(raw map[string]any) (AggregationQuery, error) {
	const op = "ast.ParseAggregationQuery"
	table, ok := raw["table"].(string)
	if !ok || table == "" {
		return AggregationQuery{}, fmt.Errorf("%s: %w: missing table", op, errs.ErrUnknownTable)
	}
	q := AggregationQuery{Table: table, AggregatedFields: map[string]AggregatedField{}}
	if gb, ok := raw["groupBy"].([]any); ok {
		for _, g := range gb {
			s, ok := g.(string)
			if !ok {
				return AggregationQuery{}, fmt.Errorf("%s: %w: groupBy entries must be strings", op, errs.ErrInvalidParameter)
			}
			q.GroupBy = append(q.GroupBy, s)
		}
	}
	if af, ok := raw["aggregatedFields"].(map[string]any); ok {
		for alias, v := range af {
			parsed, err := ParseAggregatedField(v)
			if err != nil {
				return AggregationQuery{}, fmt.Errorf("%s: aggregatedFields.%s: %w", op, alias, err)
			}
			q.AggregatedFields[alias] = parsed
		}
	}
	if condRaw, ok := raw["condition"]; ok {
		cond, err := ParseCondition(condRaw)
		if err != nil {
			return AggregationQuery{}, fmt.Errorf("%s: condition: %w", op, err)
		}
		q.Condition = cond
	}
	return q, nil
}

// ParseInsertQuery recognizes {table, newRow, condition?}.
func ParseInsertQuery(raw map[string]any) (InsertQuery, error) {
	const op = "ast.ParseInsertQuery"
	table, ok := raw["table"].(string)
	if !ok || table == "" {
		return InsertQuery{}, fmt.Errorf("%s: %w: missing table", op, errs.ErrUnknownTable)
	}
	newRowRaw, ok := raw["newRow"].(map[string]any)
	if !ok {
		return InsertQuery{}, fmt.Errorf("%s: %w: missing newRow", op, errs.ErrInvalidParameter)
	}
	q := InsertQuery{Table: table, NewRow: map[string]Expr{}}
	for _, name := range orderedKeys(raw["newRow"]) {
		v := newRowRaw[name]
		e, err := ParseExpression(v)
		if err != nil {
			return InsertQuery{}, fmt.Errorf("%s: newRow.%s: %w", op, name, err)
		}
		q.NewRow[name] = e
		q.RowOrder = append(q.RowOrder, name)
	}
	if condRaw, ok := raw["condition"]; ok {
		cond, err := ParseCondition(condRaw)
		if err != nil {
			return InsertQuery{}, fmt.Errorf("%s: condition: %w", op, err)
		}
		q.Condition = cond
	}
	return q, nil
}

// ParseUpdateQuery recognizes {table, changes, condition?}.
func ParseUpdateQuery(raw map[string]any) (UpdateQuery, error) {
	const op = "ast.ParseUpdateQuery"
	table, ok := raw["table"].(string)
	if !ok || table == "" {
		return UpdateQuery{}, fmt.Errorf("%s: %w: missing table", op, errs.ErrUnknownTable)
	}
	changesRaw, ok := raw["changes"].(map[string]any)
	if !ok || len(changesRaw) == 0 {
		return UpdateQuery{}, fmt.Errorf("%s: %w: missing changes", op, errs.ErrInvalidParameter)
	}
	q := UpdateQuery{Table: table, Changes: map[string]Expr{}}
	for _, name := range orderedKeys(raw["changes"]) {
		v := changesRaw[name]
		e, err := ParseExpression(v)
		if err != nil {
			return UpdateQuery{}, fmt.Errorf("%s: changes.%s: %w", op, name, err)
		}
		q.Changes[name] = e
		q.RowOrder = append(q.RowOrder, name)
	}
	if condRaw, ok := raw["condition"]; ok {
		cond, err := ParseCondition(condRaw)
		if err != nil {
			return UpdateQuery{}, fmt.Errorf("%s: condition: %w", op, err)
		}
		q.Condition = cond
	}
	return q, nil
}

// ParseDeleteQuery recognizes {table, condition?}.
func ParseDeleteQuery(raw map[string]any) (DeleteQuery, error) {
	const op = "ast.ParseDeleteQuery"
	table, ok := raw["table"].(string)
	if !ok || table == "" {
		return DeleteQuery{}, fmt.Errorf("%s: %w: missing table", op, errs.ErrUnknownTable)
	}
	q := DeleteQuery{Table: table}
	if condRaw, ok := raw["condition"]; ok {
		cond, err := ParseCondition(condRaw)
		if err != nil {
			return DeleteQuery{}, fmt.Errorf("%s: condition: %w", op, err)
		}
		q.Condition = cond
	}
	return q, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: expected a number", errs.ErrInvalidParameter)
	}
}
