// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package sdql is documented in docs.go.
package sdql

import (
	"fmt"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/compile"
	"github.com/hashicorp/go-sdql/schema"
)

// BuildSelect parses and lowers a raw, JSON-decoded SELECT query against
// cfg, returning a parameterized SQL statement and its positional
// arguments.
func BuildSelect(raw map[string]any, cfg schema.Config, opt ...Option) (compile.Result, error) {
	const op = "sdql.BuildSelect"

	opts, err := getOpts(opt...)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ast.ParseSelectQuery(raw)
	if err != nil {
		return compile.Result{}, diagnose(op, raw, opts, err)
	}

	s, err := compile.NewState(cfg, q.RootTable, true)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := compile.BuildSelect(s, q)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// BuildAggregation parses and lowers a raw GROUP BY / aggregate query.
func BuildAggregation(raw map[string]any, cfg schema.Config, opt ...Option) (compile.Result, error) {
	const op = "sdql.BuildAggregation"

	opts, err := getOpts(opt...)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ast.ParseAggregationQuery(raw)
	if err != nil {
		return compile.Result{}, diagnose(op, raw, opts, err)
	}

	s, err := compile.NewState(cfg, q.Table, true)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	result, err := compile.BuildAggregation(s, q)
	if err != nil {
		return compile.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// BuildInsert parses and lowers a raw INSERT query. Per spec §4.8/§6, the
// emitted statement has its values embedded as literals; it carries no
// positional parameters.
func BuildInsert(raw map[string]any, cfg schema.Config, opt ...Option) (string, error) {
	const op = "sdql.BuildInsert"

	opts, err := getOpts(opt...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	q, err := ast.ParseInsertQuery(raw)
	if err != nil {
		return "", diagnose(op, raw, opts, err)
	}

	s, err := compile.NewState(cfg, q.Table, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sql, err := compile.BuildInsert(s, q)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sql, nil
}

// BuildUpdate parses and lowers a raw UPDATE query. Like BuildInsert, the
// emitted statement embeds its values as literals.
func BuildUpdate(raw map[string]any, cfg schema.Config, opt ...Option) (string, error) {
	const op = "sdql.BuildUpdate"

	opts, err := getOpts(opt...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	q, err := ast.ParseUpdateQuery(raw)
	if err != nil {
		return "", diagnose(op, raw, opts, err)
	}

	s, err := compile.NewState(cfg, q.Table, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sql, err := compile.BuildUpdate(s, q)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sql, nil
}

// BuildDelete parses and lowers a raw DELETE query.
func BuildDelete(raw map[string]any, cfg schema.Config, opt ...Option) (string, error) {
	const op = "sdql.BuildDelete"

	opts, err := getOpts(opt...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	q, err := ast.ParseDeleteQuery(raw)
	if err != nil {
		return "", diagnose(op, raw, opts, err)
	}

	s, err := compile.NewState(cfg, q.Table, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sql, err := compile.BuildDelete(s, q)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sql, nil
}

// ParseExpression is spec §6's parse_expression host-testing entry point:
// it recognizes and lowers a single raw expression value against cfg and
// rootTable, returning the SQL fragment it compiles to. It exists so a
// host application can unit test its own field/function usage without
// building a full query.
func ParseExpression(raw any, cfg schema.Config, rootTable string) (string, error) {
	const op = "sdql.ParseExpression"

	e, err := ast.ParseExpression(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s, err := compile.NewState(cfg, rootTable, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	frag, _, err := s.LowerExpr(rootTable, rootTable, e)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return frag, nil
}

// EnsureConditionObject is spec §6's ensure_condition_object: a strict
// parse of a raw condition value that augments any failure with the
// path-annotated diagnostic from ast.FindIssue.
func EnsureConditionObject(raw any) (ast.Condition, error) {
	return ast.EnsureConditionObject(raw)
}

// diagnose upgrades a generic parse error to one naming the offending JSON
// path when the caller opted into WithStrictDiagnostics.
func diagnose(op string, raw any, opts options, cause error) error {
	if !opts.strictDiagnostics {
		return fmt.Errorf("%s: %w", op, cause)
	}
	if path := ast.FindIssue(raw); path != "" {
		return fmt.Errorf("%s: %w: at %q", op, cause, path)
	}
	return fmt.Errorf("%s: %w", op, cause)
}
