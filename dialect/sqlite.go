// Copyright (c) HashiCorp, Inc.

package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// sqliteOps backs both the sqlite-minimal and sqlite-extensions profiles
// (spec §9); the two profiles differ only in Name(), and both render JSON
// access through json_extract.
type sqliteOps struct {
	extensions bool
}

func (s sqliteOps) Name() Name {
	if s.extensions {
		return SQLiteExtensions
	}
	return SQLiteMinimal
}

func (sqliteOps) QuoteIdent(ident string) string {
	return quoteDoubled(ident)
}

func (sqliteOps) Cast(expr string, toType string) string {
	switch toType {
	case "UUID", "DATE", "TIMESTAMP":
		// SQLite has no such types: CAST to these names applies NUMERIC
		// affinity and truncates the text, so the value is kept as TEXT.
		toType = "TEXT"
	}
	return fmt.Sprintf("CAST(%s AS %s)", expr, toType)
}

// JSONAccess builds a single json_extract call with a '$.a.b' path
// expression, the form both sqlite profiles understand; asText is honored
// via json_extract's own text-coercion semantics for scalar leaves.
func (s sqliteOps) JSONAccess(base string, path []string, asText bool) string {
	var p strings.Builder
	p.WriteString("$")
	for _, seg := range path {
		p.WriteString(".")
		p.WriteString(seg)
	}
	expr := fmt.Sprintf("json_extract(%s, '%s')", base, p.String())
	if asText {
		return fmt.Sprintf("CAST(%s AS TEXT)", expr)
	}
	return expr
}

// LimitClause renders LIMIT/OFFSET; when only an offset is given, SQLite
// requires an explicit LIMIT -1 since OFFSET alone is not legal syntax
// (spec §6/§8, Testable Property 8).
func (sqliteOps) LimitClause(limit, offset *int) string {
	switch {
	case limit == nil && offset == nil:
		return ""
	case limit != nil && offset != nil:
		return "LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(*offset)
	case limit != nil:
		return "LIMIT " + strconv.Itoa(*limit)
	default:
		return "LIMIT -1 OFFSET " + strconv.Itoa(*offset)
	}
}

func (sqliteOps) Placeholder(int) string {
	return "?"
}
