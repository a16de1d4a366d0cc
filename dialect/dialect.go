// Copyright (c) HashiCorp, Inc.

// Package dialect implements spec §9's DialectOps capability set: rather
// than conditional chains scattered through the compiler, each supported
// SQL flavor is a small struct of pure functions (quote/cast/json
// access/pagination/placeholder) selected once per compile.
package dialect

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-sdql/errs"
)

// Name identifies one of the three supported SQL flavors.
type Name string

const (
	PostgreSQL       Name = "postgresql"
	SQLiteMinimal    Name = "sqlite-minimal"
	SQLiteExtensions Name = "sqlite-extensions"
)

// Ops is the capability set a dialect exposes to the compiler. Every
// lowering/builder function in the compile package only ever talks to
// this interface, never to a dialect name directly.
type Ops interface {
	Name() Name
	// QuoteIdent double-quotes an output alias, escaping embedded quotes.
	QuoteIdent(ident string) string
	// Cast wraps a SQL fragment with a cast to the named type.
	Cast(expr string, toType string) string
	// JSONAccess builds a JSON traversal over base through path,
	// returning text (asText) or the native JSON type.
	JSONAccess(base string, path []string, asText bool) string
	// LimitClause renders a LIMIT/OFFSET suffix; limit and/or offset may
	// be nil. Returns "" if both are nil.
	LimitClause(limit, offset *int) string
	// Placeholder renders the nth (1-indexed) bound-parameter marker.
	Placeholder(n int) string
	// RenderFunc renders a catalog function call given its already-lowered
	// argument fragments. Infix functions (ADD, SUBTRACT, ...) are handled
	// by the compiler directly and never reach here; this covers the
	// catalog functions whose SQL rendering is dialect-specific.
	RenderFunc(name string, args []string) (string, error)
}

// Resolve normalizes a caller-supplied dialect string — including the
// legacy "sqlite-3.44-*" alias family spec §6 calls out — into one of the
// three canonical Ops implementations.
func Resolve(raw string) (Ops, error) {
	switch normalizeName(raw) {
	case PostgreSQL:
		return postgresOps{}, nil
	case SQLiteMinimal:
		return sqliteOps{extensions: false}, nil
	case SQLiteExtensions:
		return sqliteOps{extensions: true}, nil
	default:
		return nil, fmt.Errorf("dialect.Resolve: %w: unknown dialect %q", errs.ErrInvalidParameter, raw)
	}
}

func normalizeName(raw string) Name {
	switch raw {
	case string(PostgreSQL), string(SQLiteMinimal), string(SQLiteExtensions):
		return Name(raw)
	}
	// Legacy alias set: "sqlite-3.44-minimal", "sqlite-3.44-extensions",
	// and a bare "sqlite-3.44" defaulting to the extensions profile.
	if strings.HasPrefix(raw, "sqlite-3.44") {
		switch {
		case strings.HasSuffix(raw, "minimal"):
			return SQLiteMinimal
		case strings.HasSuffix(raw, "extensions"):
			return SQLiteExtensions
		default:
			return SQLiteExtensions
		}
	}
	return ""
}

// quoteDoubled double-quotes ident and doubles any embedded double quote,
// the same escaping rule spec §6 requires for string literals, applied to
// identifiers.
func quoteDoubled(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
