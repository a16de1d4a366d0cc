// Copyright (c) HashiCorp, Inc.

package compile

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-sdql/schema"
)

// bareIdentifier matches one dotted table.column-shaped token in an
// emitted SQL string, the same identifier grammar validate.IsFieldPath
// accepts before a path is resolved.
var bareIdentifier = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?\b`)

// sqlKeywords is the closed set of reserved words the audit never treats
// as a possible identifier reference, so a query built entirely from
// allowed fields never trips a false positive on its own SELECT/FROM/AND
// scaffolding.
var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"NOT": true, "NULL": true, "TRUE": true, "FALSE": true, "IS": true,
	"IN": true, "LIKE": true, "ILIKE": true, "AS": true, "LEFT": true,
	"JOIN": true, "ON": true, "GROUP": true, "BY": true, "LIMIT": true,
	"OFFSET": true, "INSERT": true, "INTO": true, "VALUES": true,
	"UPDATE": true, "SET": true, "DELETE": true, "EXISTS": true,
	"CASE": true, "WHEN": true, "THEN": true, "ELSE": true, "END": true,
	"CAST": true, "COUNT": true, "SUM": true, "AVG": true, "MIN": true,
	"MAX": true, "COALESCE": true, "GREATEST": true, "LEAST": true,
	"EXTRACT": true, "EPOCH": true, "UPPER": true, "LOWER": true,
	"LENGTH": true, "SUBSTR": true, "CONCAT": true, "ASC": true, "DESC": true,
	"TEXT": true, "UUID": true, "DATE": true, "TIMESTAMP": true, "BOOLEAN": true,
	"NUMERIC": true, "INTEGER": true, "JSONB": true, "TO_CHAR": true, "STRFTIME": true,
	"JULIANDAY": true, "GEN_RANDOM_UUID": true, "JSON_EXTRACT": true, "HEX": true, "RANDOMBLOB": true,
}

// Audit implements the "EXPLAIN-safe identifier audit" supplemented
// feature: it walks an already-compiled sql string and confirms every
// bare identifier token traces back to an allowed field, table or a
// synthesized join alias, i.e. Testable Property 2 (identifier safety) a
// host application can assert for itself without re-parsing its own
// output. It returns the first identifier it cannot account for, or ""
// when every token is safe.
func Audit(cfg schema.Config, sql string) string {
	allowed := allowedIdentifiers(cfg)

	for _, tok := range tokenizeOutsideStrings(sql) {
		if isNumericLiteral(tok) {
			continue
		}
		upper := strings.ToUpper(tok)
		if sqlKeywords[upper] {
			continue
		}
		if allowed[tok] {
			continue
		}
		// dotted form: check the tail segment too (alias.column) since
		// JOIN aliases like orders_2 aren't literal Config identifiers.
		if dot := strings.IndexByte(tok, '.'); dot >= 0 {
			head, tail := tok[:dot], tok[dot+1:]
			if isKnownAliasOrTable(cfg, head) {
				if allowed[tail] {
					continue
				}
				return tail
			}
		} else if isKnownAliasOrTable(cfg, tok) {
			// a bare numeric-suffixed self-join alias, e.g. "employees_2"
			continue
		}
		return tok
	}
	return ""
}

// allowedIdentifiers collects every table name and every field name across
// every configured table, plus the dataTable discriminator column when one
// is configured.
func allowedIdentifiers(cfg schema.Config) map[string]bool {
	out := make(map[string]bool)
	for table, tc := range cfg.Tables {
		out[table] = true
		for _, f := range tc.AllowedFields {
			out[f.Name] = true
		}
	}
	if cfg.DataTable != nil {
		out[cfg.DataTable.TableField] = true
	}
	return out
}

// isKnownAliasOrTable accepts either a real table name or a numeric
// self-join alias of the form "<table>_<n>" (spec §4.5).
func isKnownAliasOrTable(cfg schema.Config, alias string) bool {
	if cfg.HasTable(alias) {
		return true
	}
	if idx := strings.LastIndexByte(alias, '_'); idx > 0 {
		base, suffix := alias[:idx], alias[idx+1:]
		if suffix != "" && isAllDigits(suffix) && cfg.HasTable(base) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isNumericLiteral(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' && i > 0 {
			continue
		}
		return false
	}
	return true
}

// tokenizeOutsideStrings returns every bareIdentifier match in sql that
// does not fall inside a single-quoted string literal.
func tokenizeOutsideStrings(sql string) []string {
	var out []string
	var b strings.Builder
	inString := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' {
			inString = !inString
			b.WriteByte(' ')
			continue
		}
		if inString {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	for _, tok := range bareIdentifier.FindAllString(b.String(), -1) {
		out = append(out, tok)
	}
	return out
}
