// Copyright (c) HashiCorp, Inc.

package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

type postgresOps struct{}

func (postgresOps) Name() Name { return PostgreSQL }

func (postgresOps) QuoteIdent(ident string) string {
	return quoteDoubled(ident)
}

func (postgresOps) Cast(expr string, toType string) string {
	return fmt.Sprintf("(%s)::%s", expr, toType)
}

// JSONAccess chains -> for every intermediate segment and ->> for the
// final one when asText is requested, per spec §4.3.
func (postgresOps) JSONAccess(base string, path []string, asText bool) string {
	var b strings.Builder
	b.WriteString(base)
	for i, seg := range path {
		last := i == len(path)-1
		op := "->"
		if last && asText {
			op = "->>"
		}
		b.WriteString(op)
		b.WriteString("'")
		b.WriteString(strings.ReplaceAll(seg, "'", "''"))
		b.WriteString("'")
	}
	return b.String()
}

func (postgresOps) LimitClause(limit, offset *int) string {
	var parts []string
	if limit != nil {
		parts = append(parts, "LIMIT "+strconv.Itoa(*limit))
	}
	if offset != nil {
		parts = append(parts, "OFFSET "+strconv.Itoa(*offset))
	}
	return strings.Join(parts, " ")
}

func (postgresOps) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
