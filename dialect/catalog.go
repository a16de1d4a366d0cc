// Copyright (c) HashiCorp, Inc.

package dialect

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-sdql/errs"
)

// commonRenderFunc renders the catalog functions whose SQL is identical
// across every supported dialect. It returns ok=false for anything it
// doesn't recognize, letting the caller fall through to its own
// dialect-specific cases.
func commonRenderFunc(ops Ops, name string, args []string) (string, bool, error) {
	switch name {
	case "GREATEST_NUMBER":
		return fmt.Sprintf("GREATEST(%s)", strings.Join(args, ", ")), true, nil
	case "LEAST_NUMBER":
		return fmt.Sprintf("LEAST(%s)", strings.Join(args, ", ")), true, nil
	case "COALESCE_NUMBER", "COALESCE_STRING", "COALESCE":
		return fmt.Sprintf("COALESCE(%s)", strings.Join(args, ", ")), true, nil
	case "CONCAT":
		return fmt.Sprintf("CONCAT(%s)", strings.Join(args, ", ")), true, nil
	case "UPPER":
		return callOrErr("UPPER", args, 1)
	case "LOWER":
		return callOrErr("LOWER", args, 1)
	case "LENGTH":
		return callOrErr("LENGTH", args, 1)
	case "SUBSTR", "SUBSTRING":
		return fmt.Sprintf("SUBSTR(%s)", strings.Join(args, ", ")), true, nil
	case "JSON_EXTRACT":
		if len(args) < 1 {
			return "", true, fmt.Errorf("dialect.RenderFunc: %w: JSON_EXTRACT requires a base argument", errs.ErrInvalidParameter)
		}
		path := make([]string, 0, len(args)-1)
		for _, a := range args[1:] {
			path = append(path, unquoteLiteral(a))
		}
		return ops.JSONAccess(args[0], path, true), true, nil
	default:
		return "", false, nil
	}
}

func callOrErr(fn string, args []string, n int) (string, bool, error) {
	if len(args) != n {
		return "", true, fmt.Errorf("dialect.RenderFunc: %w: %s takes %d argument(s)", errs.ErrInvalidParameter, fn, n)
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(args, ", ")), true, nil
}

// unquoteLiteral strips a single layer of surrounding single quotes from a
// SQL string literal fragment, as produced for a JSON_EXTRACT path segment.
func unquoteLiteral(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

func (postgresOps) RenderFunc(name string, args []string) (string, error) {
	if sql, ok, err := commonRenderFunc(postgresOps{}, name, args); ok {
		return sql, err
	}
	switch name {
	case "EXTRACT_EPOCH":
		if len(args) != 1 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: EXTRACT_EPOCH takes 1 argument", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("EXTRACT(EPOCH FROM %s)", args[0]), nil
	case "EXTRACT":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: EXTRACT takes 2 arguments", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("EXTRACT(%s FROM %s)", unquoteLiteral(args[0]), args[1]), nil
	case "DATE_FORMAT":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: DATE_FORMAT takes 2 arguments", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("to_char(%s, %s)", args[0], args[1]), nil
	case "DATEDIFF":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: DATEDIFF takes 2 arguments", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("(%s - %s)", args[0], args[1]), nil
	case "GEN_RANDOM_UUID":
		if len(args) != 0 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: GEN_RANDOM_UUID takes no arguments", errs.ErrInvalidParameter)
		}
		return "gen_random_uuid()", nil
	default:
		return "", fmt.Errorf("dialect.RenderFunc: %w: %q", errs.ErrUnknownFunction, name)
	}
}

func (s sqliteOps) RenderFunc(name string, args []string) (string, error) {
	if sql, ok, err := commonRenderFunc(s, name, args); ok {
		return sql, err
	}
	switch name {
	case "EXTRACT_EPOCH":
		if len(args) != 1 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: EXTRACT_EPOCH takes 1 argument", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("CAST(strftime('%%s', %s) AS INTEGER)", args[0]), nil
	case "EXTRACT":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: EXTRACT takes 2 arguments", errs.ErrInvalidParameter)
		}
		field := strftimeField(unquoteLiteral(args[0]))
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", field, args[1]), nil
	case "DATE_FORMAT":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: DATE_FORMAT takes 2 arguments", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("strftime(%s, %s)", args[1], args[0]), nil
	case "DATEDIFF":
		if len(args) != 2 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: DATEDIFF takes 2 arguments", errs.ErrInvalidParameter)
		}
		return fmt.Sprintf("(julianday(%s) - julianday(%s))", args[0], args[1]), nil
	case "GEN_RANDOM_UUID":
		if len(args) != 0 {
			return "", fmt.Errorf("dialect.RenderFunc: %w: GEN_RANDOM_UUID takes no arguments", errs.ErrInvalidParameter)
		}
		// Assembles a canonical 8-4-4-4-12 hex UUID from random blobs; the
		// extensions profile could lean on a loaded uuid() extension
		// instead, but this keeps the minimal profile working unaided.
		return "(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(6))))", nil
	default:
		return "", fmt.Errorf("dialect.RenderFunc: %w: %q", errs.ErrUnknownFunction, name)
	}
}

// strftimeField maps a spec-level EXTRACT field name to sqlite's strftime
// format code.
func strftimeField(field string) string {
	switch strings.ToUpper(field) {
	case "YEAR":
		return "%Y"
	case "MONTH":
		return "%m"
	case "DAY":
		return "%d"
	case "HOUR":
		return "%H"
	case "MINUTE":
		return "%M"
	case "SECOND":
		return "%S"
	default:
		return "%Y"
	}
}
