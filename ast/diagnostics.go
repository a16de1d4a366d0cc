// Copyright (c) HashiCorp, Inc.

package ast

import "fmt"

// FindIssue walks a raw, JSON-decoded query tree and returns the path to
// the first node that fails to recognize as a valid AST node, formatted
// the way spec §4.2 describes: "." for object keys, "[i]" for array
// indices, e.g. `a.$cond.then`. It returns "" if no issue is found (the
// tree recognizes cleanly, or the caller should fall back to the generic
// error from ParseCondition/ParseExpression).
func FindIssue(raw any) string {
	p := &stack[string]{}
	return walk(raw, p)
}

func walk(raw any, p *stack[string]) string {
	switch v := raw.(type) {
	case map[string]any:
		for key, val := range v {
			p.push("." + key)
			if issue := diagnoseTaggedNode(key, val); issue != "" {
				return pathString(p)
			}
			if sub := walk(val, p); sub != "" {
				return sub
			}
			p.pop()
		}
	case []any:
		for i, item := range v {
			p.push(fmt.Sprintf("[%d]", i))
			if sub := walk(item, p); sub != "" {
				return sub
			}
			p.pop()
		}
	}
	return ""
}

// diagnoseTaggedNode attempts a narrow, single-node recognition of a
// raw key/value pair and reports whether it is locally malformed, without
// recursing into children (the caller's walk already does that). It only
// flags nodes whose own shape is wrong, e.g. a $cond missing "then".
func diagnoseTaggedNode(key string, val any) string {
	switch key {
	case "$field", "$var", "$uuid", "$date", "$timestamp":
		if _, ok := val.(string); !ok {
			return "expected a string"
		}
		if _, err := parseTaggedExpr(key, val); err != nil {
			return err.Error()
		}
	case "$cond":
		m, ok := val.(map[string]any)
		if !ok {
			return "expected an object with if/then/else"
		}
		for _, want := range []string{"if", "then", "else"} {
			if _, ok := m[want]; !ok {
				return fmt.Sprintf("missing %q", want)
			}
		}
	case "$exists":
		m, ok := val.(map[string]any)
		if !ok {
			return "expected an object with table/condition"
		}
		if _, ok := m["table"].(string); !ok {
			return "missing table"
		}
		if _, ok := m["condition"]; !ok {
			return "missing condition"
		}
	case "$and", "$or":
		arr, ok := val.([]any)
		if !ok || len(arr) == 0 {
			return "requires a non-empty array"
		}
	case "$func":
		m, ok := val.(map[string]any)
		if !ok || len(m) != 1 {
			return "expected a single-key object naming the function"
		}
		for name, args := range m {
			if !FuncCatalog[FuncName(name)] {
				return fmt.Sprintf("unknown function %q", name)
			}
			if _, ok := args.([]any); !ok {
				return "arguments must be an array"
			}
		}
	}
	return ""
}

func pathString(p *stack[string]) string {
	s := ""
	for _, seg := range p.items() {
		s += seg
	}
	if len(s) > 0 && s[0] == '.' {
		s = s[1:]
	}
	return s
}
