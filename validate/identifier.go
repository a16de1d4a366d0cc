// Copyright (c) HashiCorp, Inc.

package validate

import (
	"regexp"

	"github.com/hashicorp/go-sdql/fieldpath"
)

// functionNameShape is the lexical shape a function identifier must have
// before it is looked up in the closed catalog (spec §4.1: "must be in
// the catalog"). Catalog membership itself is checked by ast.FuncCatalog.
var functionNameShape = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// IsFunctionName reports whether name has the lexical shape of a function
// identifier (catalog membership is a separate check).
func IsFunctionName(name string) bool {
	return functionNameShape.MatchString(name)
}

// IsFieldPath reports whether s lexes as a field path: an identifier,
// optionally dotted with a table prefix, optionally followed by JSON-path
// segments. Table/relationship/JSON-leaf semantics are resolved later by
// the field resolver, not here.
func IsFieldPath(s string) bool {
	_, err := fieldpath.Parse(s)
	return err == nil
}
