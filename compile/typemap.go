// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"

	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
)

// TypeMap is spec §3/§4.9's expression-to-type map: an append-only cache of
// emitted-SQL-fragment to the semantic type that produced it, consulted by
// the cast-insertion logic whenever two fragments meet in an operator.
type TypeMap struct {
	m map[string]schema.SemanticType
}

// NewTypeMap returns an empty TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{m: make(map[string]schema.SemanticType)}
}

// Record associates fragment with typ. A second Record of the same
// fragment must agree on type, or it is an internal error (spec §3
// invariant 3: "collisions must agree on type (else internal error)").
func (t *TypeMap) Record(fragment string, typ schema.SemanticType) error {
	if existing, ok := t.m[fragment]; ok {
		if existing != typ {
			return fmt.Errorf("compile.TypeMap.Record: %w: %q already %s, got %s",
				errs.ErrTypeMapCollision, fragment, existing, typ)
		}
		return nil
	}
	t.m[fragment] = typ
	return nil
}

// Lookup returns the semantic type recorded for fragment, if any.
func (t *TypeMap) Lookup(fragment string) (schema.SemanticType, bool) {
	typ, ok := t.m[fragment]
	return typ, ok
}
