// Copyright (c) HashiCorp, Inc.

// Package schema holds the caller-supplied configuration a compile is bound
// to: the permitted tables and fields, relationships between them, runtime
// variables, dialect selection, and the optional data-table virtualization
// layer (spec §3 "Config").
package schema

import (
	"fmt"

	"github.com/hashicorp/go-sdql/errs"
)

// SemanticType is the inferred abstract type of a field or lowered
// expression (spec §3).
type SemanticType string

const (
	TypeString   SemanticType = "string"
	TypeNumber   SemanticType = "number"
	TypeBoolean  SemanticType = "boolean"
	TypeUUID     SemanticType = "uuid"
	TypeDate     SemanticType = "date"
	TypeDatetime SemanticType = "datetime"
	TypeObject   SemanticType = "object"
	TypeUnknown  SemanticType = "unknown"
)

// Field describes one allowed column of a table.
type Field struct {
	Name     string
	Type     SemanticType
	Nullable bool
	// Default, when HasDefault is set, is applied on INSERT for a field
	// the caller's newRow omits (spec §4.8).
	Default    any
	HasDefault bool
}

// TableConfig is the set of fields permitted for one logical table.
type TableConfig struct {
	AllowedFields []Field

	byName map[string]Field
}

// Field looks up an allowed field by name.
func (t TableConfig) Field(name string) (Field, bool) {
	if t.byName != nil {
		f, ok := t.byName[name]
		return f, ok
	}
	for _, f := range t.AllowedFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RelationshipKind is the cardinality of a Relationship.
type RelationshipKind string

const (
	OneToOne   RelationshipKind = "one-to-one"
	OneToMany  RelationshipKind = "one-to-many"
	ManyToOne  RelationshipKind = "many-to-one"
	ManyToMany RelationshipKind = "many-to-many"
)

// Relationship connects two tables on a field pair, used by the field
// resolver (spec §4.5) to synthesize joins.
type Relationship struct {
	FromTable string
	FromField string
	ToTable   string
	ToField   string
	Kind      RelationshipKind
}

// DataTable virtualizes several logical tables as rows of one physical
// JSON-storage table discriminated by TableField (spec §3, §GLOSSARY).
type DataTable struct {
	PhysicalTable string
	TableField    string
}

// Config is the schema a compile is bound to: everything the compiler is
// allowed to reference while lowering a query.
type Config struct {
	Dialect       string
	Tables        map[string]TableConfig
	Relationships []Relationship
	Variables     map[string]any
	DataTable     *DataTable
}

// New finalizes a Config built by a caller, indexing each TableConfig's
// fields for O(1) lookup. Call this once after populating Tables by hand;
// configfile loaders call it for you.
func New(cfg Config) Config {
	for name, tc := range cfg.Tables {
		tc.byName = make(map[string]Field, len(tc.AllowedFields))
		for _, f := range tc.AllowedFields {
			tc.byName[f.Name] = f
		}
		cfg.Tables[name] = tc
	}
	return cfg
}

// HasTable reports whether name is a configured table.
func (c Config) HasTable(name string) bool {
	_, ok := c.Tables[name]
	return ok
}

// Table returns the TableConfig for name, or an ErrUnknownTable error.
func (c Config) Table(name string) (TableConfig, error) {
	tc, ok := c.Tables[name]
	if !ok {
		return TableConfig{}, fmt.Errorf("schema.Config.Table: %w: %q", errs.ErrUnknownTable, name)
	}
	return tc, nil
}

// Field resolves a field by table and name, rejecting tables or fields the
// Config does not allow.
func (c Config) Field(table, name string) (Field, error) {
	tc, err := c.Table(table)
	if err != nil {
		return Field{}, err
	}
	f, ok := tc.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("schema.Config.Field: %w: %q.%q", errs.ErrDisallowedField, table, name)
	}
	return f, nil
}

// Relationship finds the Relationship connecting from and target, matching
// symmetrically: either table may appear as either endpoint (spec §9 open
// question, resolved in favor of the symmetric predicate).
func (c Config) Relationship(from, target string) (Relationship, bool) {
	for _, r := range c.Relationships {
		if (r.FromTable == from && r.ToTable == target) ||
			(r.FromTable == target && r.ToTable == from) {
			return r, true
		}
	}
	return Relationship{}, false
}

// Variable looks up a runtime variable by name.
func (c Config) Variable(name string) (any, bool) {
	v, ok := c.Variables[name]
	return v, ok
}
