// Copyright (c) HashiCorp, Inc.

package compile

import (
	"fmt"

	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/fieldpath"
	"github.com/hashicorp/go-sdql/schema"
)

// JoinSet is spec §4.5's field resolver & join planner: it synthesizes
// LEFT JOINs for dotted field paths that cross a relationship, de-dupes
// identical joins, and hands out numeric aliases for self-joins.
type JoinSet struct {
	cfg       schema.Config
	clauses   []string
	byKey     map[string]string // structural key -> alias already assigned
	processed map[string]bool   // tables already in the query: the root (set by NewState) and every join target
}

// NewJoinSet returns an empty JoinSet bound to cfg, consulted when a join
// target is itself data-table virtualized (spec §3 "dataTable").
func NewJoinSet(cfg schema.Config) *JoinSet {
	return &JoinSet{
		cfg:       cfg,
		byKey:     make(map[string]string),
		processed: make(map[string]bool),
	}
}

// Clauses returns the join clauses in the order they were first emitted,
// suitable for appending after the FROM table.
func (j *JoinSet) Clauses() []string {
	return j.clauses
}

// resolve synthesizes (or reuses) the join from fromAlias.fromField to
// toTable.toField, returning the alias to address toTable's columns by.
func (j *JoinSet) resolve(fromAlias, toTable, fromField, toField string) string {
	key := fromAlias + "|" + toTable + "|" + fromField + "|" + toField
	if alias, ok := j.byKey[key]; ok {
		return alias
	}

	alias := toTable
	if j.processed[toTable] {
		alias = fmt.Sprintf("%s_%d", toTable, len(j.processed)+1)
	}

	source := toTable
	var discriminator string
	if physical, disc, ok := j.cfg.PhysicalTable(toTable); ok {
		source = fmt.Sprintf("%s AS %s", physical, alias)
		discriminator = fmt.Sprintf(" AND %s.%s = '%s'", alias, j.cfg.DataTable.DiscriminatorField(), disc)
	} else if alias != toTable {
		source = fmt.Sprintf("%s AS %s", toTable, alias)
	}

	clause := fmt.Sprintf("LEFT JOIN %s ON %s.%s = %s.%s%s", source, fromAlias, fromField, alias, toField, discriminator)

	j.byKey[key] = alias
	j.processed[toTable] = true
	j.clauses = append(j.clauses, clause)
	return alias
}

// directionFields returns (fromField, toField) for rel as seen from
// currentTable's side, since Relationship matching is symmetric (spec §9
// open question: prefer the symmetric predicate).
func directionFields(rel schema.Relationship, currentTable string) (fromField, toField string) {
	if rel.FromTable == currentTable {
		return rel.FromField, rel.ToField
	}
	return rel.ToField, rel.FromField
}

// ResolvedField is the outcome of resolving a field path: the SQL fragment
// addressing it, and its semantic type (schema.TypeUnknown for JSON leaves
// accessed without a further cast, per spec §4.9).
type ResolvedField struct {
	SQL  string
	Type schema.SemanticType
}

// ResolveField implements spec §4.5's resolver combined with §3 invariant
// 1: a path's head is a table hop only when it names the current table or
// a relationship partner; otherwise the whole path (after an optional
// leading field name) denotes JSON traversal into one column.
func (s *State) ResolveField(currentAlias, currentTable string, path fieldpath.Path) (ResolvedField, error) {
	const op = "compile.ResolveField"
	segs := path.Segments
	if len(segs) == 0 {
		return ResolvedField{}, fmt.Errorf("%s: %w: empty path", op, errs.ErrInvalidFieldPath)
	}

	tableAlias, tableName := currentAlias, currentTable
	var fieldName string
	var jsonPath []string

	switch {
	case len(segs) == 1:
		fieldName = segs[0]

	case segs[0] == currentTable:
		fieldName = segs[1]
		jsonPath = segs[2:]

	default:
		if rel, ok := s.Config.Relationship(currentTable, segs[0]); ok {
			fromField, toField := directionFields(rel, currentTable)
			tableAlias = s.Joins.resolve(currentAlias, segs[0], fromField, toField)
			tableName = segs[0]
			fieldName = segs[1]
			jsonPath = segs[2:]
		} else {
			fieldName = segs[0]
			jsonPath = segs[1:]
		}
	}

	field, err := s.Config.Field(tableName, fieldName)
	if err != nil {
		return ResolvedField{}, fmt.Errorf("%s: %w", op, err)
	}

	base := tableAlias + "." + fieldName
	if len(jsonPath) == 0 {
		return ResolvedField{SQL: base, Type: field.Type}, nil
	}

	frag := s.Dialect.JSONAccess(base, jsonPath, true)
	return ResolvedField{SQL: frag, Type: schema.TypeUnknown}, nil
}
