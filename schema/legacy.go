// Copyright (c) HashiCorp, Inc.

package schema

// ForeignKey is one entry of a ConfigWithForeignKeys table's implicit-FK
// shape: "this table's Field references References.Table.References.Field".
type ForeignKey struct {
	Table      string
	Field      string
	References struct {
		Table string
		Field string
	}
}

// ConfigWithForeignKeys is the sibling shape spec §3/§9 calls out: instead
// of an explicit Relationships list, each table carries its own foreign
// keys. NormalizeLegacyConfig expands this into the canonical Config.
type ConfigWithForeignKeys struct {
	Dialect     string
	Tables      map[string]TableConfig
	ForeignKeys map[string][]ForeignKey
	Variables   map[string]any
	DataTable   *DataTable
}

// NormalizeLegacyConfig expands a ConfigWithForeignKeys into a canonical
// Config, materializing one many-to-one Relationship per foreign key
// (spec §9 "Normalization of legacy configs"). Each (fromTable, fromField,
// toTable, toField) tuple produces exactly one Relationship even if it
// appears more than once across the ForeignKeys map.
func NormalizeLegacyConfig(legacy ConfigWithForeignKeys) Config {
	type key struct{ fromTable, fromField, toTable, toField string }
	seen := make(map[key]bool)
	var rels []Relationship

	for fromTable, fks := range legacy.ForeignKeys {
		for _, fk := range fks {
			k := key{fromTable, fk.Field, fk.References.Table, fk.References.Field}
			if seen[k] {
				continue
			}
			seen[k] = true
			rels = append(rels, Relationship{
				FromTable: fromTable,
				FromField: fk.Field,
				ToTable:   fk.References.Table,
				ToField:   fk.References.Field,
				Kind:      ManyToOne,
			})
		}
	}

	return New(Config{
		Dialect:       legacy.Dialect,
		Tables:        legacy.Tables,
		Relationships: rels,
		Variables:     legacy.Variables,
		DataTable:     legacy.DataTable,
	})
}
