// Copyright (c) HashiCorp, Inc.

// Package configfile loads a schema.Config from a TOML or YAML file,
// mirroring smf's file-based schema definition pattern (adapted from
// Pieczasz-smf's internal/parser/toml) rather than requiring every host
// application to build a schema.Config by hand in Go.
package configfile

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-sdql/schema"
)

// fileConfig is the on-disk shape, decoded by both the TOML and YAML
// loaders before being converted to the canonical schema.Config. Either
// Relationships or ForeignKeys may be populated; ForeignKeys takes the
// legacy normalization path (schema.NormalizeLegacyConfig).
type fileConfig struct {
	Dialect       string                       `toml:"dialect" yaml:"dialect"`
	Tables        map[string]fileTable         `toml:"tables" yaml:"tables"`
	Relationships []fileRelationship           `toml:"relationships" yaml:"relationships"`
	ForeignKeys   map[string][]fileForeignKey  `toml:"foreign_keys" yaml:"foreign_keys"`
	Variables     map[string]any               `toml:"variables" yaml:"variables"`
	DataTable     *fileDataTable               `toml:"data_table" yaml:"data_table"`
}

type fileTable struct {
	Fields []fileField `toml:"fields" yaml:"fields"`
}

type fileField struct {
	Name       string `toml:"name" yaml:"name"`
	Type       string `toml:"type" yaml:"type"`
	Nullable   bool   `toml:"nullable" yaml:"nullable"`
	Default    any    `toml:"default" yaml:"default"`
	HasDefault bool   `toml:"has_default" yaml:"has_default"`
}

type fileRelationship struct {
	FromTable string `toml:"from_table" yaml:"from_table"`
	FromField string `toml:"from_field" yaml:"from_field"`
	ToTable   string `toml:"to_table" yaml:"to_table"`
	ToField   string `toml:"to_field" yaml:"to_field"`
	Kind      string `toml:"kind" yaml:"kind"`
}

type fileForeignKey struct {
	Field      string `toml:"field" yaml:"field"`
	References struct {
		Table string `toml:"table" yaml:"table"`
		Field string `toml:"field" yaml:"field"`
	} `toml:"references" yaml:"references"`
}

type fileDataTable struct {
	PhysicalTable string `toml:"physical_table" yaml:"physical_table"`
	TableField    string `toml:"table_field" yaml:"table_field"`
}

func (fc *fileConfig) toConfig() (schema.Config, error) {
	tables := make(map[string]schema.TableConfig, len(fc.Tables))
	for name, t := range fc.Tables {
		fields := make([]schema.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return schema.Config{}, fmt.Errorf("configfile: table %q has a field with no name", name)
			}
			fields = append(fields, schema.Field{
				Name:       f.Name,
				Type:       schema.SemanticType(f.Type),
				Nullable:   f.Nullable,
				Default:    f.Default,
				HasDefault: f.HasDefault,
			})
		}
		tables[name] = schema.TableConfig{AllowedFields: fields}
	}

	var dt *schema.DataTable
	if fc.DataTable != nil {
		dt = &schema.DataTable{
			PhysicalTable: fc.DataTable.PhysicalTable,
			TableField:    fc.DataTable.TableField,
		}
	}

	if len(fc.ForeignKeys) > 0 {
		legacy := schema.ConfigWithForeignKeys{
			Dialect:   fc.Dialect,
			Tables:    tables,
			Variables: fc.Variables,
			DataTable: dt,
		}
		legacy.ForeignKeys = make(map[string][]schema.ForeignKey, len(fc.ForeignKeys))
		for table, fks := range fc.ForeignKeys {
			converted := make([]schema.ForeignKey, 0, len(fks))
			for _, fk := range fks {
				var sfk schema.ForeignKey
				sfk.Field = fk.Field
				sfk.References.Table = fk.References.Table
				sfk.References.Field = fk.References.Field
				converted = append(converted, sfk)
			}
			legacy.ForeignKeys[table] = converted
		}
		return schema.NormalizeLegacyConfig(legacy), nil
	}

	rels := make([]schema.Relationship, 0, len(fc.Relationships))
	for _, r := range fc.Relationships {
		rels = append(rels, schema.Relationship{
			FromTable: r.FromTable,
			FromField: r.FromField,
			ToTable:   r.ToTable,
			ToField:   r.ToField,
			Kind:      schema.RelationshipKind(r.Kind),
		})
	}

	return schema.New(schema.Config{
		Dialect:       fc.Dialect,
		Tables:        tables,
		Relationships: rels,
		Variables:     fc.Variables,
		DataTable:     dt,
	}), nil
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("configfile: read %q: %w", path, err)
	}
	return b, nil
}
