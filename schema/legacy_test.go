// Copyright (c) HashiCorp, Inc.

package schema_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacyConfig(t *testing.T) {
	legacy := schema.ConfigWithForeignKeys{
		Dialect: "sqlite-extensions",
		Tables: map[string]schema.TableConfig{
			"orders": {AllowedFields: []schema.Field{{Name: "user_id", Type: schema.TypeUUID}}},
			"users":  {AllowedFields: []schema.Field{{Name: "id", Type: schema.TypeUUID}}},
		},
		ForeignKeys: map[string][]schema.ForeignKey{
			"orders": {
				{Field: "user_id", References: struct{ Table, Field string }{Table: "users", Field: "id"}},
				// duplicate entry: must collapse to one Relationship
				{Field: "user_id", References: struct{ Table, Field string }{Table: "users", Field: "id"}},
			},
		},
	}

	cfg := schema.NormalizeLegacyConfig(legacy)
	require.Len(t, cfg.Relationships, 1)

	rel := cfg.Relationships[0]
	assert.Equal(t, "orders", rel.FromTable)
	assert.Equal(t, "user_id", rel.FromField)
	assert.Equal(t, "users", rel.ToTable)
	assert.Equal(t, "id", rel.ToField)
	assert.Equal(t, schema.ManyToOne, rel.Kind)

	// New() indexing ran: Field lookups must work without a linear scan miss.
	f, ok := cfg.Tables["users"].Field("id")
	assert.True(t, ok)
	assert.Equal(t, schema.TypeUUID, f.Type)
}
