// Copyright (c) HashiCorp, Inc.

package schema_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
)

func TestConfig_PhysicalTable(t *testing.T) {
	t.Run("no data table", func(t *testing.T) {
		cfg := schema.Config{}
		_, _, ok := cfg.PhysicalTable("widgets")
		assert.False(t, ok)
	})

	t.Run("virtualized", func(t *testing.T) {
		cfg := schema.Config{DataTable: &schema.DataTable{PhysicalTable: "entities", TableField: "entity_type"}}
		physical, discriminator, ok := cfg.PhysicalTable("widgets")
		assert.True(t, ok)
		assert.Equal(t, "entities", physical)
		assert.Equal(t, "widgets", discriminator)
		assert.Equal(t, "entity_type", cfg.DataTable.DiscriminatorField())
	})

	t.Run("nil DataTable discriminator field", func(t *testing.T) {
		var dt *schema.DataTable
		assert.Equal(t, "", dt.DiscriminatorField())
	})
}
