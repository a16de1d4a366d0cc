// Copyright (c) HashiCorp, Inc.

package schema

// PhysicalTable returns the single physical table a logical table name
// resolves to when the Config enables data-table virtualization, along
// with the discriminator value to filter on. ok is false when DataTable
// is not configured, meaning table is already a physical table name.
func (c Config) PhysicalTable(table string) (physical, discriminator string, ok bool) {
	if c.DataTable == nil {
		return "", "", false
	}
	return c.DataTable.PhysicalTable, table, true
}

// DiscriminatorField returns the column name used to select a logical
// table's rows out of the shared physical table.
func (d *DataTable) DiscriminatorField() string {
	if d == nil {
		return ""
	}
	return d.TableField
}
