// Copyright (c) HashiCorp, Inc.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_toml(t *testing.T) {
	path := writeTempFile(t, "schema.toml", `
dialect = "postgresql"

[tables.users]
[[tables.users.fields]]
name = "id"
type = "uuid"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.HasTable("users"))
}

func TestLoadConfig_unrecognizedExtension(t *testing.T) {
	path := writeTempFile(t, "schema.ini", "dialect=postgresql")
	_, err := loadConfig(path)
	require.Error(t, err)
}

func TestCompileQuery_select(t *testing.T) {
	cfg := schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"users": {AllowedFields: []schema.Field{{Name: "id", Type: schema.TypeUUID}}},
		},
	})
	raw := map[string]any{
		"rootTable": "users",
		"selection": map[string]any{"id": true},
	}
	sql, params, err := compileQuery("select", raw, cfg)
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT")
	assert.Empty(t, params)
}

func TestCompileQuery_unknownKind(t *testing.T) {
	_, _, err := compileQuery("bogus", map[string]any{}, schema.Config{})
	require.Error(t, err)
}
