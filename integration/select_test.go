// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package integration

import (
	"context"
	"testing"

	sdql "github.com/hashicorp/go-sdql"
	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/require"
)

func usersOrdersConfig() schema.Config {
	return schema.New(schema.Config{
		Dialect: "sqlite-minimal",
		Tables: map[string]schema.TableConfig{
			"users": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "name", Type: schema.TypeString},
				{Name: "email", Type: schema.TypeString, Nullable: true},
				{Name: "age", Type: schema.TypeNumber},
				{Name: "created_at", Type: schema.TypeDatetime},
			}},
			"orders": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "user_id", Type: schema.TypeUUID},
				{Name: "total", Type: schema.TypeNumber},
			}},
		},
		Relationships: []schema.Relationship{
			{FromTable: "orders", FromField: "user_id", ToTable: "users", ToField: "id", Kind: schema.ManyToOne},
		},
	})
}

func TestIntegration_selectWithFieldConditionAndPagination(t *testing.T) {
	db := setupDB(t)
	cfg := usersOrdersConfig()
	ctx := context.Background()

	sqlDB, err := db.SqlDB(ctx)
	require.NoError(t, err)

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO users (id, name, email, age, created_at) VALUES
		('11111111-1111-1111-1111-111111111111', 'alice', 'alice@example.com', 30, '2024-01-01T00:00:00Z'),
		('22222222-2222-2222-2222-222222222222', 'bob', 'bob@example.com', 20, '2024-01-02T00:00:00Z'),
		('33333333-3333-3333-3333-333333333333', 'carol', 'carol@example.com', 40, '2024-01-03T00:00:00Z')`)
	require.NoError(t, err)

	raw := map[string]any{
		"rootTable": "users",
		"selection": map[string]any{"id": true, "name": true},
		"condition": map[string]any{"age": map[string]any{"$gt": 18.0}},
	}
	result, err := sdql.BuildSelect(raw, cfg)
	require.NoError(t, err)

	rows, err := sqlDB.QueryContext(ctx, result.SQL, result.Params...)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var id, name string
		require.NoError(t, rows.Scan(&id, &name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	require.ElementsMatch(t, []string{"alice", "carol"}, names)
}

func TestIntegration_selectJoinAcrossRelationship(t *testing.T) {
	db := setupDB(t)
	cfg := usersOrdersConfig()
	ctx := context.Background()

	sqlDB, err := db.SqlDB(ctx)
	require.NoError(t, err)

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO users (id, name, email, age, created_at) VALUES
		('11111111-1111-1111-1111-111111111111', 'alice', 'alice@example.com', 30, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = sqlDB.ExecContext(ctx, `INSERT INTO orders (id, user_id, total) VALUES
		('aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa', '11111111-1111-1111-1111-111111111111', 100)`)
	require.NoError(t, err)

	raw := map[string]any{
		"rootTable": "orders",
		"selection": map[string]any{"id": true, "users": map[string]any{"name": true}},
	}
	result, err := sdql.BuildSelect(raw, cfg)
	require.NoError(t, err)

	rows, err := sqlDB.QueryContext(ctx, result.SQL, result.Params...)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var id, name string
	require.NoError(t, rows.Scan(&id, &name))
	require.Equal(t, "alice", name)
}
