// Copyright (c) HashiCorp, Inc.

package dialect_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestResolve(t *testing.T) {
	tests := []struct {
		raw     string
		want    dialect.Name
		wantErr bool
	}{
		{raw: "postgresql", want: dialect.PostgreSQL},
		{raw: "sqlite-minimal", want: dialect.SQLiteMinimal},
		{raw: "sqlite-extensions", want: dialect.SQLiteExtensions},
		{raw: "sqlite-3.44-minimal", want: dialect.SQLiteMinimal},
		{raw: "sqlite-3.44-extensions", want: dialect.SQLiteExtensions},
		{raw: "sqlite-3.44", want: dialect.SQLiteExtensions},
		{raw: "mysql", wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			ops, err := dialect.Resolve(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ops.Name())
		})
	}
}

func TestPostgres_JSONAccess(t *testing.T) {
	ops, err := dialect.Resolve("postgresql")
	require.NoError(t, err)

	assert.Equal(t, `col->'a'->>'b'`, ops.JSONAccess("col", []string{"a", "b"}, true))
	assert.Equal(t, `col->'a'->'b'`, ops.JSONAccess("col", []string{"a", "b"}, false))
}

func TestSQLite_JSONAccess(t *testing.T) {
	ops, err := dialect.Resolve("sqlite-minimal")
	require.NoError(t, err)

	assert.Equal(t, `CAST(json_extract(col, '$.a.b') AS TEXT)`, ops.JSONAccess("col", []string{"a", "b"}, true))
	assert.Equal(t, `json_extract(col, '$.a.b')`, ops.JSONAccess("col", []string{"a", "b"}, false))
}

func TestSQLite_LimitClause_offsetOnlyNeedsLimitSentinel(t *testing.T) {
	ops, err := dialect.Resolve("sqlite-minimal")
	require.NoError(t, err)

	assert.Equal(t, "LIMIT -1 OFFSET 5", ops.LimitClause(nil, intPtr(5)))
	assert.Equal(t, "LIMIT 10", ops.LimitClause(intPtr(10), nil))
	assert.Equal(t, "LIMIT 10 OFFSET 5", ops.LimitClause(intPtr(10), intPtr(5)))
	assert.Equal(t, "", ops.LimitClause(nil, nil))
}

func TestPostgres_LimitClause_offsetOnlyIsPlainSQL(t *testing.T) {
	ops, err := dialect.Resolve("postgresql")
	require.NoError(t, err)

	assert.Equal(t, "OFFSET 5", ops.LimitClause(nil, intPtr(5)))
}

func TestPlaceholder(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	assert.Equal(t, "$3", pg.Placeholder(3))

	lite, err := dialect.Resolve("sqlite-extensions")
	require.NoError(t, err)
	assert.Equal(t, "?", lite.Placeholder(3))
}

func TestRenderFunc_dialectSpecificTemporal(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	sql, err := pg.RenderFunc("EXTRACT_EPOCH", []string{"orders.created_at"})
	require.NoError(t, err)
	assert.Equal(t, "EXTRACT(EPOCH FROM orders.created_at)", sql)

	lite, err := dialect.Resolve("sqlite-minimal")
	require.NoError(t, err)
	sql, err = lite.RenderFunc("EXTRACT_EPOCH", []string{"orders.created_at"})
	require.NoError(t, err)
	assert.Equal(t, "CAST(strftime('%s', orders.created_at) AS INTEGER)", sql)
}

func TestRenderFunc_sharedAcrossDialects(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	sql, err := pg.RenderFunc("UPPER", []string{"users.name"})
	require.NoError(t, err)
	assert.Equal(t, "UPPER(users.name)", sql)

	_, err = pg.RenderFunc("UPPER", []string{"a", "b"})
	require.Error(t, err)
}

func TestRenderFunc_unknownFunction(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	_, err = pg.RenderFunc("DROP_TABLE", nil)
	require.Error(t, err)
}

func TestQuoteIdent_escapesEmbeddedQuote(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	assert.Equal(t, `"a""b"`, pg.QuoteIdent(`a"b`))
}

func TestCast(t *testing.T) {
	pg, err := dialect.Resolve("postgresql")
	require.NoError(t, err)
	assert.Equal(t, "(users.id)::TEXT", pg.Cast("users.id", "TEXT"))

	lite, err := dialect.Resolve("sqlite-minimal")
	require.NoError(t, err)
	assert.Equal(t, "CAST(users.id AS TEXT)", lite.Cast("users.id", "TEXT"))
}
