// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package integration runs compiled SDQL statements against a real SQLite
// database through go-dbw, the way the mql test suite exercises mql.Parse
// output against a real Postgres database: compile the SQL with the
// sdql facade, hand it to a dbw.Writer, and assert on the rows that come
// back rather than on the SQL text.
package integration

import (
	"context"
	"testing"

	"github.com/hashicorp/go-dbw"
	"github.com/stretchr/testify/require"
)

const testCreateTablesSQLite = `
CREATE TABLE users (
	id TEXT PRIMARY KEY,
	name TEXT,
	email TEXT,
	age INTEGER,
	created_at TEXT
);
CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	total INTEGER
);
`

// setupDB opens an in-memory SQLite database through go-dbw and creates the
// fixture tables. Each call gets its own private database (rather than the
// shared-cache DSN the teacher's Postgres suite uses against one long-lived
// server) since modernc.org/sqlite's ":memory:" is already process-local.
func setupDB(t *testing.T) *dbw.DB {
	t.Helper()

	db, err := dbw.Open(dbw.Sqlite, "file::memory:")
	require.NoError(t, err)

	rw := dbw.New(db)
	_, err = rw.Exec(context.Background(), testCreateTablesSQLite, nil)
	require.NoError(t, err)

	return db
}
