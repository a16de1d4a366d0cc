/*
Package sdql compiles a structured, JSON-shaped query description language
(SDQL) into executable SQL for PostgreSQL and two SQLite profiles.

A caller describes the tables, fields, relationships, runtime variables and
target dialect it is willing to expose as a schema.Config, then hands the
package a JSON-decoded query, which is recognized into the small set of AST
variants in the ast sub-package: field references, literals, function
calls, conditionals and boolean conditions. The compiler validates every
field path and function name against the Config, synthesizes any JOINs a
relationship traversal needs, and emits SQL text: SELECT and aggregation
statements carry their values as placeholders plus a params list, while
INSERT/UPDATE/DELETE embed their values as literals. Identifiers in the
emitted SQL are always drawn from the Config; SDQL never accepts free-form
SQL.

	result, err := sdql.BuildSelect(map[string]any{
		"rootTable": "users",
		"selection": map[string]any{"id": true, "name": true},
		"condition": map[string]any{
			"users.id": map[string]any{"$eq": map[string]any{"$uuid": "550e8400-e29b-41d4-a716-446655440000"}},
		},
	}, config)

Mutations (INSERT/UPDATE/DELETE) additionally run their condition through a
partial evaluator against the supplied new-row values before any SQL is
emitted; see the compile package for details.

SDQL does not execute SQL and does not model result sets — it produces text
and parameters only, and leaves execution to the host application's own
database driver.
*/
package sdql
