// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package errs holds every sentinel error the compiler can return, shared
// by every internal package so errors.Is works all the way from a
// validate/ast/compile leaf up through the sdql facade. It mirrors
// hashicorp/mql's error.go, split into the taxonomy spec §7 names
// explicitly: schema errors, validation errors, semantic errors, and
// internal invariants.
package errs

import "errors"

// Schema errors: the query references something the Config does not allow.
var (
	ErrUnknownTable        = errors.New("unknown table")
	ErrDisallowedField     = errors.New("disallowed field")
	ErrMissingRequired     = errors.New("missing required field")
	ErrUnknownFunction     = errors.New("unknown function")
	ErrEmptySelection      = errors.New("empty selection")
	ErrUnknownRelationship = errors.New("unknown relationship")
)

// Validation errors: the shape of an AST node itself is malformed.
var (
	ErrInvalidUUID         = errors.New("invalid uuid literal")
	ErrInvalidDate         = errors.New("invalid date literal")
	ErrInvalidTimestamp    = errors.New("invalid timestamp literal")
	ErrInvalidFieldPath    = errors.New("invalid field path")
	ErrInvalidComparisonOp = errors.New("invalid comparison operator")
	ErrInvalidLogicalOp    = errors.New("invalid logical operator shape")
	ErrInvalidConditional  = errors.New("invalid conditional expression")
	ErrInvalidExists       = errors.New("invalid $exists clause")
	ErrInvalidParameter    = errors.New("invalid parameter")
)

// Semantic errors: the shape is valid but evaluates to something illegal.
var (
	ErrEmptyLogicalArgs     = errors.New("$and/$or requires a non-empty array")
	ErrConditionNotMet      = errors.New("condition not met")
	ErrForbiddenNewRow      = errors.New("FORBIDDEN_EXISTING_ROW_EVALUATION_ON_INSERT")
	ErrNewRowOutsideContext = errors.New("NEW_ROW reference outside an insert/update condition")
)

// Internal invariants: these indicate a compiler bug, not a bad query.
var (
	ErrInternal          = errors.New("internal error")
	ErrTypeMapCollision  = errors.New("internal error: type map collision")
	ErrUnknownASTVariant = errors.New("internal error: unknown ast variant")
)
