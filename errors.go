// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sdql

import "github.com/hashicorp/go-sdql/errs"

// Every error a build_* facade function can return is one of these
// sentinels (or wraps one of them with %w), so callers can use errors.Is
// against the public names below regardless of which internal package
// produced the failure. See errs/errors.go for the full taxonomy.
var (
	ErrUnknownTable        = errs.ErrUnknownTable
	ErrDisallowedField     = errs.ErrDisallowedField
	ErrMissingRequired     = errs.ErrMissingRequired
	ErrUnknownFunction     = errs.ErrUnknownFunction
	ErrEmptySelection      = errs.ErrEmptySelection
	ErrUnknownRelationship = errs.ErrUnknownRelationship

	ErrInvalidUUID         = errs.ErrInvalidUUID
	ErrInvalidDate         = errs.ErrInvalidDate
	ErrInvalidTimestamp    = errs.ErrInvalidTimestamp
	ErrInvalidFieldPath    = errs.ErrInvalidFieldPath
	ErrInvalidComparisonOp = errs.ErrInvalidComparisonOp
	ErrInvalidLogicalOp    = errs.ErrInvalidLogicalOp
	ErrInvalidConditional  = errs.ErrInvalidConditional
	ErrInvalidExists       = errs.ErrInvalidExists
	ErrInvalidParameter    = errs.ErrInvalidParameter

	ErrEmptyLogicalArgs     = errs.ErrEmptyLogicalArgs
	ErrConditionNotMet      = errs.ErrConditionNotMet
	ErrForbiddenNewRow      = errs.ErrForbiddenNewRow
	ErrNewRowOutsideContext = errs.ErrNewRowOutsideContext

	ErrInternal          = errs.ErrInternal
	ErrTypeMapCollision  = errs.ErrTypeMapCollision
	ErrUnknownASTVariant = errs.ErrUnknownASTVariant
)
