// Copyright (c) HashiCorp, Inc.

package validate_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/validate"
	"github.com/stretchr/testify/assert"
)

func TestIsUUID(t *testing.T) {
	assert.True(t, validate.IsUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, validate.IsUUID("not-a-uuid"))
	assert.False(t, validate.IsUUID(""))
	assert.False(t, validate.IsUUID("550e8400e29b41d4a716446655440000"))
}

func TestIsDate(t *testing.T) {
	assert.True(t, validate.IsDate("2024-02-29"), "2024 is a leap year")
	assert.False(t, validate.IsDate("2023-02-29"), "2023 is not a leap year")
	assert.False(t, validate.IsDate("2024-13-01"))
	assert.False(t, validate.IsDate("not-a-date"))
}

func TestIsTimestamp(t *testing.T) {
	assert.True(t, validate.IsTimestamp("2024-01-02T03:04:05"))
	assert.True(t, validate.IsTimestamp("2024-01-02T03:04:05.123"))
	assert.False(t, validate.IsTimestamp("2024-01-02T03:04:05Z"), "no timezone suffix allowed")
	assert.False(t, validate.IsTimestamp("2024-01-02 03:04:05"))
}

func TestIsFunctionName(t *testing.T) {
	assert.True(t, validate.IsFunctionName("UPPER"))
	assert.True(t, validate.IsFunctionName("EXTRACT_EPOCH"))
	assert.False(t, validate.IsFunctionName("upper"))
	assert.False(t, validate.IsFunctionName("1UPPER"))
}

func TestIsFieldPath(t *testing.T) {
	assert.True(t, validate.IsFieldPath("users.id"))
	assert.True(t, validate.IsFieldPath("posts->tags->name"))
	assert.True(t, validate.IsFieldPath("NEW_ROW.age"))
	assert.False(t, validate.IsFieldPath(""))
	assert.False(t, validate.IsFieldPath("users."))
	assert.False(t, validate.IsFieldPath(".id"))
}
