// Copyright (c) HashiCorp, Inc.

// Package validate implements spec §4.1's validators: UUID, DATE,
// TIMESTAMP literal shape checks plus field-name and function-name form
// checks, each returning a plain bool so callers can build their own
// diagnostics around a failure.
package validate

import "github.com/google/uuid"

// IsUUID reports whether s is a canonical 8-4-4-4-12 hex UUID, matching
// spec §4.1's case-insensitive UUID grammar. The 36-character length check
// limits input to the canonical dashed form (google/uuid's Parse also
// accepts braced, urn: and undashed forms), and Parse then checks the
// dash positions and hex digits rather than a hand-rolled regex.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
