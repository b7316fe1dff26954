// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation for identifiers arriving on
// the public API surface.
//
// Record identifiers are caller-controlled path parameters that end up in
// log lines and error messages. Validating them up front keeps control
// characters out of the logs and rejects absurd inputs before they reach
// the query layer.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxIDLength bounds identifier length. Registry identifiers are short
// opaque tokens; anything longer is noise or abuse.
const MaxIDLength = 128

// idPattern matches registry record identifiers: alphanumerics plus the
// separator characters that appear in real registry ids (dots, hyphens,
// underscores, colons).
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:\-]*$`)

// ValidateID checks a record identifier.
//
// Valid identifiers:
//   - 1 to MaxIDLength characters
//   - start with an alphanumeric
//   - contain only alphanumerics, dots, hyphens, underscores, and colons
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("identifier exceeds %d characters", MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("malformed identifier %q", id)
	}
	return nil
}

// SanitizeID trims surrounding whitespace and validates the result.
// Returns the trimmed identifier if valid.
func SanitizeID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if err := ValidateID(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
