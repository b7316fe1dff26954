// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"errors"
	"fmt"
)

// ErrLoadFailed marks any error caused by a failed snapshot load. Callers
// match it with errors.Is and must not surface the wrapped cause to API
// consumers; the cause is for logs only.
var ErrLoadFailed = errors.New("dataset load failed")

// Kind names an entity table for error messages.
type Kind string

const (
	KindProvider Kind = "provider"
	KindClient   Kind = "client"
)

// NotFoundError reports an identifier absent from the relevant table, or a
// provider whose client relationship resolves to an empty set. It is a
// structured result, not a fault: every query that can miss returns one
// instead of panicking or logging.
type NotFoundError struct {
	Kind Kind
	ID   string

	// Hint optionally qualifies the miss, e.g. that a stats record may be
	// absent even though the entity itself exists.
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s %s not found (%s)", e.Kind, e.ID, e.Hint)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
