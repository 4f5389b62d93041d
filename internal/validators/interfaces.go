// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the payloads accepted by the feed API before
// they reach storage.
//
// A Validator validates a value and may be restricted to a subset of its
// fields by name. Services translate the returned errors into their own
// business errors.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
