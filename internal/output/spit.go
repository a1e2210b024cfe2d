// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package output renders one-shot command results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Spit writes payload as indented JSON. Umlauts in MVG data stay
// readable, so HTML escaping is off.
func Spit(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return nil
}
