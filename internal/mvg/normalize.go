// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package mvg

import (
	"github.com/tidwall/gjson"
)

// Incident is one upstream disruption record. The upstream schema is not
// guaranteed, so records stay open-ended maps and consumers probe keys
// defensively.
type Incident map[string]interface{}

// TypeIncident is the message type retained by Normalize. Everything else
// (INFO, SCHEDULE_CHANGE, ...) is dropped.
const TypeIncident = "INCIDENT"

// containerKeys are probed in priority order when the payload is an
// object instead of a bare array.
var containerKeys = []string{"messages", "data", "items", "results"}

// Normalize extracts the incident records from a raw upstream payload.
// Recognized shapes: a bare array, an object carrying the message list
// under one of containerKeys, or a single message object with a "type"
// field. Anything else yields an empty list. Normalize never fails on
// malformed input.
func Normalize(raw gjson.Result) []Incident {
	messages := candidateMessages(raw)

	//nolint:prealloc // Don't prealloc; most messages are filtered out.
	var incidents []Incident
	for _, msg := range messages {
		if !msg.IsObject() {
			continue
		}
		if msg.Get("type").Str != TypeIncident {
			continue
		}
		if m, ok := msg.Value().(map[string]interface{}); ok {
			incidents = append(incidents, Incident(m))
		}
	}

	return incidents
}

// NormalizeBytes is Normalize over an undecoded body.
func NormalizeBytes(body []byte) []Incident {
	return Normalize(gjson.ParseBytes(body))
}

// candidateMessages resolves the message list from whichever container
// shape the payload happens to use.
func candidateMessages(raw gjson.Result) []gjson.Result {
	if raw.IsArray() {
		return raw.Array()
	}

	if raw.IsObject() {
		for _, key := range containerKeys {
			if candidate := raw.Get(key); candidate.IsArray() {
				return candidate.Array()
			}
		}
		// No known container key. If the object itself looks like a
		// single message, treat it as a one-element list.
		if raw.Get("type").Exists() {
			return []gjson.Result{raw}
		}
	}

	return nil
}
