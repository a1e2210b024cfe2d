// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package mvg

import (
	"fmt"
	"math"
	"time"
)

// timestampFields are the millisecond-epoch fields that get a derived
// "<field>_readable" companion.
var timestampFields = []string{"publication", "validFrom", "validTo"}

// timestampFormat renders local time as DD.MM.YYYY HH:MM.
const timestampFormat = "02.01.2006 15:04"

// Bounds for representable timestamps (years 1 through 9999), in epoch
// seconds. Anything outside falls back to the raw numeric string.
const (
	minEpochSeconds = -62135596800
	maxEpochSeconds = 253402300799
)

// Enrich returns a copy of the incident with a "<field>_readable" entry
// for each timestamp field that is present as an integer. The input is
// never mutated and already-present keys are never replaced by derived
// ones.
func Enrich(incident Incident) Incident {
	enriched := make(Incident, len(incident)+len(timestampFields))
	for k, v := range incident {
		enriched[k] = v
	}

	for _, field := range timestampFields {
		v, ok := enriched[field]
		if !ok {
			continue
		}
		ms, ok := asEpochMillis(v)
		if !ok {
			continue
		}
		enriched[field+"_readable"] = FormatTimestamp(ms)
	}

	return enriched
}

// FormatTimestamp converts Unix milliseconds to a local-time string. Out
// of range values come back as their decimal representation instead.
func FormatTimestamp(ms int64) string {
	seconds := ms / 1000
	if seconds < minEpochSeconds || seconds > maxEpochSeconds {
		return fmt.Sprintf("%d", ms)
	}
	return time.UnixMilli(ms).Format(timestampFormat)
}

// asEpochMillis reports whether v is an integer-valued number. JSON
// decoding yields float64, so integral floats count; fractional values
// and non-numbers do not.
func asEpochMillis(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
