// SPDX-License-Identifier: MIT

package detail

import (
	"encoding/json"
	"strings"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

// targetField names the upstream sub-structure the cached basic record is
// merged into. The asymmetry is part of the wire contract: VOD players read
// movie_data, series players read info.
func targetField(t catalog.ContentType) string {
	if t == catalog.Series {
		return "info"
	}
	return "movie_data"
}

// fillMissing copies each basic-record field into payload[field], but only
// where the upstream value is absent or empty. Upstream non-empty values
// always win; the basic record only fills gaps.
func fillMissing(payload map[string]json.RawMessage, field string, basic catalog.Item) {
	sub := map[string]json.RawMessage{}
	if raw, ok := payload[field]; ok {
		if err := json.Unmarshal(raw, &sub); err != nil || sub == nil {
			sub = map[string]json.RawMessage{}
		}
	}
	for k, v := range basic {
		if isEmptyJSON(sub[k]) {
			sub[k] = v
		}
	}
	merged, err := json.Marshal(sub)
	if err != nil {
		return
	}
	payload[field] = merged
}

// isEmptyJSON reports whether a raw JSON value is absent or falsy:
// null, empty string, zero, false, empty array or empty object.
func isEmptyJSON(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", `""`, "0", "0.0", "false", "[]", "{}":
		return true
	default:
		return false
	}
}
