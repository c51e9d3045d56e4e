// SPDX-License-Identifier: MIT

package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Item is one live channel, VOD title or series entry as emitted by the
// upstream provider. Providers attach an open-ended set of fields, and even
// the identifiers arrive as either JSON numbers or strings, so the record is
// kept as a raw field bag and re-emitted verbatim; typed accessors cover the
// handful of fields this system interprets.
type Item map[string]json.RawMessage

// ID returns the provider-assigned numeric identifier for the given content
// type. The second return is false when the field is missing or not coercible
// to an integer.
func (it Item) ID(t ContentType) (int64, bool) {
	return asInt(it[t.IDField()])
}

// CategoryID returns the canonical string form of the item's category id,
// or "" when absent.
func (it Item) CategoryID() string {
	return asString(it["category_id"])
}

// CategoryName returns the item's category display name, or "" when absent.
func (it Item) CategoryName() string {
	return asString(it["category_name"])
}

// SetCategoryName overwrites the item's category display name.
func (it Item) SetCategoryName(name string) {
	b, _ := json.Marshal(name)
	it["category_name"] = b
}

// Name returns the item's own name field, or "" when absent. Some providers
// put the category text here instead of category_name.
func (it Item) Name() string {
	return asString(it["name"])
}

// Category is one upstream category record, scoped to a single content type.
// Like Item it is a raw field bag re-emitted verbatim.
type Category map[string]json.RawMessage

// ID returns the canonical string form of the category id, or "" when absent.
func (c Category) ID() string {
	return asString(c["category_id"])
}

// Name returns the category display name, or "" when absent.
func (c Category) Name() string {
	return asString(c["category_name"])
}

// asInt coerces a raw JSON value to an integer. Providers emit ids as
// numbers, numeric strings or occasionally floats; anything else fails.
func asInt(raw json.RawMessage) (int64, bool) {
	s := asString(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// asString coerces a raw JSON scalar to its text form: strings are unquoted,
// numbers keep their decimal representation, everything else yields "".
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return ""
	}
	// Bare JSON numbers and floats: normalise integral floats to their
	// integer text so map keys like category_id compare consistently.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return trimmed
}
