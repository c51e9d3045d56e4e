// SPDX-License-Identifier: MIT

// Package catalog holds the data model for upstream media catalogs:
// content types, loosely-typed catalog records and the prefix filter.
package catalog

// ContentType identifies one of the three upstream catalogs.
//
// ContentType provides type safety for catalog handling, preventing
// string-based typos and enabling exhaustive switch statements.
type ContentType string

const (
	// Live identifies the live channel catalog.
	Live ContentType = "live"

	// VOD identifies the video-on-demand catalog.
	VOD ContentType = "vod"

	// Series identifies the series catalog.
	Series ContentType = "series"
)

// String returns the string representation of the content type.
func (t ContentType) String() string {
	return string(t)
}

// IsValid checks whether the content type is one of the defined constants.
func (t ContentType) IsValid() bool {
	switch t {
	case Live, VOD, Series:
		return true
	default:
		return false
	}
}

// HasDetail reports whether the content type has a per-item detail endpoint.
// Only VOD and series do; live channels carry no extended metadata.
func (t ContentType) HasDetail() bool {
	return t == VOD || t == Series
}

// IDField returns the JSON field carrying the provider-assigned item id.
func (t ContentType) IDField() string {
	if t == Series {
		return "series_id"
	}
	return "stream_id"
}

// StreamAction returns the player_api action that lists this catalog's items.
func (t ContentType) StreamAction() string {
	switch t {
	case VOD:
		return "get_vod_streams"
	case Series:
		return "get_series"
	default:
		return "get_live_streams"
	}
}

// CategoryAction returns the player_api action that lists this catalog's categories.
func (t ContentType) CategoryAction() string {
	switch t {
	case VOD:
		return "get_vod_categories"
	case Series:
		return "get_series_categories"
	default:
		return "get_live_categories"
	}
}

// All returns the content types in the fixed refresh order.
// The order is not semantically required but keeps refresh runs reproducible.
func All() []ContentType {
	return []ContentType{Live, VOD, Series}
}
