// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

// Upstream identifies the proxied provider account.
type Upstream struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Filters holds the allow-list category-name prefixes per content type.
// An empty list means the content type passes through unfiltered.
type Filters struct {
	Live   []string `json:"live"`
	VOD    []string `json:"vod"`
	Series []string `json:"series"`
}

// For returns the prefixes configured for the given content type.
func (f Filters) For(t catalog.ContentType) []string {
	switch t {
	case catalog.VOD:
		return f.VOD
	case catalog.Series:
		return f.Series
	default:
		return f.Live
	}
}

// Settings is the operator-editable configuration, persisted as JSON in the
// same shape the original config file used.
type Settings struct {
	Xtream  Upstream `json:"xtream"`
	Filters Filters  `json:"filters"`
}

// Validate checks that the settings are usable. Invalid settings are never
// applied; the previous ones stay in effect.
func (s Settings) Validate() error {
	base := strings.TrimSpace(s.Xtream.BaseURL)
	if base == "" {
		return fmt.Errorf("xtream base URL is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid xtream base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported xtream base URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("xtream base URL %q is missing host", base)
	}
	return nil
}

// LoadSettings reads and validates the settings file.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("validate settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes the settings file atomically.
func SaveSettings(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// SplitPrefixes parses a comma-separated prefix list, dropping empty entries.
func SplitPrefixes(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
