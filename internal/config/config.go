// SPDX-License-Identifier: MIT

// Package config provides process configuration from the environment plus
// the operator-editable settings file (upstream account and filter prefixes)
// with validation and hot reload.
package config

import "time"

// App holds process-level configuration sourced from the environment.
// The upstream account and filter prefixes live in the settings file instead
// so they can change at runtime without a restart.
type App struct {
	Listen       string // HTTP listen address
	DataDir      string // directory for the snapshot file
	SettingsPath string // path to the JSON settings file
	LogLevel     string

	// CatalogTimeout bounds one upstream catalog download. Large providers
	// ship six-figure item lists, so this is deliberately generous.
	CatalogTimeout time.Duration

	// DetailTimeout bounds one on-demand detail fetch. Detail lookups sit on
	// the request path and fail soft, so this is kept short.
	DetailTimeout time.Duration

	// RefreshTimeout bounds a whole refresh cycle across all content types.
	RefreshTimeout time.Duration

	RefreshOnStart bool // trigger one refresh at boot
	WatchSettings  bool // hot-reload the settings file via fsnotify

	RateLimitRPS   int // inbound API rate limit per client IP
	RateLimitBurst int

	UpstreamRPS float64 // outbound request rate towards the provider, 0 = unlimited
}

// FromEnv builds the App configuration from XTG_* environment variables,
// applying defaults for anything unset.
func FromEnv() App {
	return App{
		Listen:         ParseString("XTG_LISTEN", ":8000"),
		DataDir:        ParseString("XTG_DATA_DIR", "data"),
		SettingsPath:   ParseString("XTG_SETTINGS", "config.json"),
		LogLevel:       ParseString("XTG_LOG_LEVEL", ""),
		CatalogTimeout: ParseDuration("XTG_CATALOG_TIMEOUT", 300*time.Second),
		DetailTimeout:  ParseDuration("XTG_DETAIL_TIMEOUT", 60*time.Second),
		RefreshTimeout: ParseDuration("XTG_REFRESH_TIMEOUT", 15*time.Minute),
		RefreshOnStart: ParseBool("XTG_REFRESH_ON_START", false),
		WatchSettings:  ParseBool("XTG_WATCH_SETTINGS", true),
		RateLimitRPS:   ParseInt("XTG_RATE_LIMIT_RPS", 50),
		RateLimitBurst: ParseInt("XTG_RATE_LIMIT_BURST", 100),
		UpstreamRPS:    float64(ParseInt("XTG_UPSTREAM_RPS", 0)),
	}
}
