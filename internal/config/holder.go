// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/xtreamgate/xtreamgate/internal/log"
)

// Holder holds the current settings with atomic reloading. It provides
// thread-safe access and supports hot reload from the settings file (via
// fsnotify) or in-process updates through Update.
type Holder struct {
	mu      sync.RWMutex
	current Settings
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
}

// NewHolder creates a settings holder with the given initial settings.
// path may be empty when no settings file is used.
func NewHolder(initial Settings, path string) *Holder {
	return &Holder{
		current: initial,
		path:    path,
		logger:  log.WithComponent("config"),
	}
}

// Current returns the current settings (thread-safe read).
func (h *Holder) Current() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Upstream returns the current upstream account.
func (h *Holder) Upstream() Upstream {
	return h.Current().Xtream
}

// FilterPrefixes returns the current prefix allow-lists.
func (h *Holder) FilterPrefixes() Filters {
	return h.Current().Filters
}

// Update mutates a copy of the current settings, validates it, persists it
// to the settings file and swaps it in. Either the full new settings apply
// or the old ones remain unchanged.
func (h *Holder) Update(mutate func(*Settings)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.current
	mutate(&next)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}
	if h.path != "" {
		if err := SaveSettings(h.path, next); err != nil {
			return err
		}
	}
	h.current = next
	h.logger.Info().Str("event", "settings.updated").Msg("settings updated")
	return nil
}

// Reload reloads the settings from file. On load or validation failure the
// old settings are kept and an error is returned.
func (h *Holder) Reload(_ context.Context) error {
	next, err := LoadSettings(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("event", "settings.reload_failed").Msg("failed to reload settings")
		return err
	}

	h.mu.Lock()
	h.current = next
	h.mu.Unlock()

	h.logger.Info().Str("event", "settings.reload_success").Msg("settings reloaded")
	return nil
}

// StartWatcher starts watching the settings file for changes. A no-op when
// no settings file is configured.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.path == "" {
		h.logger.Info().Str("event", "settings.watcher_disabled").Msg("settings watcher disabled")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(h.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch settings file: %w", err)
	}
	h.watcher = watcher

	h.logger.Info().Str("event", "settings.watcher_started").Str("path", h.path).Msg("watching settings file")
	go h.watchLoop(ctx)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context) {
	// Debounce so editors that write in several steps trigger one reload.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			_ = h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					_ = h.Reload(ctx)
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Str("event", "settings.watcher_error").Msg("settings watcher error")
		}
	}
}

// Stop stops the settings watcher if one is running.
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}
