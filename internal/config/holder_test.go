// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_UpdatePersistsAndSwaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	h := NewHolder(sampleSettings(), path)

	require.NoError(t, h.Update(func(s *Settings) {
		s.Xtream.Username = "changed"
		s.Filters.VOD = []string{"FR"}
	}))

	assert.Equal(t, "changed", h.Upstream().Username)
	assert.Equal(t, []string{"FR"}, h.FilterPrefixes().VOD)

	// the file on disk reflects the new settings
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "changed", loaded.Xtream.Username)
}

func TestHolder_UpdateInvalidKeepsOldSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	h := NewHolder(sampleSettings(), path)

	err := h.Update(func(s *Settings) {
		s.Xtream.BaseURL = "not a url"
	})
	require.Error(t, err)

	assert.Equal(t, "http://origin.example:8080", h.Upstream().BaseURL)
	// nothing was written
	_, statErr := LoadSettings(path)
	assert.Error(t, statErr)
}

func TestHolder_UpdateWithoutPathSkipsPersistence(t *testing.T) {
	h := NewHolder(sampleSettings(), "")
	require.NoError(t, h.Update(func(s *Settings) {
		s.Xtream.Password = "rotated"
	}))
	assert.Equal(t, "rotated", h.Upstream().Password)
}

func TestHolder_ReloadFailureKeepsOldSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveSettings(path, sampleSettings()))
	h := NewHolder(sampleSettings(), path)

	require.NoError(t, SaveSettings(path, Settings{})) // invalid: no base URL
	assert.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "u", h.Upstream().Username)
}

func TestHolder_WatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveSettings(path, sampleSettings()))
	h := NewHolder(sampleSettings(), path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	next := sampleSettings()
	next.Xtream.Username = "watched"
	data, err := json.MarshalIndent(next, "", "  ")
	require.NoError(t, err)
	// write in place, like an editor would
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.Eventually(t, func() bool {
		return h.Upstream().Username == "watched"
	}, 3*time.Second, 25*time.Millisecond)
}
