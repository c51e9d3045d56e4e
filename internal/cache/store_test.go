// SPDX-License-Identifier: MIT

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap := NewSnapshot(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	var it catalog.Item
	require.NoError(t, json.Unmarshal([]byte(`{"stream_id":1,"category_id":"1","category_name":"EN | Movies","name":"A"}`), &it))
	var cat catalog.Category
	require.NoError(t, json.Unmarshal([]byte(`{"category_id":"1","category_name":"EN | Movies"}`), &cat))
	snap.Data[catalog.VOD] = []catalog.Item{it}
	snap.Categories[catalog.VOD] = []catalog.Category{cat}
	return snap
}

func TestStoreSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	want := testSnapshot(t)

	require.NoError(t, store.Save(want))
	got := store.Load()
	require.NotNil(t, got)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot changed across save/load (-want +got):\n%s", diff)
	}
}

func TestStoreLoad_MissingFileIsAbsent(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.Nil(t, store.Load())
}

func TestStoreLoad_CorruptFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"meta": trunca`), 0o644))
	assert.Nil(t, store.Load())
}

func TestStoreSave_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewStore(dir)
	require.NoError(t, store.Save(testSnapshot(t)))
	require.NotNil(t, store.Load())
}

func TestSnapshotAccessors_NeverNil(t *testing.T) {
	snap := NewSnapshot(time.Now())
	assert.NotNil(t, snap.Items(catalog.Live))
	assert.NotNil(t, snap.CategoryList(catalog.Series))
	assert.Empty(t, snap.Items(catalog.VOD))
}
