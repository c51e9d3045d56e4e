// SPDX-License-Identifier: MIT

package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

func mustItem(t *testing.T, body string) catalog.Item {
	t.Helper()
	var it catalog.Item
	require.NoError(t, json.Unmarshal([]byte(body), &it))
	return it
}

func TestNewView_IndexesVODAndSeries(t *testing.T) {
	snap := NewSnapshot(time.Now())
	snap.Data[catalog.VOD] = []catalog.Item{
		mustItem(t, `{"stream_id":10,"name":"Movie A"}`),
		mustItem(t, `{"stream_id":"11","name":"Movie B"}`),
	}
	snap.Data[catalog.Series] = []catalog.Item{
		mustItem(t, `{"series_id":5,"name":"Show"}`),
	}
	snap.Data[catalog.Live] = []catalog.Item{
		mustItem(t, `{"stream_id":99,"name":"Channel"}`),
	}

	v := NewView(snap)

	it, ok := v.Lookup(catalog.VOD, 10)
	require.True(t, ok)
	assert.Equal(t, "Movie A", it.Name())

	_, ok = v.Lookup(catalog.VOD, 11)
	assert.True(t, ok, "string-typed id must still index")

	_, ok = v.Lookup(catalog.Series, 5)
	assert.True(t, ok)

	// live items have no detail endpoint and are never indexed
	_, ok = v.Lookup(catalog.Live, 99)
	assert.False(t, ok)

	_, ok = v.Lookup(catalog.VOD, 404)
	assert.False(t, ok)
}

func TestNewView_SkipsUnparsableIDs(t *testing.T) {
	snap := NewSnapshot(time.Now())
	snap.Data[catalog.VOD] = []catalog.Item{
		mustItem(t, `{"name":"no id"}`),
		mustItem(t, `{"stream_id":"n/a","name":"bad id"}`),
		mustItem(t, `{"stream_id":1,"name":"good"}`),
	}

	v := NewView(snap)
	_, ok := v.Lookup(catalog.VOD, 1)
	assert.True(t, ok)
	assert.Len(t, v.Items(catalog.VOD), 3, "unindexed items still serve in list responses")
}

func TestPublished_SwapAndCurrent(t *testing.T) {
	var p Published
	assert.Nil(t, p.Current(), "nothing published until first swap")

	v1 := NewView(NewSnapshot(time.Now()))
	p.Swap(v1)
	assert.Same(t, v1, p.Current())

	v2 := NewView(NewSnapshot(time.Now()))
	p.Swap(v2)
	assert.Same(t, v2, p.Current())
}
