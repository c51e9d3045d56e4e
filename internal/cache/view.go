// SPDX-License-Identifier: MIT

package cache

import (
	"sync/atomic"
	"time"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

// View is the read-only, indexed form of a snapshot. It is built wholesale
// from one snapshot and never mutated afterwards, so readers may share it
// without locking.
type View struct {
	snap   *Snapshot
	vod    map[int64]catalog.Item
	series map[int64]catalog.Item
}

// NewView indexes the snapshot's VOD and series items by numeric id.
// Items with a missing or non-numeric id are skipped; live channels carry
// no detail endpoint and are not indexed.
func NewView(snap *Snapshot) *View {
	v := &View{
		snap:   snap,
		vod:    make(map[int64]catalog.Item, len(snap.Data[catalog.VOD])),
		series: make(map[int64]catalog.Item, len(snap.Data[catalog.Series])),
	}
	for _, it := range snap.Data[catalog.VOD] {
		if id, ok := it.ID(catalog.VOD); ok {
			v.vod[id] = it
		}
	}
	for _, it := range snap.Data[catalog.Series] {
		if id, ok := it.ID(catalog.Series); ok {
			v.series[id] = it
		}
	}
	return v
}

// Items returns the published item list for a content type, never nil.
func (v *View) Items(t catalog.ContentType) []catalog.Item {
	return v.snap.Items(t)
}

// Categories returns the published category list for a content type, never nil.
func (v *View) Categories(t catalog.ContentType) []catalog.Category {
	return v.snap.CategoryList(t)
}

// LastUpdated returns the snapshot timestamp.
func (v *View) LastUpdated() time.Time {
	return v.snap.Meta.LastUpdated
}

// Lookup returns the basic record for a VOD or series id. The second return
// is false for live, unknown ids and unindexed items.
func (v *View) Lookup(t catalog.ContentType, id int64) (catalog.Item, bool) {
	switch t {
	case catalog.VOD:
		it, ok := v.vod[id]
		return it, ok
	case catalog.Series:
		it, ok := v.series[id]
		return it, ok
	default:
		return nil, false
	}
}

// Published is the atomically swapped handle readers consult. The refresh
// job is the only writer; a reader always sees either the previous complete
// view or the new complete view, never a mix.
type Published struct {
	p atomic.Pointer[View]
}

// Current returns the published view, or nil when no snapshot has ever been
// built or loaded.
func (p *Published) Current() *View {
	return p.p.Load()
}

// Swap publishes a freshly built view.
func (p *Published) Swap(v *View) {
	p.p.Store(v)
}
