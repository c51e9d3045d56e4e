// SPDX-License-Identifier: MIT

// Package cache holds the durable snapshot of the last successful refresh
// and the in-memory indexed view published to readers.
package cache

import (
	"time"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
)

// Meta carries snapshot-level bookkeeping.
type Meta struct {
	LastUpdated time.Time `json:"last_updated"`
}

// Snapshot is the filtered dataset produced by one successful refresh cycle:
// per content type the surviving items and exactly the categories those
// items still reference.
type Snapshot struct {
	Meta       Meta                                       `json:"meta"`
	Data       map[catalog.ContentType][]catalog.Item     `json:"data"`
	Categories map[catalog.ContentType][]catalog.Category `json:"categories"`
}

// NewSnapshot returns an empty snapshot stamped with the given time.
func NewSnapshot(ts time.Time) *Snapshot {
	return &Snapshot{
		Meta:       Meta{LastUpdated: ts},
		Data:       make(map[catalog.ContentType][]catalog.Item, 3),
		Categories: make(map[catalog.ContentType][]catalog.Category, 3),
	}
}

// Items returns the item list for a content type, never nil.
func (s *Snapshot) Items(t catalog.ContentType) []catalog.Item {
	if items := s.Data[t]; items != nil {
		return items
	}
	return []catalog.Item{}
}

// CategoryList returns the category list for a content type, never nil.
func (s *Snapshot) CategoryList(t catalog.ContentType) []catalog.Category {
	if cats := s.Categories[t]; cats != nil {
		return cats
	}
	return []catalog.Category{}
}
