// Package daicho is a generational record-storage engine: it keeps
// collections of fixed-shape records that carry optional typed components,
// hands out (index, generation) handles that stay distinguishable across
// slot reuse, stores component payloads in compact per-type pools, and
// answers "every record with components A, B and C" queries from per-type
// presence bitmaps instead of scanning the whole collection.
//
// A List and everything it owns follow a single-owner model: one goroutine
// creates, mutates and queries it. Nothing locks and nothing blocks.
// Component types are registered once, at init time, through
// RegisterComponent.
package daicho
