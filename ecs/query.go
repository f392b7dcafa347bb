package ecs

import (
	"iter"
	"slices"
)

// Query wraps a View with a per-step snapshot of matching entity ids.
// The Scheduler calls Execute right before the owning system runs, so a
// system sees every entity spawned by the systems that ran before it.
type Query[T any] struct {
	view     *View[T]
	storage  *Storage
	ids      []EntityId
	executed bool
}

// NewQuery creates a new Query over the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.ids = q.ids[:0]
	q.executed = false
}

// Execute snapshots the matching entity ids for this step.
func (q *Query[T]) Execute() {
	q.ids = append(q.ids[:0], q.view.live.ids...)
	q.executed = true
}

// Len returns the size of the current snapshot.
func (q *Query[T]) Len() int {
	return len(q.ids)
}

// Ids returns a copy of the current snapshot.
func (q *Query[T]) Ids() []EntityId {
	return slices.Clone(q.ids)
}

// Get fills the view for a single entity, bypassing the snapshot.
func (q *Query[T]) Get(id EntityId) *T {
	return q.view.Get(id)
}

// Iter returns an iterator over entity IDs and component data in ascending id
// order. Component pointers are resolved when yielded, so entities deleted
// or stripped of a required component since Execute are skipped.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.executed {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		var result T
		for _, id := range slices.Clone(q.ids) {
			if !q.view.Fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.executed {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for _, item := range q.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}
