package ecs

import (
	"iter"
	"reflect"
	"slices"
)

// LiveSet is a structural view of every entity holding a given set of
// component types. It is kept in sync by the Storage on every spawn, delete,
// add and remove, and always lists ids in ascending order.
type LiveSet struct {
	mask  uint64
	types []reflect.Type
	ids   []EntityId
}

// With returns the live set of entities holding all of types. Calling With
// twice with the same types returns the same set. With no types the set
// tracks every entity.
func (s *Storage) With(types ...reflect.Type) *LiveSet {
	mask := s.registry.maskOf(types)
	if set, ok := s.live[mask]; ok {
		return set
	}

	set := &LiveSet{mask: mask, types: slices.Clone(types)}
	for _, id := range s.ids {
		rec, _ := s.records.Get(id)
		if set.matches(rec) {
			set.ids = append(set.ids, id)
		}
	}
	s.live[mask] = set
	s.liveOrder = append(s.liveOrder, set)
	return set
}

func (s *Storage) syncLive(rec *entityRecord) {
	for _, set := range s.liveOrder {
		if set.matches(rec) {
			set.insert(rec.id)
		} else {
			set.remove(rec.id)
		}
	}
}

func (l *LiveSet) matches(rec *entityRecord) bool {
	return !rec.removing && rec.mask&l.mask == l.mask
}

func (l *LiveSet) insert(id EntityId) {
	if n := len(l.ids); n == 0 || l.ids[n-1] < id {
		l.ids = append(l.ids, id)
		return
	}
	i, found := slices.BinarySearch(l.ids, id)
	if !found {
		l.ids = slices.Insert(l.ids, i, id)
	}
}

func (l *LiveSet) remove(id EntityId) {
	if i, found := slices.BinarySearch(l.ids, id); found {
		l.ids = slices.Delete(l.ids, i, i+1)
	}
}

// Len returns the number of matching entities.
func (l *LiveSet) Len() int {
	return len(l.ids)
}

// Contains reports whether id is currently in the set.
func (l *LiveSet) Contains(id EntityId) bool {
	_, found := slices.BinarySearch(l.ids, id)
	return found
}

// Ids returns a snapshot of the matching ids.
func (l *LiveSet) Ids() []EntityId {
	return slices.Clone(l.ids)
}

// Types returns the component types the set was built from.
func (l *LiveSet) Types() []reflect.Type {
	return l.types
}

// All iterates a snapshot of the set, so the store may be mutated while
// ranging over it.
func (l *LiveSet) All() iter.Seq[EntityId] {
	ids := l.Ids()
	return func(yield func(EntityId) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}
