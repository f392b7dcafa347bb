package ecs

import (
	"slices"

	"go.uber.org/zap"
)

// Listener observes entity level changes.
type Listener func(id EntityId)

type observer struct {
	key uint64
	fn  Listener
}

// observers is an ordered list of listeners. Each call runs under recover so
// one failing observer neither halts the simulation nor starves the others.
type observers struct {
	list    []observer
	nextKey uint64
}

func (o *observers) add(fn Listener) func() {
	o.nextKey++
	key := o.nextKey
	o.list = append(o.list, observer{key: key, fn: fn})
	return func() {
		o.list = slices.DeleteFunc(o.list, func(ob observer) bool { return ob.key == key })
	}
}

func (o *observers) emit(log *zap.SugaredLogger, what string, id EntityId) {
	if len(o.list) == 0 {
		return
	}
	for _, ob := range slices.Clone(o.list) {
		callObserver(log, what, ob.fn, id)
	}
}

func callObserver(log *zap.SugaredLogger, what string, fn Listener, id EntityId) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnw("observer panicked", "observer", what, "entity", id, "panic", r)
		}
	}()
	fn(id)
}

// OnEntityAdded registers fn to run after an entity is spawned. The returned
// function unregisters it.
func (s *Storage) OnEntityAdded(fn Listener) func() {
	return s.added.add(fn)
}

// OnEntityRemoved registers fn to run when an entity is deleted, while its
// components are still readable.
func (s *Storage) OnEntityRemoved(fn Listener) func() {
	return s.removed.add(fn)
}

// Subscribe registers a change listener. Listeners are called in subscription
// order by Notify and never affect simulation state.
func (s *Storage) Subscribe(fn Listener) (unsubscribe func()) {
	return s.changed.add(fn)
}

// Notify tells every change listener that id was updated.
func (s *Storage) Notify(id EntityId) {
	s.changed.emit(s.log, "change listener", id)
}
