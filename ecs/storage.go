package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

var (
	// ErrInvalidEntityId is returned when 0 is supplied as an explicit entity id.
	ErrInvalidEntityId = errors.New("ecs: entity id 0 is reserved")
	// ErrDuplicateEntity is returned when an explicit entity id is already live.
	ErrDuplicateEntity = errors.New("ecs: entity id already exists")
)

// Storage is the main ECS storage interface. Entities are addressed by
// monotonically allocated ids; component values live in per-type slot
// storages and every entity carries a bitmask of the types it holds.
type Storage struct {
	registry *ComponentRegistry
	stores   []iComponentStorage
	records  *intmap.Map[EntityId, *entityRecord]

	// ids is kept sorted so every iteration over the store is in ascending
	// id order.
	ids       []EntityId
	freeSlots []int
	nextSlot  int
	nextId    EntityId

	live      map[uint64]*LiveSet
	liveOrder []*LiveSet

	added   observers
	removed observers
	changed observers

	singletons     map[reflect.Type]*singletonEntry
	singletonOrder []reflect.Type

	log *zap.SugaredLogger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used to report swallowed observer panics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Storage) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry, opts ...Option) *Storage {
	s := &Storage{
		registry:   registry,
		records:    intmap.New[EntityId, *entityRecord](256),
		live:       make(map[uint64]*LiveSet),
		singletons: make(map[reflect.Type]*singletonEntry),
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the component registry this storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity with the provided components and returns its id.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	s.nextId++
	id := s.nextId
	s.insert(id, components)
	return id
}

// SpawnWithId creates an entity under an externally supplied id. The id
// allocator is advanced past id so later Spawn calls never collide with it.
func (s *Storage) SpawnWithId(id EntityId, components ...any) error {
	if id == 0 {
		return ErrInvalidEntityId
	}
	if len(components) == 0 {
		return fmt.Errorf("ecs: spawn %d: no components", id)
	}
	if _, ok := s.records.Get(id); ok {
		return fmt.Errorf("%w: %d", ErrDuplicateEntity, id)
	}
	if id > s.nextId {
		s.nextId = id
	}
	s.insert(id, components)
	return nil
}

func (s *Storage) insert(id EntityId, components []any) {
	slot := s.allocSlot()
	rec := &entityRecord{id: id, slot: slot}

	for _, comp := range components {
		bit := s.registry.mustBit(componentType(comp))
		if !s.storeFor(bit).Set(slot, comp) {
			panic(fmt.Sprintf("ecs: cannot store %T", comp))
		}
		rec.mask |= 1 << bit
	}

	s.records.Put(id, rec)
	if n := len(s.ids); n == 0 || s.ids[n-1] < id {
		s.ids = append(s.ids, id)
	} else {
		i, _ := slices.BinarySearch(s.ids, id)
		s.ids = slices.Insert(s.ids, i, id)
	}

	s.syncLive(rec)
	s.added.emit(s.log, "entity added hook", id)
}

func (s *Storage) allocSlot() int {
	if n := len(s.freeSlots); n > 0 {
		slot := s.freeSlots[n-1]
		s.freeSlots = s.freeSlots[:n-1]
		return slot
	}
	slot := s.nextSlot
	s.nextSlot++
	return slot
}

func (s *Storage) storeFor(bit uint8) iComponentStorage {
	for int(bit) >= len(s.stores) {
		s.stores = append(s.stores, nil)
	}
	if s.stores[bit] == nil {
		s.stores[bit] = s.registry.factories[s.registry.types[bit]]()
	}
	return s.stores[bit]
}

// record returns the live record of id. Entities being deleted are still
// returned so removal hooks can read their components.
func (s *Storage) record(id EntityId) (*entityRecord, bool) {
	if id == 0 {
		return nil, false
	}
	return s.records.Get(id)
}

// Delete removes all data related to the entity ID. OnEntityRemoved hooks run
// before the components are dropped. Returns false if the entity did not exist.
func (s *Storage) Delete(id EntityId) bool {
	rec, ok := s.record(id)
	if !ok || rec.removing {
		return false
	}

	rec.removing = true
	s.removed.emit(s.log, "entity removed hook", id)

	for bit := range s.stores {
		if rec.has(uint8(bit)) {
			s.stores[bit].Delete(rec.slot)
		}
	}
	rec.mask = 0
	s.syncLive(rec)

	s.records.Del(id)
	if i, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	s.freeSlots = append(s.freeSlots, rec.slot)
	return true
}

// AddComponent attaches (or replaces) a component on an existing entity.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	rec, ok := s.record(id)
	if !ok || rec.removing {
		return false
	}

	bit := s.registry.mustBit(componentType(component))
	if !s.storeFor(bit).Set(rec.slot, component) {
		return false
	}
	if !rec.has(bit) {
		rec.mask |= 1 << bit
		s.syncLive(rec)
	}
	return true
}

// RemoveComponent detaches a component. The entity itself stays in the store
// even if it has no components left.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	rec, ok := s.record(id)
	if !ok || rec.removing {
		return false
	}
	bit, ok := s.registry.bit(compType)
	if !ok || !rec.has(bit) {
		return false
	}

	s.stores[bit].Delete(rec.slot)
	rec.mask &^= 1 << bit
	s.syncLive(rec)
	return true
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	rec, ok := s.record(id)
	if !ok {
		return nil
	}
	bit, ok := s.registry.bit(compType)
	if !ok || !rec.has(bit) {
		return nil
	}
	return s.stores[bit].Get(rec.slot)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	rec, ok := s.record(id)
	if !ok {
		return false
	}
	bit, ok := s.registry.bit(compType)
	return ok && rec.has(bit)
}

// Exists reports whether id names a live entity.
func (s *Storage) Exists(id EntityId) bool {
	rec, ok := s.record(id)
	return ok && !rec.removing
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return len(s.ids)
}

// Ids returns a copy of all entity ids in ascending order.
func (s *Storage) Ids() []EntityId {
	return slices.Clone(s.ids)
}

// ComponentsOf returns pointers to every component of id, in registration
// order of the component types.
func (s *Storage) ComponentsOf(id EntityId) []any {
	rec, ok := s.record(id)
	if !ok {
		return nil
	}
	var out []any
	for bit := range s.stores {
		if rec.has(uint8(bit)) {
			out = append(out, s.stores[bit].Get(rec.slot))
		}
	}
	return out
}

// Reset removes every entity, firing removal hooks in ascending id order, and
// rewinds the id allocator so a reset store allocates the same ids as a new
// one. Singletons, hooks and listeners are kept.
func (s *Storage) Reset() {
	for _, id := range slices.Clone(s.ids) {
		s.Delete(id)
	}
	for _, store := range s.stores {
		if store != nil {
			store.Clear()
		}
	}
	s.records = intmap.New[EntityId, *entityRecord](256)
	s.ids = s.ids[:0]
	s.freeSlots = s.freeSlots[:0]
	s.nextSlot = 0
	s.nextId = 0
}

// componentType extracts the component type from a value or pointer.
func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType == nil {
		panic("components cannot be nil")
	}

	// If it's a pointer, get the underlying type
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	switch compType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the component of entityId, or nil
// if the entity does not exist or lacks the component.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
