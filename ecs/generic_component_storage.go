package ecs

import (
	"fmt"
	"reflect"
)

// maxComponentTypes is bounded by the width of an entity's component mask.
const maxComponentTypes = 64

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference. Every registered
// type gets one bit in the component mask used for structural queries.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
	bits      map[reflect.Type]uint8
	types     []reflect.Type
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
		bits:      make(map[reflect.Type]uint8),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.bits[t]; ok {
		return
	}
	if len(r.types) >= maxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register %s, at most %d component types are supported", t, maxComponentTypes))
	}

	r.bits[t] = uint8(len(r.types))
	r.types = append(r.types, t)
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Types returns the registered component types in registration order.
func (r *ComponentRegistry) Types() []reflect.Type {
	return r.types
}

// bit returns the mask bit of a registered type.
func (r *ComponentRegistry) bit(t reflect.Type) (uint8, bool) {
	b, ok := r.bits[t]
	return b, ok
}

// mustBit is bit for callers that cannot proceed with an unregistered type.
func (r *ComponentRegistry) mustBit(t reflect.Type) uint8 {
	b, ok := r.bits[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return b
}

// maskOf returns the component mask covering all of types.
func (r *ComponentRegistry) maskOf(types []reflect.Type) uint64 {
	var mask uint64
	for _, t := range types {
		mask |= 1 << r.mustBit(t)
	}
	return mask
}

const (
	genericBlockSize = 64
)

// genericComponentStorage is a generic implementation of iComponentStorage.
// It stores components of a specific type `T` in fixed-size blocks so that
// pointers handed out by Get stay valid while the storage grows.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
	filled []*[genericBlockSize]bool
	count  int
}

// Set stores a component at the given slot, growing the storage as needed.
func (cs *genericComponentStorage[T]) Set(index int, item any) bool {
	if index < 0 {
		return false
	}

	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	for blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.filled = append(cs.filled, new([genericBlockSize]bool))
	}

	if !cs.filled[blockIdx][slotIdx] {
		cs.count++
	}
	cs.blocks[blockIdx][slotIdx] = concreteItem
	cs.filled[blockIdx][slotIdx] = true
	return true
}

// Get returns a pointer to the component at the given index.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	return &cs.blocks[index/genericBlockSize][index%genericBlockSize]
}

// Delete marks a component slot as empty.
func (cs *genericComponentStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	cs.filled[blockIdx][slotIdx] = false
	var zero T
	cs.blocks[blockIdx][slotIdx] = zero // Zero out the value
	cs.count--
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	if index < 0 {
		return false
	}

	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return false
	}

	return cs.filled[blockIdx][index%genericBlockSize]
}

// Len returns the number of stored components.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Clear drops every stored component.
func (cs *genericComponentStorage[T]) Clear() {
	cs.blocks = nil
	cs.filled = nil
	cs.count = 0
}
