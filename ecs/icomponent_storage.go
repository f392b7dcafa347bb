package ecs

// iComponentStorage is an interface for a type-erased component storage.
// Storages are indexed by entity slot, not by entity id.
type iComponentStorage interface {
	Set(index int, item any) bool
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Clear()
}
