package ecs

// EntityId is a stable entity identifier. Ids are allocated monotonically by the
// Storage and never reused, so an id stays valid (or absent) for the lifetime of
// the storage. 0 never names an entity.
type EntityId uint64

// entityRecord locates an entity's components inside the storage.
type entityRecord struct {
	id       EntityId
	slot     int
	mask     uint64
	removing bool
}

func (r *entityRecord) has(bit uint8) bool {
	return r.mask&(1<<bit) != 0
}
