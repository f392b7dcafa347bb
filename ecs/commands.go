package ecs

import "reflect"

// Commands buffers structural changes requested while systems iterate. The
// scheduler flushes the buffer once, after the last system of a step: deletes
// first, then component removals, spawns and finally deferred calls. Within
// each kind operations apply in enqueue order, so a replayed step allocates
// the same entity ids.
type Commands struct {
	deletes []EntityId
	removes []removal
	spawns  []spawnCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	then       func(EntityId)
}

type removal struct {
	entity   EntityId
	compType reflect.Type
}

// Spawn queues an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.SpawnThen(nil, components...)
}

// SpawnThen queues a spawn and calls then with the new id once it exists.
func (c *Commands) SpawnThen(then func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, then: then})
}

// Delete queues the removal of entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// RemoveComponent queues the removal of one component. It is dropped when the
// entity is deleted in the same flush.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removal{entity: entity, compType: compType})
}

// Defer queues fn to run after every structural change of the step.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.removes) + len(c.defers)
}

// Flush applies everything queued to storage and empties the buffer.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]struct{}, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = struct{}{}
	}

	for _, r := range c.removes {
		if _, gone := deleted[r.entity]; !gone {
			storage.RemoveComponent(r.entity, r.compType)
		}
	}

	for _, s := range c.spawns {
		id := storage.Spawn(s.components...)
		if s.then != nil {
			s.then(id)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.deletes = c.deletes[:0]
	c.removes = c.removes[:0]
	c.spawns = c.spawns[:0]
	c.defers = c.defers[:0]
}
