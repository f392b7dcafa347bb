package ecs

import "reflect"

// StorageStats summarises what a Storage currently holds.
type StorageStats struct {
	EntityCount int
	Components  []ComponentStats
	LiveViews   int
	Singletons  []string
}

// ComponentStats is the instance count of one component type.
type ComponentStats struct {
	Type  reflect.Type
	Name  string
	Count int
}

// CollectStats walks the storage and reports per-type counts in registration
// order.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		EntityCount: len(s.ids),
		LiveViews:   len(s.liveOrder),
	}

	for bit, t := range s.registry.types {
		count := 0
		if bit < len(s.stores) && s.stores[bit] != nil {
			count = s.stores[bit].Len()
		}
		stats.Components = append(stats.Components, ComponentStats{
			Type:  t,
			Name:  t.String(),
			Count: count,
		})
	}

	for _, t := range s.singletonOrder {
		stats.Singletons = append(stats.Singletons, t.String())
	}
	return stats
}
