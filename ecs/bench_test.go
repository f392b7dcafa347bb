package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/botarena/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Delete(ids[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Position](storage, id)
	}
}

func BenchmarkAddRemoveComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.With(reflect.TypeOf(Position{}), reflect.TypeOf(Velocity{}))
	id := storage.Spawn(Position{X: 1.0, Y: 2.0})
	velocity := reflect.TypeOf(Velocity{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddComponent(id, Velocity{DX: 0.5, DY: 0.5})
		storage.RemoveComponent(id, velocity)
	}
}

func BenchmarkViewIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	type PosVel struct {
		*Position
		*Velocity
	}

	for i := 0; i < 1000; i++ {
		storage.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
		storage.Spawn(Position{X: float32(i)})
	}

	view := ecs.NewView[PosVel](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pv := range view.Iter() {
			_ = pv
		}
	}
}

func BenchmarkQueryExecute(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	type PosVel struct {
		ecs.EntityId
		*Position
		*Velocity
	}

	for i := 0; i < 10000; i++ {
		storage.Spawn(Position{X: float32(i), Y: float32(i)}, Velocity{DX: 0.5, DY: 0.5})
	}
	query := ecs.NewQuery[PosVel](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Execute()
		for _, pv := range query.Iter() {
			pv.Position.X += pv.Velocity.DX
		}
	}
}
