package physics

import (
	"errors"
	"slices"

	"github.com/plus3/botarena/vmath"
	"go.uber.org/zap"
)

var errNoPipeline = errors.New("physics: backend returned no query pipeline")

// Adapter normalizes whatever call shapes a backend implements into Queries.
// Each operation tries the shapes in a fixed priority order (single hit,
// pipeline, raw handle). A probe whose shape is missing, that returns an error
// or that panics is skipped; when no probe answers the operation returns its
// empty result.
type Adapter struct {
	backend any
	log     *zap.SugaredLogger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger routes probe failures to log at debug level.
func WithLogger(log *zap.SugaredLogger) AdapterOption {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// NewAdapter wraps backend, which may be nil.
func NewAdapter(backend any, opts ...AdapterOption) *Adapter {
	a := &Adapter{backend: backend, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ Queries = (*Adapter)(nil)

// probe runs fn, converting errors and panics into a skipped probe.
func probe[T any](a *Adapter, op, shape string, fn func() (T, error)) (result T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Debugw("physics probe panicked", "op", op, "shape", shape, "panic", r)
			var zero T
			result, ok = zero, false
		}
	}()

	result, err := fn()
	if err != nil {
		a.log.Debugw("physics probe failed", "op", op, "shape", shape, "error", err)
		var zero T
		return zero, false
	}
	return result, true
}

func (a *Adapter) pipeline() (QueryPipeline, bool) {
	provider, ok := a.backend.(PipelineProvider)
	if !ok {
		return nil, false
	}
	return probe(a, "pipeline", "pipeline", func() (QueryPipeline, error) {
		p := provider.QueryPipeline()
		if p == nil {
			return nil, errNoPipeline
		}
		return p, nil
	})
}

// Available reports whether the backend implements any known call shape.
func (a *Adapter) Available() bool {
	switch a.backend.(type) {
	case SingleHitCaster, PipelineProvider, RawHandleCaster, SphereOverlapper:
		return true
	}
	return false
}

// Raycast returns the closest hit along the ray, or nil.
func (a *Adapter) Raycast(origin, dir vmath.Vec3, maxToi float64, filter *uint32) *RayHit {
	if caster, ok := a.backend.(SingleHitCaster); ok {
		if hit, ok := probe(a, "raycast", "single-hit", func() (*RayHit, error) {
			return caster.CastRay(origin, dir, maxToi, true, filter)
		}); ok {
			return hit
		}
	}

	if p, ok := a.pipeline(); ok {
		if hit, ok := probe(a, "raycast", "pipeline", func() (*RayHit, error) {
			return p.CastRay(origin, dir, maxToi, true, filter)
		}); ok {
			return hit
		}
	}

	if raw, ok := a.backend.(RawHandleCaster); ok {
		if hit, ok := probe(a, "raycast", "raw-handle", func() (*RayHit, error) {
			collider, toi, found, err := raw.CastRayRaw(origin, dir, maxToi, filter)
			if err != nil || !found {
				return nil, err
			}
			entity, _ := raw.ColliderEntity(collider)
			return &RayHit{
				Toi:      toi,
				HasToi:   true,
				Point:    origin.Add(dir.Scale(toi)),
				Entity:   entity,
				Collider: collider,
			}, nil
		}); ok {
			return hit
		}
	}

	return nil
}

// OverlapSphereEntities returns the ids of entities overlapping the sphere in
// ascending order, or nil if no probe can answer.
func (a *Adapter) OverlapSphereEntities(center vmath.Vec3, radius float64) []uint64 {
	if overlapper, ok := a.backend.(SphereOverlapper); ok {
		if ids, ok := probe(a, "overlap", "overlapper", func() ([]uint64, error) {
			return overlapper.OverlapSphere(center, radius)
		}); ok {
			return normalizeIds(ids)
		}
	}

	if p, ok := a.pipeline(); ok {
		if ids, ok := probe(a, "overlap", "pipeline", func() ([]uint64, error) {
			var ids []uint64
			err := p.IntersectionsWithSphere(center, radius, func(entity uint64) bool {
				ids = append(ids, entity)
				return true
			})
			return ids, err
		}); ok {
			return normalizeIds(ids)
		}
	}

	return nil
}

// OverlapSphere reports whether anything overlaps the sphere.
func (a *Adapter) OverlapSphere(center vmath.Vec3, radius float64) bool {
	return len(a.OverlapSphereEntities(center, radius)) > 0
}

// IntersectionsWithRay returns every hit along the ray in deterministic
// order, or nil if no probe can answer.
func (a *Adapter) IntersectionsWithRay(origin, dir vmath.Vec3, maxToi float64, filter *uint32) []RayHit {
	p, ok := a.pipeline()
	if !ok {
		return nil
	}

	hits, ok := probe(a, "intersections", "pipeline", func() ([]RayHit, error) {
		hits := []RayHit{}
		err := p.IntersectionsWithRay(origin, dir, maxToi, true, filter, func(h RayHit) bool {
			hits = append(hits, h)
			return true
		})
		return hits, err
	})
	if !ok {
		return nil
	}
	SortHits(hits)
	return hits
}

func normalizeIds(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
