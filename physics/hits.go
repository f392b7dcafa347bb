package physics

import (
	"bytes"
	"cmp"
	"hash/fnv"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// SortHits orders hits deterministically: by time of impact ascending, hits
// without a time of impact last, and any remaining ties by HitHash. The
// order the backend reported the hits in never matters.
func SortHits(hits []RayHit) {
	slices.SortStableFunc(hits, compareHits)
}

func compareHits(a, b RayHit) int {
	switch {
	case a.HasToi && b.HasToi:
		if c := cmp.Compare(a.Toi, b.Toi); c != 0 {
			return c
		}
	case a.HasToi:
		return -1
	case b.HasToi:
		return 1
	}
	return cmp.Compare(HitHash(a), HitHash(b))
}

// HitHash is the FNV-1a hash of the hit's canonical payload: a msgpack map
// with sorted keys, so the hash does not depend on field order.
func HitHash(h RayHit) uint64 {
	payload := map[string]any{
		"collider": h.Collider,
		"entity":   h.Entity,
		"normal":   h.Normal.Slice(),
		"point":    h.Point.Slice(),
	}
	if h.HasToi {
		payload["toi"] = h.Toi
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(payload); err != nil {
		return 0
	}

	sum := fnv.New64a()
	sum.Write(buf.Bytes())
	return sum.Sum64()
}
