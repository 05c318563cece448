package scoring

import (
	"math"
	"sort"
)

// cosineSimilarity compares two category vectors over the union of their keys,
// treating a missing key as 0. Keys are visited in sorted order so the float
// sums do not depend on map iteration. ok is false when the vectors share no
// key or either norm is zero.
func cosineSimilarity(a, b map[string]float64) (sim float64, ok bool) {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	shared := false
	for k := range b {
		if _, dup := a[k]; dup {
			shared = true
			continue
		}
		keys = append(keys, k)
	}
	if !shared {
		return 0, false
	}
	sort.Strings(keys)

	var dot, normA, normB float64
	for _, k := range keys {
		x, y := finite(a[k]), finite(b[k])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	sim = dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, sim)), true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
