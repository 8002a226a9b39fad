package shared

import "sort"

// Accumulator merges values that share a key. The same reduction shape shows
// up in every report rollup (payments keyed by type+branch, goods keyed by id),
// so the merging lives here instead of being re-written per aggregator.
type Accumulator[K comparable, V any] struct {
	keyOf   func(V) K
	combine func(V, V) V
	items   map[K]V
	order   []K
}

// NewAccumulator creates an accumulator with a key extractor and a combiner.
// combine receives the already-accumulated value first.
func NewAccumulator[K comparable, V any](keyOf func(V) K, combine func(V, V) V) *Accumulator[K, V] {
	return &Accumulator[K, V]{
		keyOf:   keyOf,
		combine: combine,
		items:   make(map[K]V),
	}
}

// Add merges a single value into the accumulator
func (a *Accumulator[K, V]) Add(v V) {
	k := a.keyOf(v)
	if existing, ok := a.items[k]; ok {
		a.items[k] = a.combine(existing, v)
		return
	}
	a.items[k] = v
	a.order = append(a.order, k)
}

// AddAll merges a slice of values
func (a *Accumulator[K, V]) AddAll(vs []V) {
	for _, v := range vs {
		a.Add(v)
	}
}

// Len returns the number of distinct keys accumulated
func (a *Accumulator[K, V]) Len() int {
	return len(a.items)
}

// Get returns the accumulated value for a key
func (a *Accumulator[K, V]) Get(k K) (V, bool) {
	v, ok := a.items[k]
	return v, ok
}

// Values returns the merged values in first-seen order, which keeps report
// output deterministic across recomputations.
func (a *Accumulator[K, V]) Values() []V {
	out := make([]V, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.items[k])
	}
	return out
}

// SortedValues returns the merged values ordered by the given comparison
func (a *Accumulator[K, V]) SortedValues(less func(V, V) bool) []V {
	out := a.Values()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
