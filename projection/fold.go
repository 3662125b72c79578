package projection

import "iter"

// The filter/map/reduce vocabulary the concrete views compose from. All of
// these are lazy except Reduce and CountBy, and none of them mutate the
// input sequence.

func Filter[E any](seq iter.Seq[E], pred func(E) bool) iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range seq {
			if !pred(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func MapSeq[E, V any](seq iter.Seq[E], fn func(E) V) iter.Seq[V] {
	return func(yield func(V) bool) {
		for e := range seq {
			if !yield(fn(e)) {
				return
			}
		}
	}
}

func Reduce[E, A any](seq iter.Seq[E], init A, fn func(A, E) A) A {
	acc := init
	for e := range seq {
		acc = fn(acc, e)
	}
	return acc
}

// CountBy buckets the sequence by key and counts each bucket. Keys with no
// occurrences are absent from the result.
func CountBy[E any, K comparable](seq iter.Seq[E], key func(E) K) map[K]int {
	counts := make(map[K]int)
	for e := range seq {
		counts[key(e)]++
	}
	return counts
}
