/*
Package seq provides the lazy building blocks comprehension pipelines are
made of: FilterMap and Flatten over iter.Seq, and their error-carrying Try
forms over iter.Seq2[T, error].

Nothing is computed until the returned sequence is ranged over, and
breaking out of the range stops every upstream sequence. The Try forms
yield an error at most once, as (zero, err), and then stop.

Compiled comprehensions use the Try forms at run time; Go code emitted for
a comprehension uses the plain forms:

	evens := seq.FilterMap(slices.Values(xs), func(x int) (int, bool) {
		if !(x%2 == 0) {
			return 0, false
		}
		return x * 10, true
	})
*/
package seq

import "iter"

// Integer is the set of types Range and Count can step through.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FilterMap calls f for each element of src and yields the results for
// which f reports true.
func FilterMap[E, R any](src iter.Seq[E], f func(E) (R, bool)) iter.Seq[R] {
	return func(yield func(R) bool) {
		for e := range src {
			r, ok := f(e)
			if !ok {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Flatten concatenates the inner sequences of src, one level deep.
func Flatten[R any](src iter.Seq[iter.Seq[R]]) iter.Seq[R] {
	return func(yield func(R) bool) {
		for inner := range src {
			for r := range inner {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// TryFilterMap is FilterMap over a fallible source with a fallible f. An
// error from either is yielded once and ends the sequence.
func TryFilterMap[E, R any](src iter.Seq2[E, error], f func(E) (R, bool, error)) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		for e, err := range src {
			if err != nil {
				yield(zero, err)
				return
			}
			r, ok, err := f(e)
			if err != nil {
				yield(zero, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// TryFlatten is Flatten over fallible sequences.
func TryFlatten[R any](src iter.Seq2[iter.Seq2[R, error], error]) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		for inner, err := range src {
			if err != nil {
				yield(zero, err)
				return
			}
			for r, err := range inner {
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// Lift turns an infallible sequence into a fallible one.
func Lift[T any](src iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v := range src {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Fail is a sequence that yields err and nothing else.
func Fail[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// Range yields lo, lo+1, ..., hi. It is empty when hi < lo.
func Range[T Integer](lo, hi T) iter.Seq[T] {
	return func(yield func(T) bool) {
		if hi < lo {
			return
		}
		for i := lo; ; i++ {
			if !yield(i) || i == hi {
				return
			}
		}
	}
}

// Step yields start, start+step, ... while the value stays on the start side
// of stop, which is excluded. A zero step yields nothing.
func Step[T Integer](start, stop, step T) iter.Seq[T] {
	return func(yield func(T) bool) {
		var zero T
		switch {
		case step > zero:
			for i := start; i < stop; i += step {
				if !yield(i) {
					return
				}
				if i+step < i {
					return // overflow
				}
			}
		case step < zero:
			for i := start; i > stop; i += step {
				if !yield(i) {
					return
				}
				if i+step > i {
					return // overflow
				}
			}
		}
	}
}

// Count yields start, start+step, ... without end.
func Count[T Integer](start, step T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := start; ; i += step {
			if !yield(i) {
				return
			}
		}
	}
}

// Take yields at most the first n elements of src.
func Take[T any](src iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v := range src {
			if !yield(v) {
				return
			}
			i++
			if i == n {
				return
			}
		}
	}
}

// Limit yields at most the first n values of src. Errors pass through and
// do not count against n.
func Limit[T any](src iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v, err := range src {
			if !yield(v, err) {
				return
			}
			if err != nil {
				continue
			}
			i++
			if i == n {
				return
			}
		}
	}
}

// Collect drains src into a slice, stopping at the first error.
func Collect[T any](src iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range src {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
