package core

import "golang.org/x/exp/constraints"

// Column is one ordered column of indicator output. The newest value
// sits at the end, matching the talib slice layout.
type Column[T constraints.Ordered] []T

// Last returns the value at position counted from the end; position 0
// is the newest value. Callers check Len before asking for history.
func (c Column[T]) Last(position int) T {
	return c[len(c)-1-position]
}

// Len returns the number of values in the column
func (c Column[T]) Len() int { return len(c) }

// Tail returns the newest size values, or the whole column when shorter
func (c Column[T]) Tail(size int) Column[T] {
	if l := len(c); l > size {
		return c[l-size:]
	}
	return c
}

// Crossover reports whether the column crossed above ref on the newest
// value.
func (c Column[T]) Crossover(ref Column[T]) bool {
	return c.Last(0) > ref.Last(0) && c.Last(1) <= ref.Last(1)
}

// Crossunder reports whether the column crossed below ref on the newest
// value.
func (c Column[T]) Crossunder(ref Column[T]) bool {
	return c.Last(0) <= ref.Last(0) && c.Last(1) > ref.Last(1)
}

// Cross reports a crossing in either direction
func (c Column[T]) Cross(ref Column[T]) bool {
	return c.Crossover(ref) || c.Crossunder(ref)
}
