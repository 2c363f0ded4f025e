package ink

// Optional holds a value that may be absent.
//
// Stroke inputs carry several channels (pressure, tilt, orientation,
// physical scale) that not every input device reports. Those channels are
// modeled as explicit Optional values rather than sentinel floats so that
// "absent" can never be confused with a legitimate reading.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// GetOr returns the held value, or fallback when absent.
func (o Optional[T]) GetOr(fallback T) T {
	if o.valid {
		return o.value
	}
	return fallback
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.valid
}
