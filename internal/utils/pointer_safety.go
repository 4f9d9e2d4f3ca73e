package utils

// Value dereferences v, returning the zero value for nil. Handy for the optional
// pointer fields on AWS SDK outputs.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}
