package utils

// Value dereferences v, yielding T's zero value when v is nil. Partial-update
// payloads lean on this when reading optional form fields.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v, mostly for building optional fields inline.
func Ptr[T any](v T) *T {
	return &v
}
