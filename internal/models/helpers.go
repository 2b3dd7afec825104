package models

// Ptr returns a pointer to v. Handy for optional fields such as IncludedTonnage.
func Ptr[T any](v T) *T {
	return &v
}
