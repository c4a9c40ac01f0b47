package ptr

// Ptr возвращает указатель на копию значения
func Ptr[T any](v T) *T {
	return &v
}

// Value разыменовывает указатель, для nil возвращает нулевое значение
func Value[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
