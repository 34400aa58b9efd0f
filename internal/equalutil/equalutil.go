// Package equalutil provides small generic helpers for the
// pointer/optional equality checks that recur across pattern and
// nameclass's structural Equal implementations, which compare
// independently constructed grammars for isomorphism.
package equalutil

// EqualPtr compares two pointers of any comparable type for equality.
// Both nil returns true, both non-nil with equal values returns true.
func EqualPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// EqualPtrFunc is EqualPtr generalized to types that are not comparable
// via == (e.g. a struct holding further pointers, like nameclass.Class's
// except branch), comparing through eq instead.
func EqualPtrFunc[T any](a, b *T, eq func(a, b T) bool) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return eq(*a, *b)
}
