// Package pointers provides pointer helpers for optional configuration fields
package pointers

// BoolPtr returns a pointer to the bool passed as parameter
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to the int passed as parameter
func IntPtr(d int) *int {
	return &d
}
