package ioc

import (
	"fmt"
	"reflect"
)

// Get is a generic helper that looks up id and asserts its type:
//
//	db, err := ioc.Get[*Database](c, "db")
func Get[T any](c *Container, id string) (T, error) {
	var zero T

	val, err := c.GetInstance(id)
	if err != nil {
		return zero, err
	}

	out, ok := val.(T)
	if !ok {
		return zero, &TypeMismatchError{
			ID:       id,
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Got:      fmt.Sprintf("%T", val),
		}
	}
	return out, nil
}

// MustGet is like Get but panics on error. Useful inside builders and
// initializers where a missing provider is a wiring bug.
func MustGet[T any](c *Container, id string) T {
	out, err := Get[T](c, id)
	if err != nil {
		panic(err)
	}
	return out
}
