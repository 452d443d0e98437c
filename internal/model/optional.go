package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Optional records whether a patch field was supplied. The zero value is
// unset. For pointer types, a set field holding nil clears the target.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// ApplyTo writes the value into dst when the field is set.
func (o Optional[T]) ApplyTo(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// UnmarshalJSON marks the field as set. It is only invoked when the key is
// present in the object, including an explicit null. Null is accepted only
// for pointer types, where it clears the target.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		if !nullable(reflect.TypeOf(&zero).Elem()) {
			return fmt.Errorf("null is not allowed for a %T field", zero)
		}
		o.Value = zero
		o.Set = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes an unset field as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
