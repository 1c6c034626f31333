// Package clone produces independent deep copies of configuration values.
//
// Copies share nothing mutable with the original except values that opt out
// through deepcopy.Interface, such as the server handle a resource is bound
// to. Values that cannot be meaningfully duplicated (channels, functions,
// open files, self-referencing graphs) are rejected with *CloneError before
// anything is copied.
package clone

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/mohae/deepcopy"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	copierType = reflect.TypeOf((*deepcopy.Interface)(nil)).Elem()
	closerType = reflect.TypeOf((*io.Closer)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

// Clone returns a deep copy of v. Structs holding non-zero unexported fields
// are rejected since only exported fields can be copied.
// Clone(nil) returns nil, nil.
func Clone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if err := scan(reflect.ValueOf(v), false); err != nil {
		return nil, err
	}
	return deepcopy.Copy(v), nil
}

// Of is the typed form of Clone.
func Of[T any](v T) (T, error) {
	var zero T
	out, err := Clone(v)
	if err != nil || out == nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, &CloneError{Path: "$", Type: fmt.Sprintf("%T", out), Reason: ReasonUncopyableKind}
	}
	return typed, nil
}

// Serialized clones v through a msgpack round-trip into a fresh value of the
// same type. Fields excluded from serialization (`msgpack:"-"`) come back as
// zero values, so bound resources are returned unbound. Graphs holding a
// shared reference in a serialized field are rejected.
func Serialized[T any](v T) (T, error) {
	var zero T
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface && rv.IsNil() {
		return zero, nil
	}
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if err := scan(rv, true); err != nil {
		return zero, err
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return zero, &CloneError{Path: "$", Type: rv.Type().String(), Reason: ReasonCodec, Err: err}
	}
	out := reflect.New(rv.Type())
	if err = msgpack.Unmarshal(data, out.Interface()); err != nil {
		return zero, &CloneError{Path: "$", Type: rv.Type().String(), Reason: ReasonCodec, Err: err}
	}
	typed, ok := out.Elem().Interface().(T)
	if !ok {
		return zero, &CloneError{Path: "$", Type: rv.Type().String(), Reason: ReasonCodec}
	}
	return typed, nil
}

type scanner struct {
	serialized bool
	// pointers, maps and slices on the current path from the root
	onPath map[visit]struct{}
}

type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

func scan(v reflect.Value, serialized bool) error {
	s := &scanner{serialized: serialized, onPath: map[visit]struct{}{}}
	return s.walk(v, "$")
}

func (s *scanner) walk(v reflect.Value, path string) error {
	if !v.IsValid() {
		return nil
	}
	t := v.Type()

	if t.Implements(closerType) && !isNilRef(v) {
		return &CloneError{Path: path, Type: t.String(), Reason: ReasonResource}
	}
	if v.CanInterface() && t.Implements(copierType) {
		if s.serialized && !isNilRef(v) {
			return &CloneError{Path: path, Type: t.String(), Reason: ReasonSharedReference}
		}
		return nil
	}

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return nil
		}
		return &CloneError{Path: path, Type: t.String(), Reason: ReasonUncopyableKind}

	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return s.enter(visit{ptr: v.Pointer(), typ: t}, path, func() error {
			return s.walk(v.Elem(), path)
		})

	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return s.walk(v.Elem(), path)

	case reflect.Struct:
		if t == timeType {
			return nil
		}
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				if !v.Field(i).IsZero() {
					return &CloneError{Path: path + "." + field.Name, Type: t.String(), Reason: ReasonUnexported}
				}
				continue
			}
			if s.serialized && field.Tag.Get("msgpack") == "-" {
				continue
			}
			if err := s.walk(v.Field(i), path+"."+field.Name); err != nil {
				return err
			}
		}

	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return nil
		}
		return s.enter(visit{ptr: v.Pointer(), len: v.Len(), typ: t}, path, func() error {
			return s.walkElems(v, path)
		})

	case reflect.Array:
		return s.walkElems(v, path)

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		return s.enter(visit{ptr: v.Pointer(), typ: t}, path, func() error {
			iter := v.MapRange()
			for iter.Next() {
				keyPath := fmt.Sprintf("%s[%v]", path, iter.Key())
				if err := s.walk(iter.Key(), keyPath); err != nil {
					return err
				}
				if err := s.walk(iter.Value(), keyPath); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return nil
}

func (s *scanner) walkElems(v reflect.Value, path string) error {
	for i := 0; i < v.Len(); i++ {
		if err := s.walk(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) enter(key visit, path string, fn func() error) error {
	if _, seen := s.onPath[key]; seen {
		return &CloneError{Path: path, Type: key.typ.String(), Reason: ReasonCycle}
	}
	s.onPath[key] = struct{}{}
	defer delete(s.onPath, key)
	return fn()
}

func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
