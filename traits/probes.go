/*
   Copyright 2025 The TOLA Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package traits

import (
	"reflect"
)

// Kind and method-shape probes. All answer from the exact type: an
// interface type answers from its own method set, and constructive kind
// probes report false for it since an interface value's shape is unknown
// statically.

func isComparable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return t.Comparable()
}

// isCopyable reports whether assigning a value of t copies all of its
// state. Reference kinds (pointers, slices, maps, chans, funcs,
// interfaces) share state and are not copyable; neither is any aggregate
// reaching one. Strings count as copyable: the shared bytes are immutable.
func isCopyable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isCopyable(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isCopyable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Ptr, Slice, Map, Chan, Func, Interface, UnsafePointer.
		return false
	}
}

func isNilable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	}
	return false
}

func isNumeric(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func isOrdered(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	}
	return false
}

func isIterable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Array, reflect.Slice, reflect.Map, reflect.Chan, reflect.String:
		return true
	}
	return false
}

// hasCloneMethod reports whether t has a Clone method with no arguments
// returning exactly t. Method lookup respects Go method sets: a Clone
// declared on *T is not visible on T.
func hasCloneMethod(t reflect.Type) bool {
	if t == nil {
		return false
	}
	m, ok := t.MethodByName("Clone")
	if !ok {
		return false
	}
	mt := m.Type
	if t.Kind() == reflect.Interface {
		return mt.NumIn() == 0 && mt.NumOut() == 1 && mt.Out(0) == t
	}
	// Concrete method types carry the receiver as In(0).
	return mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0) == t
}

// hasEqualMethod reports whether t has an Equal method taking exactly one
// argument of type t and returning bool.
func hasEqualMethod(t reflect.Type) bool {
	if t == nil {
		return false
	}
	m, ok := t.MethodByName("Equal")
	if !ok {
		return false
	}
	mt := m.Type
	if t.Kind() == reflect.Interface {
		return mt.NumIn() == 1 && mt.In(0) == t &&
			mt.NumOut() == 1 && mt.Out(0) == boolType
	}
	return mt.NumIn() == 2 && mt.In(1) == t &&
		mt.NumOut() == 1 && mt.Out(0) == boolType
}

var boolType = reflect.TypeOf(false)
