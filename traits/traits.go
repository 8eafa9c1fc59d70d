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

// Package traits defines the built-in detectable capabilities.
//
// Each Trait pairs a capability name with a reflection probe. Probes answer
// only what reflection can prove about the exact type: interface traits via
// Implements on the type's own method set (probing T never consults *T),
// kind traits via the type's shape. A probe never produces a false
// positive; capabilities with no reflectable evidence, such as user-defined
// markers or concurrency-safety claims, always probe false and must be
// granted explicitly through the registry.
package traits

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// Capability names of the built-in traits.
//
// Interface-backed names mirror the stdlib interface they probe; kind and
// method names describe the structural fact they probe.
const (
	Stringer   = "fmt.stringer"
	GoStringer = "fmt.gostringer"
	Error      = "error"

	Reader     = "io.reader"
	Writer     = "io.writer"
	Closer     = "io.closer"
	Seeker     = "io.seeker"
	ReadWriter = "io.readwriter"

	Sortable = "sort.interface"

	TextMarshaler     = "encoding.textmarshaler"
	TextUnmarshaler   = "encoding.textunmarshaler"
	BinaryMarshaler   = "encoding.binarymarshaler"
	BinaryUnmarshaler = "encoding.binaryunmarshaler"

	JSONMarshaler   = "json.marshaler"
	JSONUnmarshaler = "json.unmarshaler"

	Comparable = "kind.comparable"
	Copyable   = "kind.copyable"
	Nilable    = "kind.nilable"
	Numeric    = "kind.numeric"
	Ordered    = "kind.ordered"
	Iterable   = "kind.iterable"

	Cloneable = "method.clone"
	Equatable = "method.equal"
)

// Trait is one built-in detectable capability: a name, a one-line
// description, and the reflection probe answering whether a type provably
// has it. Probes accept a nil type and report false.
type Trait struct {
	Name  string
	Doc   string
	Probe func(t reflect.Type) bool
}

var (
	stringerIface          = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	goStringerIface        = reflect.TypeOf((*fmt.GoStringer)(nil)).Elem()
	errorIface             = reflect.TypeOf((*error)(nil)).Elem()
	readerIface            = reflect.TypeOf((*io.Reader)(nil)).Elem()
	writerIface            = reflect.TypeOf((*io.Writer)(nil)).Elem()
	closerIface            = reflect.TypeOf((*io.Closer)(nil)).Elem()
	seekerIface            = reflect.TypeOf((*io.Seeker)(nil)).Elem()
	readWriterIface        = reflect.TypeOf((*io.ReadWriter)(nil)).Elem()
	sortIface              = reflect.TypeOf((*sort.Interface)(nil)).Elem()
	textMarshalerIface     = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerIface   = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	binaryMarshalerIface   = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
	binaryUnmarshalerIface = reflect.TypeOf((*encoding.BinaryUnmarshaler)(nil)).Elem()
	jsonMarshalerIface     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	jsonUnmarshalerIface   = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// builtin lists every trait in table order. Interface traits first, then
// kind traits, then method-shape traits.
var builtin = []Trait{
	{Stringer, "implements fmt.Stringer", implementsProbe(stringerIface)},
	{GoStringer, "implements fmt.GoStringer", implementsProbe(goStringerIface)},
	{Error, "implements error", implementsProbe(errorIface)},
	{Reader, "implements io.Reader", implementsProbe(readerIface)},
	{Writer, "implements io.Writer", implementsProbe(writerIface)},
	{Closer, "implements io.Closer", implementsProbe(closerIface)},
	{Seeker, "implements io.Seeker", implementsProbe(seekerIface)},
	{ReadWriter, "implements io.ReadWriter", implementsProbe(readWriterIface)},
	{Sortable, "implements sort.Interface", implementsProbe(sortIface)},
	{TextMarshaler, "implements encoding.TextMarshaler", implementsProbe(textMarshalerIface)},
	{TextUnmarshaler, "implements encoding.TextUnmarshaler", implementsProbe(textUnmarshalerIface)},
	{BinaryMarshaler, "implements encoding.BinaryMarshaler", implementsProbe(binaryMarshalerIface)},
	{BinaryUnmarshaler, "implements encoding.BinaryUnmarshaler", implementsProbe(binaryUnmarshalerIface)},
	{JSONMarshaler, "implements json.Marshaler", implementsProbe(jsonMarshalerIface)},
	{JSONUnmarshaler, "implements json.Unmarshaler", implementsProbe(jsonUnmarshalerIface)},
	{Comparable, "values support ==", isComparable},
	{Copyable, "assignment copies the full value, no shared state", isCopyable},
	{Nilable, "the zero value is nil", isNilable},
	{Numeric, "integer, float or complex kind", isNumeric},
	{Ordered, "values support < and friends", isOrdered},
	{Iterable, "values can be ranged over", isIterable},
	{Cloneable, "has a Clone method returning the receiver type", hasCloneMethod},
	{Equatable, "has an Equal method taking the receiver type, returning bool", hasEqualMethod},
}

// byName indexes builtin for Lookup.
var byName = func() map[string]Trait {
	m := make(map[string]Trait, len(builtin))
	for _, tr := range builtin {
		m[tr.Name] = tr
	}
	return m
}()

// Builtin returns the trait table in table order. The returned slice is a
// copy; the table itself never changes after package initialization.
func Builtin() []Trait {
	out := make([]Trait, len(builtin))
	copy(out, builtin)
	return out
}

// Lookup returns the trait registered under name.
func Lookup(name string) (Trait, bool) {
	tr, ok := byName[name]
	return tr, ok
}

// Names returns every built-in trait name in table order.
func Names() []string {
	out := make([]string, len(builtin))
	for i, tr := range builtin {
		out[i] = tr.Name
	}
	return out
}

func implementsProbe(iface reflect.Type) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		if t == nil {
			return false
		}
		return t.Implements(iface)
	}
}
