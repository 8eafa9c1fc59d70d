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

// Package query provides boolean capability queries.
//
// A Query is an expression tree over capability names, built from Has, And,
// Or and Not (or parsed from a string, see Parse). Evaluation asks a Source
// whether individual names are present and combines the answers; negation
// lives only in the tree, so a Source only ever answers affirmatively.
//
// capset.Set is a Source. So is any detector bound to a subject via
// SourceFunc.
package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilQuery is thrown when a nil Query is combined or evaluated.
	ErrNilQuery = errors.New("caps(query): nil query")
	// ErrRequirementNotMet is wrapped by errors returned from Require.
	ErrRequirementNotMet = errors.New("caps(query): requirement not met")
)

// Source answers membership questions for capability names.
type Source interface {
	// Has reports whether the source holds the named capability.
	Has(name string) bool
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc func(name string) bool

// Has calls f.
func (f SourceFunc) Has(name string) bool { return f(name) }

// Query is a boolean expression over capability names.
//
// Eval computes the expression against a Source. String renders the
// canonical form: names appear bare, negation as "!x", combinations
// parenthesized as "(a & b)" and "(a | b)".
type Query interface {
	Eval(src Source) bool
	String() string
}

type hasQuery struct {
	name string
}

type andQuery struct {
	subs []Query
}

type orQuery struct {
	subs []Query
}

type notQuery struct {
	sub Query
}

// Has queries the presence of a single capability name.
func Has(name string) Query {
	return &hasQuery{name: name}
}

// And queries the conjunction of qs. Nil entries are skipped.
// An empty conjunction is true.
func And(qs ...Query) Query {
	return &andQuery{subs: compact(qs)}
}

// Or queries the disjunction of qs. Nil entries are skipped.
// An empty disjunction is false.
func Or(qs ...Query) Query {
	return &orQuery{subs: compact(qs)}
}

// Not negates q. It panics with ErrNilQuery when q is nil.
func Not(q Query) Query {
	if q == nil {
		panic(ErrNilQuery)
	}
	return &notQuery{sub: q}
}

// All is And over Has for each name.
func All(names ...string) Query {
	qs := make([]Query, len(names))
	for i, n := range names {
		qs[i] = Has(n)
	}
	return &andQuery{subs: qs}
}

// Any is Or over Has for each name.
func Any(names ...string) Query {
	qs := make([]Query, len(names))
	for i, n := range names {
		qs[i] = Has(n)
	}
	return &orQuery{subs: qs}
}

func compact(qs []Query) []Query {
	out := make([]Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			out = append(out, q)
		}
	}
	return out
}

func (q *hasQuery) Eval(src Source) bool { return src.Has(q.name) }
func (q *hasQuery) String() string       { return q.name }

func (q *andQuery) Eval(src Source) bool {
	for _, sub := range q.subs {
		if !sub.Eval(src) {
			return false
		}
	}
	return true
}

func (q *andQuery) String() string { return renderList(q.subs, " & ", "true") }

func (q *orQuery) Eval(src Source) bool {
	for _, sub := range q.subs {
		if sub.Eval(src) {
			return true
		}
	}
	return false
}

func (q *orQuery) String() string { return renderList(q.subs, " | ", "false") }

func (q *notQuery) Eval(src Source) bool { return !q.sub.Eval(src) }
func (q *notQuery) String() string       { return "!" + q.sub.String() }

// renderList parenthesizes a combination. Empty combinations render their
// identity constant, which is display-only and not parseable back.
func renderList(subs []Query, sep, empty string) string {
	if len(subs) == 0 {
		return empty
	}
	parts := make([]string, len(subs))
	for i, sub := range subs {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Select evaluates q against src and returns then when it holds, els
// otherwise.
func Select[T any](q Query, src Source, then, els T) T {
	if q.Eval(src) {
		return then
	}
	return els
}

// Require evaluates q against src and returns nil when it holds. Otherwise
// it returns an error wrapping ErrRequirementNotMet that names the query
// and, when the source can enumerate itself, the capabilities present.
func Require(q Query, src Source) error {
	if q == nil {
		panic(ErrNilQuery)
	}
	if q.Eval(src) {
		return nil
	}
	if e, ok := src.(interface{ Names() []string }); ok {
		return fmt.Errorf("%w: want %s, have [%s]", ErrRequirementNotMet, q, strings.Join(e.Names(), " "))
	}
	return fmt.Errorf("%w: want %s", ErrRequirementNotMet, q)
}
