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

package query

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmptyExpression is returned when the input is empty or whitespace.
	ErrEmptyExpression = errors.New("caps(query): empty expression")
	// ErrUnexpectedToken is wrapped when a name or group was expected.
	ErrUnexpectedToken = errors.New("caps(query): unexpected token")
	// ErrUnbalancedParen is wrapped when a group is never closed.
	ErrUnbalancedParen = errors.New("caps(query): unbalanced parenthesis")
	// ErrTrailingInput is wrapped when input remains after a complete expression.
	ErrTrailingInput = errors.New("caps(query): trailing input")
)

// Parse compiles a textual capability expression into a Query.
//
// Grammar, loosest binding first:
//
//	expr    = and ('|' and)*
//	and     = unary ('&' unary)*
//	unary   = '!' unary | primary
//	primary = '(' expr ')' | NAME
//
// A NAME is any nonempty run of characters other than '!', '&', '|',
// parentheses and whitespace, so dotted and slashed capability names parse
// without quoting. Errors wrap ErrEmptyExpression, ErrUnexpectedToken,
// ErrUnbalancedParen or ErrTrailingInput and carry the byte position of the
// offending input.
func Parse(expr string) (Query, error) {
	p := &parser{in: expr}
	p.skipSpace()
	if p.eof() {
		return nil, ErrEmptyExpression
	}
	q, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("%w at position %d: %q", ErrTrailingInput, p.pos, p.in[p.pos:])
	}
	return q, nil
}

// MustParse is Parse for expressions known to be valid; it panics on error.
func MustParse(expr string) Query {
	q, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return q
}

// parseResult caches both outcomes of a Parse call so repeated failures are
// as cheap as repeated successes.
type parseResult struct {
	q   Query
	err error
}

var parseCache sync.Map // key: string, val: parseResult

// ParseCached is Parse with per-expression memoization. Repeated calls with
// the same string return the identical Query value, so hot paths pay the
// parse cost once.
func ParseCached(expr string) (Query, error) {
	if v, ok := parseCache.Load(expr); ok {
		r := v.(parseResult)
		return r.q, r.err
	}
	q, err := Parse(expr)
	parseCache.Store(expr, parseResult{q: q, err: err})
	return q, err
}

type parser struct {
	in  string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) peek() byte { return p.in[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.in[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseOr() (Query, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	subs := []Query{first}
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '|' {
			break
		}
		p.pos++
		sub, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 1 {
		return first, nil
	}
	return &orQuery{subs: subs}, nil
}

func (p *parser) parseAnd() (Query, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	subs := []Query{first}
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '&' {
			break
		}
		p.pos++
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 1 {
		return first, nil
	}
	return &andQuery{subs: subs}, nil
}

func (p *parser) parseUnary() (Query, error) {
	p.skipSpace()
	if !p.eof() && p.peek() == '!' {
		p.pos++
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notQuery{sub: sub}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Query, error) {
	p.skipSpace()
	if p.eof() {
		return nil, fmt.Errorf("%w: want a name or group at position %d, got end of expression", ErrUnexpectedToken, p.pos)
	}
	if p.peek() == '(' {
		open := p.pos
		p.pos++
		q, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return nil, fmt.Errorf("%w: group opened at position %d is never closed", ErrUnbalancedParen, open)
		}
		p.pos++
		return q, nil
	}

	start := p.pos
	for !p.eof() && !isDelimiter(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("%w %q at position %d", ErrUnexpectedToken, string(p.peek()), p.pos)
	}
	return &hasQuery{name: p.in[start:p.pos]}, nil
}

func isDelimiter(b byte) bool {
	switch b {
	case '!', '&', '|', '(', ')', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
