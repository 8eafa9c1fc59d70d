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

package caps

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"tola.dev/caps/apis"
	"tola.dev/caps/builder"
	"tola.dev/caps/capset"
	"tola.dev/caps/config"
	"tola.dev/caps/query"
	uref "tola.dev/caps/utils/reflect"
)

// init initializes the global caps state.
func init() {
	// Initialize state with default cfg, reg, and det.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.det = b.BuildDetector(s.cfg, s.reg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("caps: builder returned nil registry")
	// ErrNilDetector is returned when a builder returns a nil detector.
	ErrNilDetector = errors.New("caps: builder returned nil detector")
)

// Has reports whether the value v carries the named capability, using the
// global caps det. It uses the global caps configuration and reg.
// This is a convenience wrapper around the global det.
func Has(v any, name string) bool {
	s := st.Load()
	return s.det.Detect(v, name, s.cfg)
}

// HasType reports whether the type t carries the named capability, using
// the global caps det. Instance-only evidence (apis.Carrier) is not
// consulted on this path.
// This is a convenience wrapper around the global det.
func HasType(t reflect.Type, name string) bool {
	s := st.Load()
	return s.det.DetectType(t, name, s.cfg)
}

// Of returns every capability the global det can affirm for the value v.
// This is a convenience wrapper around the global det.
func Of(v any) capset.Set {
	s := st.Load()
	return s.det.Capabilities(v, s.cfg)
}

// OfType returns every capability the global det can affirm for the type t.
// This is a convenience wrapper around the global det.
func OfType(t reflect.Type) capset.Set {
	s := st.Load()
	return s.det.CapabilitiesType(t, s.cfg)
}

// CapabilityOf derives the capability that stands for the type t itself:
// its qualified name (per the global configuration) encoded as a
// capability. Two types with the same short name in different packages
// always yield distinct capabilities.
func CapabilityOf(t reflect.Type) (capset.Capability, error) {
	s := st.Load()
	name, err := uref.QualifiedName(t, s.cfg)
	if err != nil {
		return capset.Capability{}, err
	}
	return capset.Cap(name), nil
}

// Check parses expr as a boolean capability expression and evaluates it
// against the value v. Parsed expressions are memoized, so hot call sites
// pay the parse cost once. Malformed expressions return a parse error.
func Check(v any, expr string) (bool, error) {
	q, err := query.ParseCached(expr)
	if err != nil {
		return false, err
	}
	return q.Eval(valueSource{s: st.Load(), v: v}), nil
}

// CheckType is Check for a reflect.Type subject.
func CheckType(t reflect.Type, expr string) (bool, error) {
	q, err := query.ParseCached(expr)
	if err != nil {
		return false, err
	}
	return q.Eval(typeSource{s: st.Load(), t: t}), nil
}

// Require parses expr and returns nil when the value v satisfies it.
// Otherwise it returns an error wrapping query.ErrRequirementNotMet that
// names the failed expression and the capabilities v does carry.
func Require(v any, expr string) error {
	q, err := query.ParseCached(expr)
	if err != nil {
		return err
	}
	return query.Require(q, valueSource{s: st.Load(), v: v})
}

// RequireType is Require for a reflect.Type subject.
func RequireType(t reflect.Type, expr string) error {
	q, err := query.ParseCached(expr)
	if err != nil {
		return err
	}
	return query.Require(q, typeSource{s: st.Load(), t: t})
}

// Grant adds capabilities to a type in the global caps reg.
// This is a convenience wrapper around the global reg.
func Grant(t reflect.Type, names ...string) error {
	return st.Load().reg.Grant(t, names...)
}

// valueSource binds one snapshot and one value so query evaluation sees a
// consistent detector, and Require can enumerate realized capabilities.
type valueSource struct {
	s *state
	v any
}

func (vs valueSource) Has(name string) bool {
	return vs.s.det.Detect(vs.v, name, vs.s.cfg)
}

func (vs valueSource) Names() []string {
	return vs.s.det.Capabilities(vs.v, vs.s.cfg).Names()
}

// typeSource is valueSource for a reflect.Type subject.
type typeSource struct {
	s *state
	t reflect.Type
}

func (ts typeSource) Has(name string) bool {
	return ts.s.det.DetectType(ts.t, name, ts.s.cfg)
}

func (ts typeSource) Names() []string {
	return ts.s.det.CapabilitiesType(ts.t, ts.s.cfg).Names()
}

// SetAll explicitly sets all global caps state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, det apis.Detector, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Detector
	ndet := det
	npdet := false
	if ndet == nil {
		ndet = nbld.BuildDetector(ncfg, nreg, old.det, next)
	} else {
		npdet = true
	}

	// Ensure non-nil reg and det.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if ndet == nil {
		panic(ErrNilDetector)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  next,
			reg:  nreg,
			det:  ndet,
			bld:  nbld,
			preg: npreg,
			pdet: npdet,
		},
	)
}

// Config returns the global caps configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global caps configuration to cfg.
// It rebuilds the global reg and det using the new configuration.
// This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new nreg and det based on the new cfg and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	ndet := old.det
	if !old.pdet {
		ndet = b.BuildDetector(cfg, nreg, old.det, old.ext)
	}

	// Ensure non-nil nreg and det.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if ndet == nil {
		panic(ErrNilDetector)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			det:  ndet,
			bld:  b,
			preg: old.preg,
			pdet: old.pdet,
		},
	)
}

// Registry returns the global caps reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global caps reg to reg.
// It uses the global caps configuration to rebuild the global det.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new det based on the old cfg and new reg.
	ndet := old.det
	if !old.pdet {
		ndet = b.BuildDetector(old.cfg, reg, old.det, old.ext)
	}

	// Ensure non-nil det.
	if ndet == nil {
		panic(ErrNilDetector)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			det:  ndet,
			bld:  b,
			preg: true,
			pdet: old.pdet,
		},
	)
}

// Detector returns the global caps det.
func Detector() apis.Detector {
	return st.Load().det
}

// SetDetector sets the global caps det to det.
// It uses the global caps configuration and reg.
// This is a convenience wrapper around the global state.
func SetDetector(det apis.Detector) {
	if det == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			det:  det,
			bld:  old.bld,
			preg: old.preg,
			pdet: true,
		},
	)
}

// Builder returns the global caps bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global caps bld to b.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and det based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	ndet := old.det
	if !old.pdet {
		ndet = b.BuildDetector(old.cfg, nreg, old.det, old.ext)
	}

	// Ensure non-nil reg and det.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if ndet == nil {
		panic(ErrNilDetector)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			det:  ndet,
			bld:  b,
			preg: old.preg,
			pdet: old.pdet,
		},
	)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg and det based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	ndet := old.det
	if !old.pdet {
		ndet = b.BuildDetector(old.cfg, nreg, old.det, ext)
	}

	// Ensure non-nil reg and det.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if ndet == nil {
		panic(ErrNilDetector)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			det:  ndet,
			bld:  b,
			preg: old.preg,
			pdet: old.pdet,
		},
	)
}

// ExtAs returns the global caps extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global caps reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global caps reg immutable.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			det:  old.det,
			bld:  old.bld,
			preg: true,
			pdet: old.pdet,
		},
	)
}

// UnpinRegistry makes the global caps reg mutable again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			det:  old.det,
			bld:  old.bld,
			preg: false,
			pdet: old.pdet,
		},
	)
}

// IsDetectorPinned returns whether the global caps det is pinned (immutable).
func IsDetectorPinned() bool {
	return st.Load().pdet
}

// PinDetector makes the global caps det immutable.
func PinDetector() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			det:  old.det,
			bld:  old.bld,
			preg: old.preg,
			pdet: true,
		},
	)
}

// UnpinDetector makes the global caps det mutable again.
func UnpinDetector() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			det:  old.det,
			bld:  old.bld,
			preg: old.preg,
			pdet: false,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global caps state.
var st atomic.Pointer[state]

// state is the global caps state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global caps configuration.
	cfg apis.Config
	// ext is the global caps extension configuration.
	ext any
	// reg is the global caps reg.
	reg apis.Registry
	// det is the global caps det.
	det apis.Detector
	// bld is the global caps bld.
	bld apis.Builder
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// pdet indicates whether the det is pinned (immutable).
	pdet bool
}
