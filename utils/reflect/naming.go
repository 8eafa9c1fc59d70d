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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"
	"sync"

	"tola.dev/caps/apis"
)

// ErrReflectBuiltinExcluded is returned when a builtin/no-package type would
// be the naming subject but Config.IncludeBuiltins is false.
var ErrReflectBuiltinExcluded = errors.New("reflect: builtin types excluded by config")

// nameKey ensures memoization respects all config knobs that affect naming.
type nameKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// qualifiedResult caches both outcomes of a QualifiedName call so repeated
// failures are as cheap as repeated successes.
type qualifiedResult struct {
	name string
	err  error
}

var (
	qualifiedNameCache sync.Map // key: nameKey, val: qualifiedResult
	displayNameCache   sync.Map // key: nameKey, val: string
)

// QualifiedName returns the full "pkgpath.Name" of the nearest named type
// inside t (e.g., "text/template.Template"). Generic instantiations keep
// their type arguments: distinct instantiations name distinct subjects.
// Builtin/no-package types yield their bare name when cfg.IncludeBuiltins,
// and ErrReflectBuiltinExcluded otherwise.
//
// The qualified name is the identity of a capability subject. Two types with
// the same short name in different packages always qualify differently.
func QualifiedName(t reflect.Type, cfg apis.Config) (string, error) {
	key := nameKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := qualifiedNameCache.Load(key); ok {
		r := v.(qualifiedResult)
		return r.name, r.err
	}

	name, err := qualifiedName(t, cfg)
	qualifiedNameCache.Store(key, qualifiedResult{name: name, err: err})
	return name, err
}

func qualifiedName(t reflect.Type, cfg apis.Config) (string, error) {
	base, err := Normalize(t, cfg)
	if err != nil {
		return "", err
	}
	if p := base.PkgPath(); p != "" {
		return p + "." + base.Name(), nil
	}
	if !cfg.IncludeBuiltins {
		return "", ErrReflectBuiltinExcluded
	}
	return base.Name(), nil
}

// DisplayName returns a short "pkgbase.Name" with generic parameters
// stripped, for logs and diagnostics. Returns "" when no name can be
// derived. Never use the display name for identity: distinct packages can
// share a display name.
func DisplayName(t reflect.Type, cfg apis.Config) string {
	key := nameKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := displayNameCache.Load(key); ok {
		return v.(string)
	}

	name := displayName(t, cfg)
	displayNameCache.Store(key, name)
	return name
}

func displayName(t reflect.Type, cfg apis.Config) string {
	base, err := Normalize(t, cfg)
	if err != nil {
		return ""
	}
	name := StripTypeParams(base.Name())
	if p := base.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	if !cfg.IncludeBuiltins {
		return ""
	}
	return name
}

// StripTypeParams removes a generic type instantiation suffix:
// "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
