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

package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"tola.dev/caps/capset"
)

// manifest is the YAML document capsctl reads named capability sets from:
//
//	sets:
//	  frontend: [render.hot, render.batch]
//	  backend:  [io.reader, kind.comparable]
type manifest struct {
	Sets map[string][]string `yaml:"sets"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// resolveSet builds the capability set selected by the flag combination:
// an explicit --caps list, or a --manifest file plus --set name.
func resolveSet(caps []string, manifestPath, setName string) (capset.Set, error) {
	switch {
	case len(caps) > 0 && manifestPath != "":
		return capset.Set{}, fmt.Errorf("use either --caps or --manifest, not both")
	case len(caps) > 0:
		return capset.NewNames(caps...)
	case manifestPath != "":
		if setName == "" {
			return capset.Set{}, fmt.Errorf("--manifest requires --set NAME")
		}
		m, err := loadManifest(manifestPath)
		if err != nil {
			return capset.Set{}, err
		}
		names, ok := m.Sets[setName]
		if !ok {
			return capset.Set{}, fmt.Errorf("manifest has no set %q", setName)
		}
		slog.Debug("loaded manifest set", "path", manifestPath, "set", setName, "caps", len(names))
		return capset.NewNames(names...)
	default:
		return capset.Set{}, fmt.Errorf("one of --caps or --manifest is required")
	}
}
