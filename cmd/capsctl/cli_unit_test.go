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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func writeTempManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseManifest(t *testing.T) {
	m, err := parseManifest([]byte("sets:\n  frontend: [render.hot, render.batch]\n  empty: []\n"))
	require.NoError(t, err)
	require.Len(t, m.Sets, 2)
	assert.Equal(t, []string{"render.hot", "render.batch"}, m.Sets["frontend"])
	assert.Empty(t, m.Sets["empty"])

	_, err = parseManifest([]byte("sets: [not, a, map]"))
	assert.Error(t, err)
}

func TestResolveSet(t *testing.T) {
	manifestPath := writeTempManifest(t, "sets:\n  web: [render.hot, io.reader]\n")

	t.Run("caps only", func(t *testing.T) {
		set, err := resolveSet([]string{"a", "b"}, "", "")
		require.NoError(t, err)
		assert.True(t, set.Has("a"))
		assert.True(t, set.Has("b"))
		assert.False(t, set.Has("c"))
	})

	t.Run("manifest set", func(t *testing.T) {
		set, err := resolveSet(nil, manifestPath, "web")
		require.NoError(t, err)
		assert.True(t, set.Has("render.hot"))
		assert.True(t, set.Has("io.reader"))
	})

	t.Run("both flags", func(t *testing.T) {
		_, err := resolveSet([]string{"a"}, manifestPath, "web")
		assert.ErrorContains(t, err, "not both")
	})

	t.Run("neither flag", func(t *testing.T) {
		_, err := resolveSet(nil, "", "")
		assert.ErrorContains(t, err, "required")
	})

	t.Run("manifest without set name", func(t *testing.T) {
		_, err := resolveSet(nil, manifestPath, "")
		assert.ErrorContains(t, err, "--set")
	})

	t.Run("unknown set name", func(t *testing.T) {
		_, err := resolveSet(nil, manifestPath, "nope")
		assert.ErrorContains(t, err, `"nope"`)
	})

	t.Run("missing manifest file", func(t *testing.T) {
		_, err := resolveSet(nil, filepath.Join(t.TempDir(), "absent.yaml"), "web")
		assert.Error(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := resolveSet([]string{"a", "a"}, "", "")
		assert.Error(t, err)
	})
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "", formatPath(nil))
	assert.Equal(t, "0", formatPath([]uint8{0}))
	assert.Equal(t, "e 3 f", formatPath([]uint8{0xE, 0x3, 0xF}))
}

func TestRunRoute(t *testing.T) {
	cmd, buf := newBufferedCommand()
	require.NoError(t, runRoute(cmd, []string{"io.reader"}))

	out := buf.String()
	// FNV-1a 64 of "io.reader"; a 9-byte name lands in the 16-byte tier.
	assert.Contains(t, out, "io.reader")
	assert.Contains(t, out, "0x038f9f1670961f3e")
	assert.Contains(t, out, "tier16")
}

func TestRunEval(t *testing.T) {
	restore := func() {
		evalExpr, evalCaps, evalManifest, evalSet = "", nil, "", ""
		exitCode = 0
	}

	t.Run("holds", func(t *testing.T) {
		defer restore()
		evalExpr, evalCaps = "a & !b", []string{"a", "c"}

		cmd, buf := newBufferedCommand()
		require.NoError(t, runEval(cmd, nil))
		assert.Equal(t, "true\n", buf.String())
		assert.Equal(t, 0, exitCode)
	})

	t.Run("does not hold", func(t *testing.T) {
		defer restore()
		evalExpr, evalCaps = "a & b", []string{"a"}

		cmd, buf := newBufferedCommand()
		require.NoError(t, runEval(cmd, nil))
		assert.Equal(t, "false\n", buf.String())
		assert.Equal(t, 1, exitCode)
	})

	t.Run("malformed expression", func(t *testing.T) {
		defer restore()
		evalExpr, evalCaps = "a &", []string{"a"}

		cmd, _ := newBufferedCommand()
		assert.Error(t, runEval(cmd, nil))
	})

	t.Run("manifest source", func(t *testing.T) {
		defer restore()
		evalExpr = "render.hot | render.batch"
		evalManifest = writeTempManifest(t, "sets:\n  web: [render.hot]\n")
		evalSet = "web"

		cmd, buf := newBufferedCommand()
		require.NoError(t, runEval(cmd, nil))
		assert.Equal(t, "true\n", buf.String())
	})
}

func TestRunInspect(t *testing.T) {
	defer func() { inspectCaps, inspectManifest, inspectSet = nil, "", "" }()
	inspectCaps = []string{"io.reader", "render.hot"}

	cmd, buf := newBufferedCommand()
	require.NoError(t, runInspect(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "io.reader")
	assert.Contains(t, out, "0x038f9f1670961f3e")
	assert.Contains(t, out, "render.hot")
	assert.Contains(t, out, "0xdefcda5a6536a930")
}

func TestRunTraits(t *testing.T) {
	cmd, buf := newBufferedCommand()
	require.NoError(t, runTraits(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "fmt.stringer")
	assert.Contains(t, out, "kind.comparable")
	assert.Contains(t, out, "method.clone")
}
