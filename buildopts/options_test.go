// Copyright 2025 The jet Authors
// This file is part of the jet library.
//
// The jet library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The jet library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the jet library. If not, see <http://www.gnu.org/licenses/>.

package buildopts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	opts := Default()
	require.Equal(t, Debug, opts.Mode)
	require.False(t, opts.VStack)
	require.False(t, opts.EmitIR)
	require.True(t, opts.Verify)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := writeConfig(t, "mode: release\nvstack: true\n")

	opts, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Release, opts.Mode)
	require.True(t, opts.VStack)
	// Untouched fields keep their defaults.
	require.True(t, opts.Verify)
	require.False(t, opts.EmitIR)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, "mode: release\nvstack: true\nemit_ir: true\nverify: false\n")

	opts, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Options{Mode: Release, VStack: true, EmitIR: true, Verify: false}, opts)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "mode: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}
