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

// Package buildopts carries the build-time configuration of the
// bytecode-to-IR transpiler: mode, virtual-stack lowering, IR dump and
// verification.
package buildopts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects between a debug build and a release build. It only sets the
// log level of the per-contract build line: Info in Debug, Debug in
// Release.
type Mode string

const (
	Debug   Mode = "debug"
	Release Mode = "release"
)

// Options configures one compiler.Env.
type Options struct {
	// Mode selects Debug or Release; affects only logging verbosity, never
	// the emitted IR or the value of Verify.
	Mode Mode `yaml:"mode"`

	// VStack enables the virtual-stack lowering optimization. When false
	// (the default), every PUSH/POP/DUP/SWAP lowers to an immediate builtin
	// call.
	VStack bool `yaml:"vstack"`

	// EmitIR logs the generated module's textual IR at debug level after
	// each contract is built.
	EmitIR bool `yaml:"emit_ir"`

	// Verify runs the IR framework's function and module verifier after
	// building each contract, surfacing failures as BuildError{Kind: Verify}.
	Verify bool `yaml:"verify"`
}

// Default returns the zero-optimization, verification-on Options suitable
// for tests and first-run builds.
func Default() Options {
	return Options{
		Mode:   Debug,
		VStack: false,
		EmitIR: false,
		Verify: true,
	}
}

// Load reads Options from a YAML file, starting from Default() so a
// partial file only overrides what it sets.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("buildopts: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("buildopts: parse %s: %w", path, err)
	}
	return opts, nil
}
