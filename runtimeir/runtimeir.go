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

// Package runtimeir embeds the textual runtime IR module shipped with Jet
// (jet.ll) and parses it into an *ir.Module the compiler package binds
// contract functions into.
package runtimeir

import (
	_ "embed"
	"fmt"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

//go:embed jet.ll
var text string

// Text returns the embedded runtime IR source.
func Text() string { return text }

// Parse parses the embedded runtime IR into a fresh *ir.Module. Each engine
// gets its own module so that contract functions built into it don't leak
// across engines.
func Parse() (*ir.Module, error) {
	module, err := asm.ParseString("jet.ll", text)
	if err != nil {
		return nil, fmt.Errorf("runtimeir: parse jet.ll: %w", err)
	}
	return module, nil
}
