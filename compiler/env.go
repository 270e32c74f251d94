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

package compiler

import (
	"github.com/llir/llvm/ir"

	"github.com/tyler-smith/jet/buildopts"
	"github.com/tyler-smith/jet/runtime"
)

// Symbols is the set of runtime builtin declarations and the JIT-engine
// global, looked up by name from the runtime IR module loaded into the
// Env's module.
type Symbols struct {
	JITEngine *ir.Global

	StackPushWord *ir.Func
	StackPop      *ir.Func
	StackPeek     *ir.Func
	StackSwap     *ir.Func

	MemStoreWord *ir.Func
	MemStoreByte *ir.Func
	MemLoad      *ir.Func

	ContractCall               *ir.Func
	ContractCallReturnDataCopy *ir.Func

	Keccak256 *ir.Func
	Math      *ir.Func
}

// NewSymbols resolves every required runtime symbol from module, returning
// a MissingSymbol BuildError naming the first one not found.
func NewSymbols(module *ir.Module) (*Symbols, error) {
	findFunc := func(name string) (*ir.Func, error) {
		for _, f := range module.Funcs {
			if f.Name() == name {
				return f, nil
			}
		}
		return nil, errMissingSymbol(name)
	}
	findGlobal := func(name string) (*ir.Global, error) {
		for _, g := range module.Globals {
			if g.Name() == name {
				return g, nil
			}
		}
		return nil, errMissingSymbol(name)
	}

	var err error
	s := &Symbols{}

	if s.JITEngine, err = findGlobal(runtime.SymbolJITEngine); err != nil {
		return nil, err
	}
	if s.StackPushWord, err = findFunc(runtime.SymbolStackPushWord); err != nil {
		return nil, err
	}
	if s.StackPop, err = findFunc(runtime.SymbolStackPop); err != nil {
		return nil, err
	}
	if s.StackPeek, err = findFunc(runtime.SymbolStackPeek); err != nil {
		return nil, err
	}
	if s.StackSwap, err = findFunc(runtime.SymbolStackSwap); err != nil {
		return nil, err
	}
	if s.MemStoreWord, err = findFunc(runtime.SymbolMemStoreWord); err != nil {
		return nil, err
	}
	if s.MemStoreByte, err = findFunc(runtime.SymbolMemStoreByte); err != nil {
		return nil, err
	}
	if s.MemLoad, err = findFunc(runtime.SymbolMemLoad); err != nil {
		return nil, err
	}
	if s.ContractCall, err = findFunc(runtime.SymbolContractCall); err != nil {
		return nil, err
	}
	if s.ContractCallReturnDataCopy, err = findFunc(runtime.SymbolContractCallReturnDataCopy); err != nil {
		return nil, err
	}
	if s.Keccak256, err = findFunc(runtime.SymbolKeccak256); err != nil {
		return nil, err
	}
	if s.Math, err = findFunc(runtime.SymbolMath); err != nil {
		return nil, err
	}

	return s, nil
}

// Env binds together the IR module under construction, the shared type
// layout, the resolved runtime symbol table, and the active build options.
type Env struct {
	Opts    buildopts.Options
	Module  *ir.Module
	Types   *Types
	Symbols *Symbols
}

// NewEnv builds an Env around runtimeModule (the parsed embedded runtime
// IR, declaring every symbol in Symbols) and opts.
func NewEnv(runtimeModule *ir.Module, opts buildopts.Options) (*Env, error) {
	symbols, err := NewSymbols(runtimeModule)
	if err != nil {
		return nil, err
	}
	typs, err := NewTypes(runtimeModule)
	if err != nil {
		return nil, err
	}
	return &Env{
		Opts:    opts,
		Module:  runtimeModule,
		Types:   typs,
		Symbols: symbols,
	}, nil
}
