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

package engine

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tyler-smith/jet/buildopts"
	"github.com/tyler-smith/jet/compiler"
	"github.com/tyler-smith/jet/runtime"
	"github.com/tyler-smith/jet/runtimeir"
)

// Engine binds JIT-compiled contract entry points to runtime builtin
// addresses and dispatches calls, including recursive inter-contract calls
// resolved at execution time through the JIT symbol table.
//
// An Engine is not safe for concurrent use, and its compiled code must not
// be invoked after Close. Separate Engines may run on disjoint goroutines,
// each owning its own JIT, module and mapped symbols.
type Engine struct {
	opts buildopts.Options
	env  *compiler.Env

	jit *jitEngine
}

// New loads the embedded runtime IR module and builds the Env contract
// functions are appended to.
func New(opts buildopts.Options) (*Engine, error) {
	module, err := runtimeir.Parse()
	if err != nil {
		return nil, err
	}
	env, err := compiler.NewEnv(module, opts)
	if err != nil {
		return nil, err
	}
	return &Engine{opts: opts, env: env}, nil
}

// BuildContract compiles rom and appends it as addr's contract function
// into the engine's module. Must be called for every contract before
// Finalize. Returns a *compiler.BuildError when lowering or verification
// fails; a failed build leaves the module usable for other contracts.
func (e *Engine) BuildContract(addr runtime.Address, rom []byte) error {
	if e.jit != nil {
		return fmt.Errorf("jet: cannot BuildContract after Finalize")
	}

	if err := compiler.BuildContract(e.env, addr, rom); err != nil {
		return err
	}

	if e.opts.EmitIR {
		log.Debug("jet: contract built", "address", addr.Hex(), "ir", e.env.Module.String())
	}
	if e.opts.Verify {
		if err := verifyModuleText(e.env.Module.String()); err != nil {
			// Drop the rejected function so later contracts still verify
			// and the module still parses at Finalize.
			name := runtime.MangleContractFn(addr)
			for i, f := range e.env.Module.Funcs {
				if f.Name() == name {
					e.env.Module.Funcs = append(e.env.Module.Funcs[:i], e.env.Module.Funcs[i+1:]...)
					break
				}
			}
			return &compiler.BuildError{Kind: compiler.Verify, Msg: err.Error(), Wrapped: err}
		}
	}

	buildLog := log.Info
	if e.opts.Mode == buildopts.Release {
		buildLog = log.Debug
	}
	buildLog("jet: contract built", "address", addr.Hex(), "rom_bytes", len(rom))
	return nil
}

// Finalize constructs the JIT execution engine from the accumulated module
// and binds every runtime builtin plus the jet.jit_engine self-pointer
// global. Must be called exactly once, after every contract the caller
// intends to run has been built.
func (e *Engine) Finalize() error {
	if e.jit != nil {
		return fmt.Errorf("jet: engine already finalized")
	}

	jit, err := newJITEngine(e.env.Module.String())
	if err != nil {
		return err
	}

	jit.link(sharedBuiltinCallbacks())
	e.jit = jit
	registerEngineLookup(jit.handle(), e.lookup)
	jit.finalize()

	log.Info("jet: engine finalized")
	return nil
}

// Close releases the JIT execution engine. No compiled contract function
// obtained from this Engine may be invoked afterward.
func (e *Engine) Close() {
	if e.jit != nil {
		unregisterEngineLookup(e.jit.handle())
		e.jit.dispose()
		e.jit = nil
	}
}

// lookup resolves a mangled contract symbol to a callable ContractFunc
// through this Engine's JIT. It serves both RunContract and — via the
// engine-handle registry in bind.go — the contract_call builtin's
// re-entry for nested CALLs.
func (e *Engine) lookup(symbol string) (runtime.ContractFunc, bool) {
	addr, ok := e.jit.functionAddress(symbol)
	if !ok {
		return nil, false
	}
	return castContractFunc(addr), true
}

// RunContract looks up addr's compiled entry point, allocates a fresh
// Context, and invokes the function with (&ctx, blockInfo), returning its
// ReturnCode and the resulting Context.
func (e *Engine) RunContract(addr runtime.Address, blockInfo *runtime.BlockInfo) (runtime.ReturnCode, *runtime.Context, error) {
	if e.jit == nil {
		return 0, nil, fmt.Errorf("jet: RunContract called before Finalize")
	}

	symbol := runtime.MangleContractFn(addr)
	fn, ok := e.lookup(symbol)
	if !ok {
		return 0, nil, fmt.Errorf("jet: no compiled contract at %s", addr.Hex())
	}

	ctx := runtime.NewContext()
	code := fn(ctx, blockInfo)
	return code, ctx, nil
}

// nativeContractFunc mirrors the compiled function signature:
// i8(%exec_ctx*, %block_info*).
type nativeContractFunc func(ctx, blockInfo uintptr) int8

// castContractFunc wraps a raw JIT-resolved function address as a
// runtime.ContractFunc.
func castContractFunc(addr uintptr) runtime.ContractFunc {
	var native nativeContractFunc
	purego.RegisterFunc(&native, addr)

	return func(ctx *runtime.Context, blockInfo *runtime.BlockInfo) runtime.ReturnCode {
		code := native(uintptr(unsafe.Pointer(ctx)), uintptr(unsafe.Pointer(blockInfo)))
		return runtime.ReturnCode(code)
	}
}
