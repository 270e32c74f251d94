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

// Package engine is the JIT backend: it parses the textual runtime IR
// (with every compiled contract function appended), stands up an LLVM
// MCJIT execution engine, links the runtime builtins, and invokes compiled
// contract functions.
package engine

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/ethereum/go-ethereum/log"
	"tinygo.org/x/go-llvm"
)

// jitInit prepares LLVM's native target and MCJIT exactly once per
// process.
var jitInit sync.Once

func initJIT() {
	jitInit.Do(func() {
		llvm.LinkInMCJIT()
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// jitEngine wraps one LLVM MCJIT instance built from a fully-populated IR
// module (runtime declarations plus every compiled contract function).
type jitEngine struct {
	llctx  llvm.Context
	module llvm.Module
	ee     llvm.ExecutionEngine
}

// newJITEngine parses irText and creates an MCJIT execution engine with
// optimization disabled: compile latency matters more here than codegen
// quality. The caller must link the runtime builtins (link) before
// finalizing or resolving any symbol.
func newJITEngine(irText string) (*jitEngine, error) {
	initJIT()

	llctx := llvm.NewContext()
	module, err := parseIRText(llctx, irText)
	if err != nil {
		llctx.Dispose()
		return nil, err
	}

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(0)
	ee, err := llvm.NewMCJITCompiler(module, opts)
	if err != nil {
		llctx.Dispose()
		return nil, fmt.Errorf("jet: create JIT execution engine: %w", err)
	}

	return &jitEngine{llctx: llctx, module: module, ee: ee}, nil
}

// parseIRText round-trips irText through a temp file: the IR reader's
// buffer API is file-based.
func parseIRText(llctx llvm.Context, irText string) (llvm.Module, error) {
	f, err := os.CreateTemp("", "jet-*.ll")
	if err != nil {
		return llvm.Module{}, fmt.Errorf("jet: stage IR: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(irText); err != nil {
		f.Close()
		return llvm.Module{}, fmt.Errorf("jet: stage IR: %w", err)
	}
	if err := f.Close(); err != nil {
		return llvm.Module{}, fmt.Errorf("jet: stage IR: %w", err)
	}

	buf, err := llvm.NewMemoryBufferFromFile(path)
	if err != nil {
		return llvm.Module{}, fmt.Errorf("jet: read staged IR: %w", err)
	}
	module, err := llctx.ParseIR(buf)
	if err != nil {
		return llvm.Module{}, fmt.Errorf("jet: parse IR: %w", err)
	}
	return module, nil
}

// handle is the value the jet.jit_engine global is bound to and the one
// generated CALL lowering hands back through jet.contract.call.
func (j *jitEngine) handle() uintptr {
	return uintptr(unsafe.Pointer(j))
}

// finalize compiles and relocates the module. All global mappings must be
// in place first; no further mappings may be added afterward.
func (j *jitEngine) finalize() {
	j.ee.RunStaticConstructors()
}

// functionAddress looks up a compiled function's native address by its
// mangled symbol name.
func (j *jitEngine) functionAddress(name string) (uintptr, bool) {
	fn := j.module.NamedFunction(name)
	if fn.IsNil() {
		return 0, false
	}
	addr := j.ee.PointerToGlobal(fn)
	if addr == nil {
		return 0, false
	}
	return uintptr(addr), true
}

// addGlobalMapping binds a declared global or function in the module to
// addr, the native address of a Go-backed implementation.
func (j *jitEngine) addGlobalMapping(name string, addr uintptr) {
	global := j.module.NamedGlobal(name)
	if global.IsNil() {
		global = j.module.NamedFunction(name)
	}
	if global.IsNil() {
		log.Error("jet: addGlobalMapping target not found", "symbol", name)
		return
	}
	j.ee.AddGlobalMapping(global, unsafe.Pointer(addr))
}

// dispose releases the LLVM execution engine (which owns the module) and
// the context. Contract functions obtained from this jitEngine must not be
// invoked afterward.
func (j *jitEngine) dispose() {
	j.ee.Dispose()
	j.llctx.Dispose()
}

// verifyModuleText parses irText into a scratch LLVM context and runs the
// module verifier, so a malformed generated function is caught at build
// time rather than surfacing as a JIT parse or link failure.
func verifyModuleText(irText string) error {
	initJIT()

	llctx := llvm.NewContext()
	defer llctx.Dispose()

	module, err := parseIRText(llctx, irText)
	if err != nil {
		return err
	}
	if err := llvm.VerifyModule(module, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("jet: module verification failed: %w", err)
	}
	return nil
}
