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
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tyler-smith/jet/runtime"
)

// engineLookups maps a live jitEngine's handle (the value its
// jet.jit_engine global is bound to) to the contract-function lookup of
// the Engine that owns it. Generated CALL lowering passes the handle back
// through jet.contract.call, and the callback below resolves it here —
// this is what lets one shared set of callback signatures serve any number
// of concurrently-live engines, each re-entering only itself.
var (
	engineLookupsMu sync.Mutex
	engineLookups   = make(map[uintptr]runtime.FunctionLookup)
)

func registerEngineLookup(handle uintptr, lookup runtime.FunctionLookup) {
	engineLookupsMu.Lock()
	defer engineLookupsMu.Unlock()
	engineLookups[handle] = lookup
}

func unregisterEngineLookup(handle uintptr) {
	engineLookupsMu.Lock()
	defer engineLookupsMu.Unlock()
	delete(engineLookups, handle)
}

func engineLookup(handle uintptr) (runtime.FunctionLookup, bool) {
	engineLookupsMu.Lock()
	defer engineLookupsMu.Unlock()
	lookup, ok := engineLookups[handle]
	return lookup, ok
}

// builtinCallbacks holds the native-callable function pointers produced by
// purego.NewCallback for the runtime builtins, one set shared by every
// jitEngine in the process (see sharedBuiltinCallbacks). purego builds a
// small machine-code trampoline per callback that lets C-ABI JIT-compiled
// code invoke an arbitrary Go function, which is how generated contract
// code reaches runtime.* without a cgo build step.
type builtinCallbacks struct {
	stackPushWord uintptr
	stackPop      uintptr
	stackPeek     uintptr
	stackSwap     uintptr

	memStoreWord uintptr
	memStoreByte uintptr
	memLoad      uintptr

	contractCall               uintptr
	contractCallReturnDataCopy uintptr

	keccak256 uintptr
	math      uintptr
}

// The callbacks are stateless (every builtin receives its Context as the
// first argument), so one process-wide set serves every Engine. purego
// caps the number of live callbacks per process and never releases them,
// which rules out a per-engine set.
var (
	callbacksOnce sync.Once
	callbacks     *builtinCallbacks
)

func sharedBuiltinCallbacks() *builtinCallbacks {
	callbacksOnce.Do(func() {
		callbacks = newBuiltinCallbacks()
	})
	return callbacks
}

func newBuiltinCallbacks() *builtinCallbacks {
	return &builtinCallbacks{
		stackPushWord: purego.NewCallback(func(ctx, word uintptr) uintptr {
			ok := runtime.StackPushPtr(ctxFromPtr(ctx), wordFromPtr(word))
			return boolToUintptr(ok)
		}),
		stackPop: purego.NewCallback(func(ctx uintptr) uintptr {
			w, ok := runtime.StackPop(ctxFromPtr(ctx))
			if !ok {
				return 0
			}
			return uintptr(unsafe.Pointer(w))
		}),
		stackPeek: purego.NewCallback(func(ctx uintptr, idx uintptr) uintptr {
			w, ok := runtime.StackPeek(ctxFromPtr(ctx), uint8(idx))
			if !ok {
				return 0
			}
			return uintptr(unsafe.Pointer(w))
		}),
		stackSwap: purego.NewCallback(func(ctx uintptr, idx uintptr) uintptr {
			ok := runtime.StackSwap(ctxFromPtr(ctx), uint8(idx))
			return boolToUintptr(ok)
		}),

		memStoreWord: purego.NewCallback(func(ctx uintptr, loc uintptr, word uintptr) uintptr {
			return uintptr(runtime.MemStoreWord(ctxFromPtr(ctx), uint32(loc), wordFromPtr(word)))
		}),
		memStoreByte: purego.NewCallback(func(ctx uintptr, loc uintptr, b uintptr) uintptr {
			return uintptr(runtime.MemStoreByte(ctxFromPtr(ctx), uint32(loc), byte(b)))
		}),
		memLoad: purego.NewCallback(func(ctx uintptr, loc uintptr) uintptr {
			w := runtime.MemLoad(ctxFromPtr(ctx), uint32(loc))
			return uintptr(unsafe.Pointer(w))
		}),

		contractCall: purego.NewCallback(func(ctx, handle, blockInfo, addr uintptr, retDest, retLen uintptr) uintptr {
			lookup, ok := engineLookup(handle)
			if !ok {
				log.Error("jet: contract_call from unknown engine handle", "handle", handle)
				return uintptr(runtime.CallLookupFailed)
			}
			calleeAddr := runtime.AddressFromWord(*wordFromPtr(addr))
			result := runtime.ContractCall(ctxFromPtr(ctx), blockInfoFromPtr(blockInfo), lookup,
				calleeAddr, uint32(retDest), uint32(retLen))
			return uintptr(result)
		}),
		contractCallReturnDataCopy: purego.NewCallback(func(ctx, sub uintptr, destOff, srcOff, length uintptr) uintptr {
			result := runtime.ContractCallReturnDataCopy(ctxFromPtr(ctx), ctxFromPtr(sub),
				uint32(destOff), uint32(srcOff), uint32(length))
			return uintptr(result)
		}),

		keccak256: purego.NewCallback(func(ctx uintptr) uintptr {
			return uintptr(runtime.Keccak256(ctxFromPtr(ctx)))
		}),
		math: purego.NewCallback(func(ctx uintptr, mathOp uintptr) uintptr {
			return uintptr(runtime.Math(ctxFromPtr(ctx), uint8(mathOp)))
		}),
	}
}

func ctxFromPtr(p uintptr) *runtime.Context { return (*runtime.Context)(unsafe.Pointer(p)) }
func blockInfoFromPtr(p uintptr) *runtime.BlockInfo {
	return (*runtime.BlockInfo)(unsafe.Pointer(p))
}
func wordFromPtr(p uintptr) *runtime.Word { return (*runtime.Word)(unsafe.Pointer(p)) }

func boolToUintptr(ok bool) uintptr {
	if ok {
		return 1
	}
	return 0
}

// link binds every runtime builtin plus the jitEngine's own self-pointer
// global into j. Must run before finalize.
func (j *jitEngine) link(cb *builtinCallbacks) {
	j.addGlobalMapping(runtime.SymbolStackPushWord, cb.stackPushWord)
	j.addGlobalMapping(runtime.SymbolStackPop, cb.stackPop)
	j.addGlobalMapping(runtime.SymbolStackPeek, cb.stackPeek)
	j.addGlobalMapping(runtime.SymbolStackSwap, cb.stackSwap)

	j.addGlobalMapping(runtime.SymbolMemStoreWord, cb.memStoreWord)
	j.addGlobalMapping(runtime.SymbolMemStoreByte, cb.memStoreByte)
	j.addGlobalMapping(runtime.SymbolMemLoad, cb.memLoad)

	j.addGlobalMapping(runtime.SymbolContractCall, cb.contractCall)
	j.addGlobalMapping(runtime.SymbolContractCallReturnDataCopy, cb.contractCallReturnDataCopy)

	j.addGlobalMapping(runtime.SymbolKeccak256, cb.keccak256)
	j.addGlobalMapping(runtime.SymbolMath, cb.math)

	j.bindSelf()
}

// bindSelf maps the jet.jit_engine global to this jitEngine's own address.
// Generated code passes that address — the global's link-time location —
// into jet.contract.call, closing the loop back to the engine that
// produced it.
func (j *jitEngine) bindSelf() {
	global := j.module.NamedGlobal(runtime.SymbolJITEngine)
	if global.IsNil() {
		log.Error("jet: runtime IR missing engine handle global", "symbol", runtime.SymbolJITEngine)
		return
	}
	j.ee.AddGlobalMapping(global, unsafe.Pointer(j))
}
