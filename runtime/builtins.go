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

package runtime

import (
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/crypto/sha3"
)

// FunctionLookup resolves a mangled contract symbol name to a callable
// contract function. The engine supplies this (it owns the JIT symbol
// table); runtime builtins never talk to the JIT directly.
type FunctionLookup func(symbol string) (ContractFunc, bool)

// ContractFunc is the signature every compiled contract function has:
// (ctx, blockInfo) -> ReturnCode.
type ContractFunc func(ctx *Context, blockInfo *BlockInfo) ReturnCode

// StackPushPtr pushes the word pointed to by word onto ctx's stack.
// Backs jet.stack.push.word.
func StackPushPtr(ctx *Context, word *Word) bool {
	return ctx.StackPush(*word)
}

// StackPop pops the top word off ctx's stack, returning a pointer to the
// vacated slot (stable until the next push) and whether the pop succeeded.
// Backs jet.stack.pop.
func StackPop(ctx *Context) (*Word, bool) {
	return ctx.StackPopPtr()
}

// StackPeek returns a pointer into ctx's stack at depth idx from the top,
// without popping. Backs jet.stack.peek.
func StackPeek(ctx *Context, idx uint8) (*Word, bool) {
	return ctx.StackPeek(idx)
}

// StackSwap exchanges the top of ctx's stack with the word idx+1 below it.
// Backs jet.stack.swap.
func StackSwap(ctx *Context, idx uint8) bool {
	return ctx.StackSwap(idx)
}

// MemStoreWord writes a 32-byte word into ctx's memory at loc. Backs
// jet.mem.store.word. Bounds are grown as needed; MemoryLen tracking of
// the logical extent is not enforced against reads.
func MemStoreWord(ctx *Context, loc uint32, word *Word) int8 {
	ctx.MemStoreWord(loc, *word)
	return 0
}

// MemStoreByte writes a single byte into ctx's memory at loc. Backs
// jet.mem.store.byte.
func MemStoreByte(ctx *Context, loc uint32, b byte) int8 {
	ctx.MemStoreByte(loc, b)
	return 0
}

// MemLoad returns a pointer to the 32-byte window at loc in ctx's memory.
// Backs jet.mem.load.
func MemLoad(ctx *Context, loc uint32) *Word {
	return ctx.MemLoadPtr(loc)
}

// ContractCallReturnDataCopy copies requestedLen bytes of sub's return
// data (starting at srcOff within it) into ctx's memory at destOff. Backs
// jet.contracts.call_return_data_copy.
func ContractCallReturnDataCopy(ctx, sub *Context, destOff, srcOff, requestedLen uint32) ContractCallResult {
	if srcOff+requestedLen > sub.ReturnLen {
		return CallReturnDataSrcOOB
	}
	if sub.ReturnOff+sub.ReturnLen > uint32(len(sub.Memory)) {
		return CallReturnDataRangeOOB
	}

	src := sub.ReturnData()[srcOff : srcOff+requestedLen]
	ctx.ensureMemory(destOff + requestedLen)
	copy(ctx.Memory[destOff:destOff+requestedLen], src)
	return CallOK
}

// ContractCall is the dynamic-dispatch core behind the CALL opcode: it
// canonicalizes the callee address, resolves it through lookup, installs a
// fresh sub-context, invokes the callee, and copies back up to retLen
// bytes of return data to ctx's memory at retDest.
func ContractCall(ctx *Context, blockInfo *BlockInfo, lookup FunctionLookup, addr Address, retDest, retLen uint32) ContractCallResult {
	canonical := ReverseAddress(addr)
	symbol := MangleContractFn(canonical)

	fn, ok := lookup(symbol)
	if !ok {
		log.Debug("jet: contract_call lookup failed", "symbol", symbol)
		return CallLookupFailed
	}

	callee := ctx.InitSubCall()
	result := fn(callee, blockInfo)
	if result != ExplicitReturn && result != ImplicitReturn {
		log.Debug("jet: contract_call invocation failed", "symbol", symbol, "result", result)
		return CallInvocationFailed
	}

	if callee.ReturnLen == 0 {
		return CallOK
	}

	n := retLen
	if callee.ReturnLen < n {
		n = callee.ReturnLen
	}
	return ContractCallReturnDataCopy(ctx, callee, retDest, 0, n)
}

// Keccak256 hashes the 32-byte word at the top of ctx's stack in place and
// leaves the digest there. Backs jet.ops.keccak256.
func Keccak256(ctx *Context) int8 {
	word, ok := ctx.StackPeek(0)
	if !ok {
		return 1 // stack underflow
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(word[:])
	copy(word[:], h.Sum(nil))
	return 0
}
