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
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"github.com/tyler-smith/jet/runtime"
)

// BuildCtx carries everything one contract function's lowering needs:
// the shared Env, the function and registers being built, the vstack, and
// the IR block currently being appended to. contract.go creates a fresh
// BuildCtx (and with it an empty vstack) for each CodeBlock.
type BuildCtx struct {
	Env       *Env
	Func      *ir.Func
	Registers *Registers
	VStack    *vstack
	Block     *ir.Block

	// PendingCond is set by lowerJumpI to the compare of the popped
	// condition against zero, for contract.go to build the conditional
	// branch terminator after lowering finishes. Always nil otherwise.
	PendingCond value.Value
}

func newBuildCtx(env *Env, fn *ir.Func, regs *Registers, entry *ir.Block) *BuildCtx {
	return &BuildCtx{
		Env:       env,
		Func:      fn,
		Registers: regs,
		VStack:    newVstack(env.Opts.VStack),
		Block:     entry,
	}
}

// allocaWord spills val (an i256) to a fresh stack slot and returns a
// pointer to it, the shape the push and mem-store builtins expect.
func (b *BuildCtx) allocaWord(val value.Value) value.Value {
	slot := b.Block.NewAlloca(b.Env.Types.I256)
	b.Block.NewStore(val, slot)
	return slot
}

// callStackPushPtr emits an immediate call to the real-stack push builtin.
func (b *BuildCtx) callStackPushPtr(ptr value.Value) {
	b.Block.NewCall(b.Env.Symbols.StackPushWord, b.Registers.ExecCtx, ptr)
}

// callStackPopPtr emits an immediate call to the real-stack pop builtin and
// loads the resulting word.
func (b *BuildCtx) callStackPopPtr() value.Value {
	ptr := b.Block.NewCall(b.Env.Symbols.StackPop, b.Registers.ExecCtx)
	return b.Block.NewLoad(b.Env.Types.I256, ptr)
}

// pushWord pushes val (an i256), going through the vstack when enabled.
func (b *BuildCtx) pushWord(val value.Value) {
	if b.Env.Opts.VStack {
		b.VStack.push(val)
		return
	}
	b.callStackPushPtr(b.allocaWord(val))
}

// popWord pops and returns an i256, draining the vstack first when enabled
// and falling back to the real stack otherwise.
func (b *BuildCtx) popWord() value.Value {
	if b.Env.Opts.VStack {
		if val, ok := b.VStack.pop(); ok {
			return val
		}
	}
	return b.callStackPopPtr()
}

// popWords pops n words top-first: popWords(2)[0] is the value popped
// first, the prior top of stack.
func (b *BuildCtx) popWords(n int) []value.Value {
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		out[i] = b.popWord()
	}
	return out
}

// syncVStack flushes every value currently carried in the vstack to the
// real stack, in push order, and clears it. Must precede every observation
// point: jumps, terminators, and any builtin call that inspects the real
// stack.
func (b *BuildCtx) syncVStack() {
	if !b.Env.Opts.VStack {
		return
	}
	for _, val := range b.VStack.drain() {
		b.callStackPushPtr(b.allocaWord(val))
	}
}

// buildReturn syncs the vstack and emits a terminating ret of the given
// ReturnCode.
func (b *BuildCtx) buildReturn(code runtime.ReturnCode) {
	b.syncVStack()
	b.Block.NewRet(constant.NewInt(b.Env.Types.I8, int64(code)))
}

// zextToWord widens a narrower integer value to i256.
func (b *BuildCtx) zextToWord(val value.Value) value.Value {
	return b.Block.NewZExt(val, b.Env.Types.I256)
}

// constant8 builds an i8 ReturnCode constant.
func constant8(env *Env, code runtime.ReturnCode) value.Value {
	return constant.NewInt(env.Types.I8, int64(code))
}
