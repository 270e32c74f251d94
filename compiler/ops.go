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
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tyler-smith/jet/instructions"
	"github.com/tyler-smith/jet/runtime"
)

// %block_info field indices, matching runtime.BlockInfo's declared field
// order (see runtime/blockinfo.go on why Hash and Coinbase precede
// HashHistory there).
const (
	fieldBINumber      = 0
	fieldBIDifficulty  = 1
	fieldBIGasLimit    = 2
	fieldBITimestamp   = 3
	fieldBIBaseFee     = 4
	fieldBIBlobBaseFee = 5
	fieldBIChainID     = 6
	fieldBIHash        = 7
	fieldBICoinbase    = 8
)

// zero256 is the i256 zero constant, used by several opcode lowerings.
func zero256(t *Types) *constant.Int { return constant.NewInt(t.I256, 0) }

// lowerItem lowers a single decoded item into b.Block, the current block.
// It never changes b.Block to a different block — branches and the final
// per-CodeBlock terminator are contract.go's responsibility.
func lowerItem(b *BuildCtx, item instructions.IteratorItem) error {
	switch item.Kind {
	case instructions.ItemInvalid:
		return errUnknown(item.PC, byte(item.Instr))
	case instructions.ItemPushData:
		return lowerPush(b, item)
	}

	instr := item.Instr

	if instr.IsPush() {
		// PUSH0: no immediate, the iterator yields it without push data.
		return lowerPush(b, item)
	}
	if instr.IsDup() {
		return lowerDup(b, instr.DupIndex())
	}
	if instr.IsSwap() {
		return lowerSwap(b, instr.SwapIndex())
	}

	if instructions.IsUnimplemented(instr) {
		return errUnimplemented(item.PC, instr)
	}

	switch instr {
	case instructions.JUMPDEST:
		// Block partitioning consumes JUMPDEST bytes; one reaching dispatch
		// means the partitioning is broken.
		return errUnexpected(item.PC, instr)

	case instructions.STOP:
		b.buildReturn(runtime.Stop)
		return nil
	case instructions.RETURN:
		return lowerReturn(b)
	case instructions.REVERT:
		b.buildReturn(runtime.Revert)
		return nil
	case instructions.INVALID:
		b.buildReturn(runtime.Invalid)
		return nil

	case instructions.ADD:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewAdd(x, y) })
	case instructions.SUB:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewSub(x, y) })
	case instructions.MUL:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewMul(x, y) })
	case instructions.DIV:
		return lowerMath(b, runtime.MathDiv)
	case instructions.SDIV:
		return lowerMath(b, runtime.MathSDiv)
	case instructions.MOD:
		return lowerMath(b, runtime.MathMod)
	case instructions.SMOD:
		return lowerMath(b, runtime.MathSMod)
	case instructions.ADDMOD:
		return lowerMath(b, runtime.MathAddMod)
	case instructions.MULMOD:
		return lowerMath(b, runtime.MathMulMod)
	case instructions.EXP:
		return lowerStubBinOp(b)
	case instructions.SIGNEXTEND:
		return lowerStubBinOp(b)

	case instructions.LT:
		return lowerCmp(b, enum.IPredULT)
	case instructions.GT:
		return lowerCmp(b, enum.IPredUGT)
	case instructions.SLT:
		return lowerCmp(b, enum.IPredSLT)
	case instructions.SGT:
		return lowerCmp(b, enum.IPredSGT)
	case instructions.EQ:
		return lowerCmp(b, enum.IPredEQ)
	case instructions.ISZERO:
		return lowerIsZero(b)
	case instructions.AND:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewAnd(x, y) })
	case instructions.OR:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewOr(x, y) })
	case instructions.XOR:
		return lowerBinOp(b, func(x, y value.Value) value.Value { return b.Block.NewXor(x, y) })
	case instructions.NOT:
		return lowerNot(b)
	case instructions.BYTE:
		return lowerByte(b)
	case instructions.SHL:
		return lowerShift(b, false, false)
	case instructions.SHR:
		return lowerShift(b, true, false)
	case instructions.SAR:
		return lowerShift(b, true, true)

	case instructions.KECCAK256:
		return lowerKeccak256(b)

	case instructions.POP:
		b.popWord()
		return nil
	case instructions.MLOAD:
		return lowerMLoad(b)
	case instructions.MSTORE:
		return lowerMStore(b)
	case instructions.MSTORE8:
		return lowerMStore8(b)

	case instructions.JUMP:
		return lowerJump(b, item.PC)
	case instructions.JUMPI:
		return lowerJumpI(b, item.PC)
	case instructions.PC:
		b.pushWord(constant.NewInt(b.Env.Types.I256, int64(item.PC)))
		return nil

	case instructions.BLOCKHASH:
		return lowerBlockHash(b)

	case instructions.CALL:
		return lowerCall(b)
	case instructions.RETURNDATASIZE:
		return lowerReturnDataSize(b)
	case instructions.RETURNDATACOPY:
		return lowerReturnDataCopy(b)
	}

	return errUnknown(item.PC, byte(instr))
}

// --- push / dup / swap ---------------------------------------------------

// lowerPush folds the PUSH immediate into an i256 constant at build time
// and pushes it; an immediate never round-trips through the real stack as
// raw bytes.
func lowerPush(b *BuildCtx, item instructions.IteratorItem) error {
	val := constant.NewInt(b.Env.Types.I256, 0)
	if len(item.PushData) > 0 {
		parsed, err := constant.NewIntFromString(b.Env.Types.I256, "u0x"+bytesToHex(item.PushData))
		if err != nil {
			return &BuildError{Kind: InvalidBitWidth, PC: item.PC, Msg: err.Error(), Wrapped: err}
		}
		val = parsed
	}
	b.pushWord(val)
	return nil
}

func bytesToHex(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

// lowerDup duplicates the nth-from-top stack entry (1-indexed) onto the
// top. When the vstack holds at least n entries the copy stays virtual;
// otherwise the shortfall would come from the real stack, so the vstack is
// synced first and the peek builtin does the work.
func lowerDup(b *BuildCtx, n int) error {
	if b.Env.Opts.VStack && n <= len(b.VStack.values) {
		idx := len(b.VStack.values) - n
		b.pushWord(b.VStack.values[idx])
		return nil
	}
	b.syncVStack()
	ptr := b.Block.NewCall(b.Env.Symbols.StackPeek, b.Registers.ExecCtx, constant.NewInt(b.Env.Types.I8, int64(n-1)))
	val := b.Block.NewLoad(b.Env.Types.I256, ptr)
	b.pushWord(val)
	return nil
}

// lowerSwap exchanges the top of the stack with the word n positions below
// it. The swap builtin's idx parameter counts positions below the element
// directly under the top, so SWAPn passes idx = n-1.
func lowerSwap(b *BuildCtx, n int) error {
	b.syncVStack()
	b.Block.NewCall(b.Env.Symbols.StackSwap, b.Registers.ExecCtx, constant.NewInt(b.Env.Types.I8, int64(n-1)))
	return nil
}

// --- arithmetic / bitwise --------------------------------------------------

// lowerBinOp pops (a, b) — a popped first (the prior top-of-stack) — and
// pushes op(a, b), the EVM's "pop a, b; push a OP b" convention for opcodes
// where argument order matters (SUB, comparisons).
func lowerBinOp(b *BuildCtx, op func(a, val value.Value) value.Value) error {
	ops := b.popWords(2)
	a, val := ops[0], ops[1]
	b.pushWord(op(a, val))
	return nil
}

// lowerMath routes DIV/SDIV/MOD/SMOD/ADDMOD/MULMOD through the math
// builtin, which pops its operands off the real stack and pushes the
// result. 256-bit div/rem has no inline lowering (the backend cannot
// legalize it), so these work the way KECCAK256 does: sync, then let the
// host operate on the stack in place.
func lowerMath(b *BuildCtx, op runtime.MathOp) error {
	b.syncVStack()
	b.Block.NewCall(b.Env.Symbols.Math, b.Registers.ExecCtx, constant.NewInt(b.Env.Types.I8, int64(op)))
	return nil
}

// lowerStubBinOp lowers EXP and SIGNEXTEND as declared no-op stubs: pop
// their two operands, push zero, respecting the stack effect without
// computing the real result.
func lowerStubBinOp(b *BuildCtx) error {
	b.popWords(2)
	b.pushWord(zero256(b.Env.Types))
	return nil
}

func lowerCmp(b *BuildCtx, pred enum.IPred) error {
	ops := b.popWords(2)
	a, val := ops[0], ops[1]
	cmp := b.Block.NewICmp(pred, a, val)
	b.pushWord(b.zextToWord(cmp))
	return nil
}

func lowerIsZero(b *BuildCtx) error {
	x := b.popWord()
	cmp := b.Block.NewICmp(enum.IPredEQ, x, zero256(b.Env.Types))
	b.pushWord(b.zextToWord(cmp))
	return nil
}

func lowerNot(b *BuildCtx) error {
	x := b.popWord()
	allOnes := constant.NewInt(b.Env.Types.I256, -1)
	b.pushWord(b.Block.NewXor(x, allOnes))
	return nil
}

// lowerByte pops (i, x) and pushes byte i of x counting from the most
// significant byte, or zero when i >= 32. i is truncated to 32 bits before
// the shift-amount arithmetic; the out-of-range select covers anything the
// truncation folded down.
func lowerByte(b *BuildCtx) error {
	ops := b.popWords(2)
	i, x := ops[0], ops[1]

	t := b.Env.Types
	i32 := b.Block.NewTrunc(i, t.I32)
	thirtyOne := constant.NewInt(t.I32, 31)
	shiftBytes := b.Block.NewSub(thirtyOne, i32)
	shiftBits32 := b.Block.NewMul(shiftBytes, constant.NewInt(t.I32, 8))
	shiftBits := b.Block.NewAnd(b.zextToWord(shiftBits32), constant.NewInt(t.I256, 0xff))

	shifted := b.Block.NewLShr(x, shiftBits)
	masked := b.Block.NewAnd(shifted, constant.NewInt(t.I256, 0xff))

	outOfRange := b.Block.NewICmp(enum.IPredUGE, i, constant.NewInt(t.I256, 32))
	b.pushWord(b.Block.NewSelect(outOfRange, zero256(t), masked))
	return nil
}

func lowerShift(b *BuildCtx, shiftRight bool, arithmetic bool) error {
	// SHL/SHR/SAR all pop (shift, value) in that order.
	ops := b.popWords(2)
	shift, x := ops[0], ops[1]

	t := b.Env.Types
	oob := b.Block.NewICmp(enum.IPredUGE, shift, constant.NewInt(t.I256, 256))
	// Clamp the shift amount so the in-range operand never feeds a poison
	// shift; the select below discards the clamped lane's result anyway.
	safeShift := b.Block.NewSelect(oob, zero256(t), shift)

	var result value.Value
	switch {
	case shiftRight && arithmetic:
		result = b.Block.NewAShr(x, safeShift)
	case shiftRight:
		result = b.Block.NewLShr(x, safeShift)
	default:
		result = b.Block.NewShl(x, safeShift)
	}

	var oobResult value.Value = zero256(t)
	if shiftRight && arithmetic {
		// An out-of-range arithmetic shift saturates to the sign of x.
		oobResult = b.Block.NewAShr(x, constant.NewInt(t.I256, 255))
	}

	b.pushWord(b.Block.NewSelect(oob, oobResult, result))
	return nil
}

// --- hashing ---------------------------------------------------------------

// lowerKeccak256 hashes the top-of-stack word in place: the builtin reads
// the 32-byte top slot and overwrites it with its Keccak-256 digest.
func lowerKeccak256(b *BuildCtx) error {
	b.syncVStack()
	b.Block.NewCall(b.Env.Symbols.Keccak256, b.Registers.ExecCtx)
	return nil
}

// --- memory ------------------------------------------------------------

func lowerMLoad(b *BuildCtx) error {
	off := b.popWord()
	off32 := b.Block.NewTrunc(off, b.Env.Types.I32)
	ptr := b.Block.NewCall(b.Env.Symbols.MemLoad, b.Registers.ExecCtx, off32)
	val := b.Block.NewLoad(b.Env.Types.I256, ptr)
	b.pushWord(val)
	return nil
}

func lowerMStore(b *BuildCtx) error {
	ops := b.popWords(2)
	off, val := ops[0], ops[1]
	off32 := b.Block.NewTrunc(off, b.Env.Types.I32)
	b.Block.NewCall(b.Env.Symbols.MemStoreWord, b.Registers.ExecCtx, off32, b.allocaWord(val))
	return nil
}

func lowerMStore8(b *BuildCtx) error {
	ops := b.popWords(2)
	off, val := ops[0], ops[1]
	off32 := b.Block.NewTrunc(off, b.Env.Types.I32)
	byteVal := b.Block.NewTrunc(val, b.Env.Types.I8)
	b.Block.NewCall(b.Env.Symbols.MemStoreByte, b.Registers.ExecCtx, off32, byteVal)
	return nil
}

// --- control flow --------------------------------------------------------

// lowerJump pops the target, stores it to ctx.jump_ptr, and syncs the
// vstack; contract.go emits the unconditional branch to the jump-dispatch
// block.
func lowerJump(b *BuildCtx, _ int) error {
	target := b.popWord()
	target32 := b.Block.NewTrunc(target, b.Env.Types.I32)
	b.Block.NewStore(target32, b.Registers.JumpPtr)
	b.syncVStack()
	return nil
}

// lowerJumpI pops (target, cond), stores target to ctx.jump_ptr, and
// leaves cond != 0 in b.PendingCond for contract.go to build the
// conditional branch: taken goes to the jump-dispatch block, not-taken
// falls through to the next code block.
func lowerJumpI(b *BuildCtx, _ int) error {
	ops := b.popWords(2)
	target, cond := ops[0], ops[1]
	target32 := b.Block.NewTrunc(target, b.Env.Types.I32)
	b.Block.NewStore(target32, b.Registers.JumpPtr)
	b.syncVStack()
	b.PendingCond = b.Block.NewICmp(enum.IPredNE, cond, zero256(b.Env.Types))
	return nil
}

func lowerReturn(b *BuildCtx) error {
	ops := b.popWords(2)
	off, size := ops[0], ops[1]
	off32 := b.Block.NewTrunc(off, b.Env.Types.I32)
	size32 := b.Block.NewTrunc(size, b.Env.Types.I32)
	b.Block.NewStore(off32, b.Registers.ReturnOff)
	b.Block.NewStore(size32, b.Registers.ReturnLen)
	b.buildReturn(runtime.ExplicitReturn)
	return nil
}

// --- block/env introspection ---------------------------------------------

// lowerBlockHash pops the requested block number and pushes the block
// hash. The number is unused: BlockInfo exposes the one hash the engine
// was given for this run.
func lowerBlockHash(b *BuildCtx) error {
	b.popWord()
	t := b.Env.Types
	gep := b.Block.NewGetElementPtr(t.BlockInfo, b.Registers.BlockInfo,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, fieldBIHash))
	val := b.Block.NewLoad(t.I256, gep)
	b.pushWord(val)
	return nil
}

// --- calls -----------------------------------------------------------------

// lowerCall pops CALL's seven stack operands in EVM order (gas, addr,
// value, argsOffset, argsSize, retOffset, retSize), discards the ones the
// contract_call builtin does not model (gas, value, calldata), and emits
// the call plus a single push of its result byte widened to a word. The
// jet.jit_engine global's address rides along so the builtin can find the
// engine that produced this code.
func lowerCall(b *BuildCtx) error {
	ops := b.popWords(7)
	addr, retOffset, retSize := ops[1], ops[5], ops[6]

	b.syncVStack()

	addrPtr := b.allocaWord(addr)
	retOff32 := b.Block.NewTrunc(retOffset, b.Env.Types.I32)
	retSize32 := b.Block.NewTrunc(retSize, b.Env.Types.I32)

	result := b.Block.NewCall(b.Env.Symbols.ContractCall,
		b.Registers.ExecCtx, b.Env.Symbols.JITEngine, b.Registers.BlockInfo,
		addrPtr, retOff32, retSize32)
	b.pushWord(b.zextToWord(result))
	return nil
}

// lowerReturnDataSize loads return_len from the sub-call context — the
// callee's return region, not the running contract's own.
func lowerReturnDataSize(b *BuildCtx) error {
	t := b.Env.Types
	subCallPtr := b.Block.NewLoad(t.PtrExecCtx, b.Registers.SubCall)
	gep := b.Block.NewGetElementPtr(t.ExecCtx, subCallPtr,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, FieldReturnLen))
	b.pushWord(b.zextToWord(b.Block.NewLoad(t.I32, gep)))
	return nil
}

// lowerReturnDataCopy pops (dest_off, src_off, len) and invokes the copy
// builtin for its side effect only; unlike CALL, RETURNDATACOPY leaves no
// result on the stack.
func lowerReturnDataCopy(b *BuildCtx) error {
	ops := b.popWords(3)
	destOff, srcOff, size := ops[0], ops[1], ops[2]
	destOff32 := b.Block.NewTrunc(destOff, b.Env.Types.I32)
	srcOff32 := b.Block.NewTrunc(srcOff, b.Env.Types.I32)
	size32 := b.Block.NewTrunc(size, b.Env.Types.I32)

	// Registers.SubCall points at the sub_call field itself; load it to get
	// the nested context pointer the builtin expects.
	subCallPtr := b.Block.NewLoad(b.Env.Types.PtrExecCtx, b.Registers.SubCall)
	b.Block.NewCall(b.Env.Symbols.ContractCallReturnDataCopy,
		b.Registers.ExecCtx, subCallPtr, destOff32, srcOff32, size32)
	return nil
}
