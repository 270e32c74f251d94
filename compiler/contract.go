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
	"fmt"

	"github.com/llir/llvm/ir"

	"github.com/tyler-smith/jet/instructions"
	"github.com/tyler-smith/jet/runtime"
)

// BuildContract compiles rom into a function named after addr and appends
// it to env.Module. The returned error, if any, is a *BuildError; a failed
// build removes its half-built function so the module stays usable for
// other contracts.
func BuildContract(env *Env, addr runtime.Address, rom []byte) error {
	fn := env.Module.NewFunc(runtime.MangleContractFn(addr), env.Types.ContractFn.RetType,
		ir.NewParam("ctx", env.Types.PtrExecCtx),
		ir.NewParam("block_info", env.Types.PtrBlockInfo),
	)

	if err := buildContractBody(env, fn, rom); err != nil {
		removeFunc(env.Module, fn)
		return err
	}
	return nil
}

func removeFunc(m *ir.Module, fn *ir.Func) {
	for i, f := range m.Funcs {
		if f == fn {
			m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
			return
		}
	}
}

func buildContractBody(env *Env, fn *ir.Func, rom []byte) error {
	preamble := fn.NewBlock("preamble")
	regs := NewRegisters(env.Types, preamble, fn)

	blocks, err := FindCodeBlocks(rom)
	if err != nil {
		return err
	}

	// One IR block per CodeBlock, created up front so forward branches
	// (including into a not-yet-lowered block) can reference them.
	irBlocks := make([]*ir.Block, len(blocks))
	jumpdests := make(map[int]*ir.Block)
	for i, cb := range blocks {
		blk := fn.NewBlock(fmt.Sprintf("blk_%04x", cb.Offset))
		irBlocks[i] = blk
		if cb.IsJumpdest {
			// cb.Offset is jumpdest_pc+1 (the block resumes the byte after
			// its JUMPDEST); the dispatch switch matches on the JUMPDEST's
			// own pc, since that is the value a JUMP operand and jump_ptr
			// actually carry.
			jumpdests[cb.Offset-1] = blk
		}
	}

	if len(irBlocks) == 0 {
		preamble.NewRet(constant8(env, runtime.ImplicitReturn))
		return nil
	}
	preamble.NewBr(irBlocks[0])

	// Built lazily on first use so a contract with no JUMP/JUMPI carries no
	// dispatch block. A contract with jumps but no jumpdests still gets one
	// holding only the failure case, since every dynamic jump in it fails.
	var dispatch *ir.Block

	for i, cb := range blocks {
		bctx := newBuildCtx(env, fn, regs, irBlocks[i])

		var lastWasJump, lastWasJumpI bool
		for _, item := range cb.Items {
			if bctx.Block.Term != nil {
				// An INVALID (or any mid-block terminator) already returned;
				// the rest of the block is unreachable and emits nothing.
				break
			}
			if item.Kind == instructions.ItemInstr {
				switch item.Instr {
				case instructions.JUMP:
					lastWasJump = true
				case instructions.JUMPI:
					lastWasJumpI = true
				}
			}
			if err := lowerItem(bctx, item); err != nil {
				return err
			}
		}

		if bctx.Block.Term != nil {
			continue
		}

		switch {
		case lastWasJump:
			if dispatch == nil {
				dispatch = buildJumpTable(bctx, jumpdests)
			}
			bctx.Block.NewBr(dispatch)

		case lastWasJumpI:
			if dispatch == nil {
				dispatch = buildJumpTable(bctx, jumpdests)
			}
			var fallthroughBlock *ir.Block
			if i+1 < len(irBlocks) {
				fallthroughBlock = irBlocks[i+1]
			} else {
				fallthroughBlock = buildImplicitReturnBlock(bctx)
			}
			bctx.Block.NewCondBr(bctx.PendingCond, dispatch, fallthroughBlock)
			bctx.PendingCond = nil

		case i+1 < len(irBlocks):
			bctx.syncVStack()
			bctx.Block.NewBr(irBlocks[i+1])

		default:
			bctx.buildReturn(runtime.ImplicitReturn)
		}
	}

	return nil
}

// buildImplicitReturnBlock creates a fresh block that immediately returns
// ImplicitReturn, used when a JUMPI's fallthrough would run off the end of
// the function (the ROM ends right after the conditional jump).
func buildImplicitReturnBlock(b *BuildCtx) *ir.Block {
	blk := b.Func.NewBlock("implicit_return")
	blk.NewRet(constant8(b.Env, runtime.ImplicitReturn))
	return blk
}
