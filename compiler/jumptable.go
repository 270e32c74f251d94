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

	"github.com/tyler-smith/jet/runtime"
)

// buildJumpTable emits the jump-dispatch block: a switch over ctx.jump_ptr
// with one case per compiled JUMPDEST and a default block returning
// JumpFailure. A contract with JUMP/JUMPI but no JUMPDESTs at all still
// gets a dispatch block consisting solely of the failure case, since every
// dynamic jump in such a contract necessarily fails.
func buildJumpTable(b *BuildCtx, jumpdests map[int]*ir.Block) *ir.Block {
	failure := b.Func.NewBlock("jump_failure")
	failure.NewRet(constant.NewInt(b.Env.Types.I8, int64(runtime.JumpFailure)))

	dispatch := b.Func.NewBlock("jump_dispatch")
	if len(jumpdests) == 0 {
		dispatch.NewBr(failure)
		return dispatch
	}

	target := dispatch.NewLoad(b.Env.Types.I32, b.Registers.JumpPtr)
	sw := dispatch.NewSwitch(target, failure)
	for pc, block := range jumpdests {
		// jumpdests is keyed by JUMPDEST pc (see contract.go), the raw jump
		// target a JUMP/JUMPI operand carries.
		sw.Cases = append(sw.Cases, ir.NewCase(constant.NewInt(b.Env.Types.I32, int64(pc)), block))
	}
	return dispatch
}
