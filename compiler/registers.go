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
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Registers holds the values a contract function's preamble computes once
// and carries through every code block: the function's own parameters plus
// pointers into the exec context's sub-structures. stack_ptr is
// deliberately NOT captured as a register — it is only ever touched
// through the stack builtins, never loaded or stored directly from IR.
type Registers struct {
	ExecCtx   value.Value // ctx, function param 0 (%exec_ctx*)
	BlockInfo value.Value // block_info, function param 1 (%block_info*)

	JumpPtr   value.Value // i32* into ctx.jump_ptr
	ReturnOff value.Value // i32* into ctx.return_off
	ReturnLen value.Value // i32* into ctx.return_len
	SubCall   value.Value // %exec_ctx** into ctx.sub_call
}

// NewRegisters builds the struct-GEP registers in fn's entry block.
func NewRegisters(t *Types, entry *ir.Block, fn *ir.Func) *Registers {
	execCtx := fn.Params[0]
	blockInfo := fn.Params[1]

	gep := func(field int64, name string) value.Value {
		v := entry.NewGetElementPtr(t.ExecCtx, execCtx,
			constant.NewInt(types.I32, 0),
			constant.NewInt(types.I32, field),
		)
		v.LocalName = name
		return v
	}

	return &Registers{
		ExecCtx:   execCtx,
		BlockInfo: blockInfo,
		JumpPtr:   gep(FieldJumpPtr, "jump_ptr"),
		ReturnOff: gep(FieldReturnOff, "return_off"),
		ReturnLen: gep(FieldReturnLen, "return_len"),
		SubCall:   gep(FieldSubCall, "sub_call"),
	}
}
