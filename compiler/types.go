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
	"github.com/llir/llvm/ir/types"
)

// Types is the IR type layout shared by every contract function built in
// one Env. The struct types are resolved from the runtime IR module's own
// type definitions rather than rebuilt here, so the declarations generated
// calls target and the types generated GEPs compute offsets against cannot
// drift apart: the VM state layout is an ABI between generated code and the
// hand-written runtime builtins, and jet.ll is its single source of truth.
type Types struct {
	I8   *types.IntType
	I32  *types.IntType
	I64  *types.IntType
	I256 *types.IntType

	ExecCtx   *types.StructType // %exec_ctx, mirrors runtime.Context
	BlockInfo *types.StructType // %block_info, mirrors runtime.BlockInfo

	PtrExecCtx   *types.PointerType // %exec_ctx*
	PtrBlockInfo *types.PointerType // %block_info*
	PtrWord      *types.PointerType // i256*

	ContractFn *types.FuncType // i8(%exec_ctx*, %block_info*)
}

// NewTypes resolves the shared type layout from module's type definitions.
func NewTypes(module *ir.Module) (*Types, error) {
	structs := make(map[string]*types.StructType)
	for _, td := range module.TypeDefs {
		if st, ok := td.(*types.StructType); ok {
			structs[st.TypeName] = st
		}
	}

	execCtx, ok := structs["exec_ctx"]
	if !ok {
		return nil, errMissingSymbol("%exec_ctx")
	}
	blockInfo, ok := structs["block_info"]
	if !ok {
		return nil, errMissingSymbol("%block_info")
	}

	i8 := types.I8
	i256 := types.NewInt(256)
	ptrExecCtx := types.NewPointer(execCtx)
	ptrBlockInfo := types.NewPointer(blockInfo)

	return &Types{
		I8:   i8,
		I32:  types.I32,
		I64:  types.I64,
		I256: i256,

		ExecCtx:   execCtx,
		BlockInfo: blockInfo,

		PtrExecCtx:   ptrExecCtx,
		PtrBlockInfo: ptrBlockInfo,
		PtrWord:      types.NewPointer(i256),

		ContractFn: types.NewFunc(i8, ptrExecCtx, ptrBlockInfo),
	}, nil
}

// %exec_ctx field indices, matching runtime.Context's declared field order.
const (
	FieldStackPtr  = 0
	FieldJumpPtr   = 1
	FieldReturnOff = 2
	FieldReturnLen = 3
	FieldSubCall   = 4
	FieldStack     = 5
	FieldMem       = 6
)
