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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestStackPushPop(t *testing.T) {
	ctx := NewContext()
	w := WordFromBytes([]byte{0x2A})

	require.True(t, ctx.StackPush(w))
	require.EqualValues(t, 1, ctx.StackPtr)

	got, ok := ctx.StackPop()
	require.True(t, ok)
	require.Equal(t, w, got)
	require.EqualValues(t, 0, ctx.StackPtr)
}

func TestStackPopUnderflow(t *testing.T) {
	ctx := NewContext()
	_, ok := ctx.StackPop()
	require.False(t, ok)
}

func TestStackPopPtrStableUntilNextPush(t *testing.T) {
	ctx := NewContext()
	ctx.StackPush(WordFromUint64(7))

	ptr, ok := ctx.StackPopPtr()
	require.True(t, ok)
	require.EqualValues(t, 0, ctx.StackPtr)
	// The vacated slot still holds the popped word; generated code loads
	// through this pointer right after the builtin returns.
	require.Equal(t, WordFromUint64(7), *ptr)
}

func TestStackSwap(t *testing.T) {
	ctx := NewContext()
	x := WordFromBytes([]byte{0x01})
	y := WordFromBytes([]byte{0x02})
	ctx.StackPush(x)
	ctx.StackPush(y)

	require.True(t, ctx.StackSwap(0))

	top, _ := ctx.StackPop()
	require.Equal(t, x, top)
	bottom, _ := ctx.StackPop()
	require.Equal(t, y, bottom)
}

func TestMemStoreLoadWord(t *testing.T) {
	ctx := NewContext()
	w := WordFromBytes([]byte{0xFF})
	MemStoreWord(ctx, 2, &w)

	got := MemLoad(ctx, 2)
	require.Equal(t, w, *got)
}

func TestMemStoreByteOverwrite(t *testing.T) {
	ctx := NewContext()
	w := WordFromUint64(0xFF)
	MemStoreWord(ctx, 2, &w)
	require.Equal(t, byte(0xFF), ctx.Memory[2])

	MemStoreByte(ctx, 2, 0xAB)
	after := MemLoad(ctx, 2)
	require.Equal(t, WordFromUint64(0xAB), *after)
}

func TestMemLoadGrowsMemory(t *testing.T) {
	ctx := NewContext()
	loc := uint32(MemoryInitialSize - 4)
	got := MemLoad(ctx, loc)
	require.Equal(t, ZeroWord, *got)
	require.GreaterOrEqual(t, uint32(len(ctx.Memory)), loc+WordSize)
}

func TestKeccak256OfZeroWord(t *testing.T) {
	ctx := NewContext()
	ctx.StackPush(ZeroWord)

	require.Zero(t, Keccak256(ctx))

	hashed, ok := ctx.StackPeek(0)
	require.True(t, ok)
	want := common.FromHex("0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563")
	require.Equal(t, want, hashed[:])
}

func TestContractCallLookupFailed(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) { return nil, false }
	result := ContractCall(ctx, blockInfo, lookup, Address{}, 0, 0)
	require.Equal(t, CallLookupFailed, result)
}

func TestContractCallStopIsInvocationFailure(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) {
		return func(callee *Context, bi *BlockInfo) ReturnCode { return Stop }, true
	}
	result := ContractCall(ctx, blockInfo, lookup, Address{}, 0, 0)
	require.Equal(t, CallInvocationFailed, result)
}

func TestContractCallSuccessNoReturnData(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) {
		return func(ctx *Context, bi *BlockInfo) ReturnCode {
			return ImplicitReturn
		}, true
	}
	result := ContractCall(ctx, blockInfo, lookup, Address{}, 0, 0)
	require.Equal(t, CallOK, result)
	require.NotNil(t, ctx.SubCall)
}

func TestContractCallCopiesReturnData(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) {
		return func(callee *Context, bi *BlockInfo) ReturnCode {
			callee.MemStoreByte(0, 0xAA)
			callee.ReturnOff = 0
			callee.ReturnLen = 1
			return ExplicitReturn
		}, true
	}
	result := ContractCall(ctx, blockInfo, lookup, Address{}, 5, 1)
	require.Equal(t, CallOK, result)
	require.Equal(t, byte(0xAA), ctx.Memory[5])
}

func TestContractCallClampsToReturnLen(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) {
		return func(callee *Context, bi *BlockInfo) ReturnCode {
			callee.MemStoreByte(0, 0xAA)
			callee.ReturnOff = 0
			callee.ReturnLen = 1
			return ExplicitReturn
		}, true
	}
	// The caller asks for more bytes than the callee returned; only the
	// available byte is copied.
	result := ContractCall(ctx, blockInfo, lookup, Address{}, 0, 8)
	require.Equal(t, CallOK, result)
	require.Equal(t, byte(0xAA), ctx.Memory[0])
	require.Equal(t, byte(0x00), ctx.Memory[1])
}

func TestContractCallReplacesPreviousSubCall(t *testing.T) {
	ctx := NewContext()
	blockInfo := NewBlockInfo(1, 0, 0, 0, 0, 0, 1)

	lookup := func(symbol string) (ContractFunc, bool) {
		return func(callee *Context, bi *BlockInfo) ReturnCode { return ImplicitReturn }, true
	}
	require.Equal(t, CallOK, ContractCall(ctx, blockInfo, lookup, Address{}, 0, 0))
	first := ctx.SubCall
	require.Equal(t, CallOK, ContractCall(ctx, blockInfo, lookup, Address{}, 0, 0))
	require.NotSame(t, first, ctx.SubCall)
}

func TestReturnDataCopySrcOutOfBounds(t *testing.T) {
	ctx := NewContext()
	sub := NewContext()
	sub.ReturnOff = 0
	sub.ReturnLen = 2

	require.Equal(t, CallReturnDataSrcOOB, ContractCallReturnDataCopy(ctx, sub, 0, 1, 2))
}

func TestAddressReversal(t *testing.T) {
	var addr Address
	addr[0], addr[1], addr[2] = 0x01, 0x02, 0x03
	reversed := ReverseAddress(addr)
	require.Equal(t, byte(0x03), reversed[AddressSize-3])
	require.Equal(t, byte(0x02), reversed[AddressSize-2])
	require.Equal(t, byte(0x01), reversed[AddressSize-1])

	require.Equal(t, addr, ReverseAddress(reversed))
}
