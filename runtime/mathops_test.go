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

	"github.com/stretchr/testify/require"
)

func pushValues(ctx *Context, vs ...uint64) {
	for _, v := range vs {
		ctx.StackPush(WordFromUint64(v))
	}
}

func TestMathDiv(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 3, 6) // 6 on top: 6 / 3

	require.Zero(t, Math(ctx, uint8(MathDiv)))
	require.EqualValues(t, 1, ctx.StackPtr)
	require.Equal(t, WordFromUint64(2), ctx.Stack[0])
}

func TestMathDivByZero(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 0, 42)

	require.Zero(t, Math(ctx, uint8(MathDiv)))
	require.Equal(t, ZeroWord, ctx.Stack[0])
}

func TestMathMod(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 4, 7) // 7 % 4

	require.Zero(t, Math(ctx, uint8(MathMod)))
	require.Equal(t, WordFromUint64(3), ctx.Stack[0])
}

func TestMathSDiv(t *testing.T) {
	ctx := NewContext()
	// -6 / 3 = -2 in two's complement.
	minusSix := WordFromUint64(6).Uint256().Neg(WordFromUint64(6).Uint256())
	ctx.StackPush(WordFromUint64(3))
	ctx.StackPush(WordFromUint256(minusSix))

	require.Zero(t, Math(ctx, uint8(MathSDiv)))
	minusTwo := WordFromUint64(2).Uint256().Neg(WordFromUint64(2).Uint256())
	require.Equal(t, WordFromUint256(minusTwo), ctx.Stack[0])
}

func TestMathAddMod(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 7, 6, 5) // (5 + 6) % 7

	require.Zero(t, Math(ctx, uint8(MathAddMod)))
	require.EqualValues(t, 1, ctx.StackPtr)
	require.Equal(t, WordFromUint64(4), ctx.Stack[0])
}

func TestMathMulMod(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 7, 6, 5) // (5 * 6) % 7

	require.Zero(t, Math(ctx, uint8(MathMulMod)))
	require.Equal(t, WordFromUint64(2), ctx.Stack[0])
}

func TestMathUnderflow(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 1)

	require.EqualValues(t, 1, Math(ctx, uint8(MathDiv)))
}

func TestMathUnknownOp(t *testing.T) {
	ctx := NewContext()
	pushValues(ctx, 1, 2)

	require.EqualValues(t, 2, Math(ctx, 0xEE))
}
