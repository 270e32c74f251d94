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

import "github.com/holiman/uint256"

// MathOp selects the operation jet.ops.math performs on the stack. The
// division and modulo family cannot be inlined as IR arithmetic: 256-bit
// div/rem has no backend legalization, so these six route through the host
// the way hashing does.
type MathOp uint8

const (
	MathDiv MathOp = iota
	MathSDiv
	MathMod
	MathSMod
	MathAddMod
	MathMulMod
)

// Math pops this operation's operands off ctx's stack (top first, EVM
// operand order), computes in full 256-bit precision, and pushes the
// result. Division or modulo by zero yields zero. Backs jet.ops.math.
func Math(ctx *Context, op uint8) int8 {
	z := new(uint256.Int)

	switch MathOp(op) {
	case MathDiv, MathSDiv, MathMod, MathSMod:
		aw, ok := ctx.StackPop()
		if !ok {
			return 1
		}
		bw, ok := ctx.StackPop()
		if !ok {
			return 1
		}
		a, b := aw.Uint256(), bw.Uint256()
		switch MathOp(op) {
		case MathDiv:
			z.Div(a, b)
		case MathSDiv:
			z.SDiv(a, b)
		case MathMod:
			z.Mod(a, b)
		case MathSMod:
			z.SMod(a, b)
		}

	case MathAddMod, MathMulMod:
		aw, ok := ctx.StackPop()
		if !ok {
			return 1
		}
		bw, ok := ctx.StackPop()
		if !ok {
			return 1
		}
		mw, ok := ctx.StackPop()
		if !ok {
			return 1
		}
		a, b, m := aw.Uint256(), bw.Uint256(), mw.Uint256()
		if MathOp(op) == MathAddMod {
			z.AddMod(a, b, m)
		} else {
			z.MulMod(a, b, m)
		}

	default:
		return 2
	}

	ctx.StackPush(WordFromUint256(z))
	return 0
}
