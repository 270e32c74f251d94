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

// Package runtime implements the execution context and runtime builtins
// Jet-compiled contract functions call into: the VM state layout (stack,
// memory, return buffer, sub-call linkage) and the callable helper
// routines for non-inlineable operations.
package runtime

import "github.com/holiman/uint256"

// WordSize is the width in bytes of a Word.
const WordSize = 32

// Word is one 256-bit stack slot or 32-byte memory window, held in the
// byte order generated code reads and writes it: the host's native integer
// order, little-endian on every supported JIT target. Helpers below
// convert between that slot order and the big-endian order immediates and
// canonical EVM values are written in.
type Word [WordSize]byte

// ZeroWord is the all-zero 32-byte value.
var ZeroWord Word

// Uint256 decodes w as a 256-bit unsigned integer.
func (w Word) Uint256() *uint256.Int {
	var be [WordSize]byte
	for i, b := range w {
		be[WordSize-1-i] = b
	}
	return new(uint256.Int).SetBytes(be[:])
}

// WordFromUint256 encodes x in stack-slot byte order.
func WordFromUint256(x *uint256.Int) Word {
	be := x.Bytes32()
	var w Word
	for i, b := range be {
		w[WordSize-1-i] = b
	}
	return w
}

// WordFromUint64 encodes v in stack-slot byte order.
func WordFromUint64(v uint64) Word {
	var w Word
	for i := 0; i < 8; i++ {
		w[i] = byte(v >> (8 * i))
	}
	return w
}

// WordFromBytes interprets b as a big-endian immediate (most significant
// byte first, the order PUSH data appears in a ROM) and returns its
// stack-slot encoding. b longer than WordSize keeps only the low WordSize
// bytes.
func WordFromBytes(b []byte) Word {
	var w Word
	if len(b) > WordSize {
		b = b[len(b)-WordSize:]
	}
	for i, c := range b {
		w[len(b)-1-i] = c
	}
	return w
}
