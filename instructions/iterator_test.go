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

package instructions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(rom []byte) []IteratorItem {
	it := NewIterator(rom)
	var items []IteratorItem
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items
}

func TestIteratorDecodesPushImmediate(t *testing.T) {
	rom := []byte{byte(PUSH1), 0x2A, byte(ADD)}
	items := collect(rom)
	require.Len(t, items, 2)

	require.Equal(t, ItemPushData, items[0].Kind)
	require.Equal(t, 0, items[0].PC)
	require.Equal(t, PUSH1, items[0].Instr)
	require.Equal(t, []byte{0x2A}, items[0].PushData)

	require.Equal(t, ItemInstr, items[1].Kind)
	require.Equal(t, 2, items[1].PC)
	require.Equal(t, ADD, items[1].Instr)
}

func TestIteratorPush0HasNoImmediate(t *testing.T) {
	rom := []byte{byte(PUSH0), byte(POP)}
	items := collect(rom)
	require.Len(t, items, 2)
	require.Equal(t, ItemPushData, items[0].Kind)
	require.Empty(t, items[0].PushData)
	require.Equal(t, 1, items[1].PC)
}

func TestIteratorTruncatedPushImmediate(t *testing.T) {
	rom := []byte{byte(PUSH32), 0x01, 0x02}
	items := collect(rom)
	require.Len(t, items, 1)
	require.Equal(t, []byte{0x01, 0x02}, items[0].PushData)
}

func TestIteratorInvalidByteAdvances(t *testing.T) {
	rom := []byte{0xCC, byte(STOP)}
	items := collect(rom)
	require.Len(t, items, 2)
	require.Equal(t, ItemInvalid, items[0].Kind)
	require.Equal(t, 0, items[0].PC)
	require.Equal(t, Instruction(0xCC), items[0].Instr)
	require.Equal(t, ItemInstr, items[1].Kind)
	require.Equal(t, STOP, items[1].Instr)
}

func TestIteratorIsFinite(t *testing.T) {
	rom := []byte{0xCC, 0xCC, 0xCC}
	items := collect(rom)
	require.Len(t, items, 3)
}

func TestOpcodeFamilies(t *testing.T) {
	require.True(t, PUSH1.IsPush())
	require.Equal(t, 1, PUSH1.PushSize())
	require.True(t, PUSH32.IsPush())
	require.Equal(t, 32, PUSH32.PushSize())
	require.True(t, PUSH0.IsPush())
	require.Equal(t, 0, PUSH0.PushSize())

	require.True(t, DUP1.IsDup())
	require.Equal(t, 1, DUP1.DupIndex())
	require.Equal(t, 16, DUP16.DupIndex())

	require.True(t, SWAP1.IsSwap())
	require.Equal(t, 1, SWAP1.SwapIndex())

	require.True(t, IsUnimplemented(SLOAD))
	require.False(t, IsUnimplemented(ADD))
}
