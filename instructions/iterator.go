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

// ItemKind discriminates the variants of IteratorItem.
type ItemKind int

const (
	// ItemInstr is a decoded opcode at pc.
	ItemInstr ItemKind = iota
	// ItemPushData is a PUSHn at pc together with its immediate data.
	ItemPushData
	// ItemInvalid is an unrecognized byte at pc.
	ItemInvalid
)

// IteratorItem is one decoded bytecode element. For ItemPushData, Instr is
// the PUSHn opcode and PushData its immediate; for ItemInvalid, Instr
// carries the raw unrecognized byte.
type IteratorItem struct {
	Kind ItemKind
	PC   int

	Instr    Instruction
	PushData []byte
}

// Iterator decodes a ROM into a finite sequence of IteratorItems. It
// advances past PUSH immediates so they are never mistaken for opcodes,
// and always advances past unrecognized bytes so the sequence terminates.
//
// Not restartable: construct a new Iterator to decode again.
type Iterator struct {
	rom []byte
	pc  int
}

// NewIterator returns an Iterator over rom starting at offset 0.
func NewIterator(rom []byte) *Iterator {
	return &Iterator{rom: rom}
}

// Next returns the next IteratorItem and true, or a zero IteratorItem and
// false once the ROM is exhausted.
func (it *Iterator) Next() (IteratorItem, bool) {
	if it.pc >= len(it.rom) {
		return IteratorItem{}, false
	}

	pc := it.pc
	b := Instruction(it.rom[pc])

	if !isKnown(b) {
		it.pc++
		return IteratorItem{Kind: ItemInvalid, PC: pc, Instr: b}, true
	}

	if b.IsPush() {
		n := b.PushSize()
		end := pc + 1 + n
		if end > len(it.rom) {
			end = len(it.rom)
		}
		data := it.rom[pc+1 : end]
		it.pc = pc + 1 + n
		return IteratorItem{Kind: ItemPushData, PC: pc, Instr: b, PushData: data}, true
	}

	it.pc = pc + 1
	return IteratorItem{Kind: ItemInstr, PC: pc, Instr: b}, true
}

// PC returns the iterator's current offset into the ROM.
func (it *Iterator) PC() int { return it.pc }
