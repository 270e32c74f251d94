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
	"github.com/tyler-smith/jet/instructions"
)

// CodeBlock is one linearly-executed subsequence of the ROM. Offset is the
// byte offset of the block's first emitted instruction (jumpdest blocks
// start the byte after their JUMPDEST; the jumpdest byte itself is a no-op
// and never part of any block's items).
type CodeBlock struct {
	Offset     int
	Items      []instructions.IteratorItem
	IsJumpdest bool
	Terminates bool
}

// FindCodeBlocks partitions rom into basic blocks. A block ends at
// STOP/RETURN/REVERT/JUMP (absorbed, block terminates), at JUMPI (absorbed,
// control can still fall through) or at a JUMPDEST (which opens a new
// jump-target block). FindCodeBlocks is IR-agnostic: contract.go creates
// one IR block per CodeBlock afterward, in order.
func FindCodeBlocks(rom []byte) ([]CodeBlock, error) {
	it := instructions.NewIterator(rom)

	var blocks []CodeBlock
	cur := CodeBlock{Offset: 0}

	flush := func() {
		// An empty non-jumpdest block is the gap between a terminator and
		// the end of the ROM; it emits nothing and is dropped. An empty
		// jumpdest block is still a legal jump target and is kept.
		if len(cur.Items) > 0 || cur.IsJumpdest {
			blocks = append(blocks, cur)
		}
	}

	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		if item.Kind == instructions.ItemInstr {
			switch item.Instr {
			case instructions.STOP, instructions.RETURN, instructions.REVERT, instructions.JUMP:
				cur.Items = append(cur.Items, item)
				cur.Terminates = true
				flush()
				cur = CodeBlock{Offset: it.PC()}
				continue

			case instructions.JUMPI:
				cur.Items = append(cur.Items, item)
				flush()
				cur = CodeBlock{Offset: it.PC()}
				continue

			case instructions.JUMPDEST:
				if item.PC == 0 {
					return nil, errInvariant("JUMPDEST at offset 0: jump offset would alias 'empty'")
				}
				flush()
				cur = CodeBlock{Offset: item.PC + 1, IsJumpdest: true}
				continue
			}
		}

		cur.Items = append(cur.Items, item)
	}

	flush()
	return blocks, nil
}
