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
	"fmt"
	"unsafe"
)

// StackSizeWords is the fixed capacity of a Context's stack.
const StackSizeWords = 1024

// MemoryInitialSize is the initial byte capacity of a Context's memory
// buffer.
const MemoryInitialSize = 32 * 1024

// Context is the live VM state of one contract invocation. Emitted IR
// computes offsets into the matching packed %exec_ctx struct for the
// fields up through SubCall, so this type is the host-side mirror that
// JIT-compiled code reaches through a raw pointer: the exported fields
// must not be reordered independently of jet.ll.
type Context struct {
	StackPtr  uint32
	JumpPtr   uint32
	ReturnOff uint32
	ReturnLen uint32

	// SubCall is the nested Context created by the most recent CALL. A
	// Context owns at most one SubCall; installing a new one discards the
	// previous.
	SubCall *Context

	Stack  [StackSizeWords]Word
	Memory []byte

	MemoryLen uint32
	MemoryCap uint32
}

// NewContext returns a freshly zeroed Context with MemoryInitialSize bytes
// of memory allocated.
func NewContext() *Context {
	return &Context{
		Memory:    make([]byte, MemoryInitialSize),
		MemoryCap: MemoryInitialSize,
	}
}

// ReturnData returns the caller-visible return data region: a slice of
// Memory from ReturnOff for ReturnLen bytes.
func (c *Context) ReturnData() []byte {
	return c.Memory[c.ReturnOff : c.ReturnOff+c.ReturnLen]
}

// StackPush pushes word onto the stack. Returns false (no-op) on overflow.
func (c *Context) StackPush(w Word) bool {
	if c.StackPtr >= StackSizeWords {
		return false
	}
	c.Stack[c.StackPtr] = w
	c.StackPtr++
	return true
}

// StackPop removes and returns a copy of the top of the stack, or false on
// underflow.
func (c *Context) StackPop() (Word, bool) {
	w, ok := c.StackPopPtr()
	if !ok {
		return Word{}, false
	}
	return *w, true
}

// StackPopPtr removes the top of the stack and returns a pointer to the
// vacated slot, which stays valid (and unclobbered) until the next push.
// Generated code loads through the pointer immediately, so the slot
// lifetime is what makes the pop builtin's return value safe to hand
// across the JIT boundary. Returns false on underflow; well-formed
// generated code never takes that path, because stack effects are enforced
// per opcode at build time.
func (c *Context) StackPopPtr() (*Word, bool) {
	if c.StackPtr == 0 {
		return nil, false
	}
	c.StackPtr--
	return &c.Stack[c.StackPtr], true
}

// StackPeek returns a pointer to the word idx slots below the top (0 = top
// itself) without removing it.
func (c *Context) StackPeek(idx uint8) (*Word, bool) {
	pos := int(c.StackPtr) - 1 - int(idx)
	if pos < 0 || pos >= StackSizeWords {
		return nil, false
	}
	return &c.Stack[pos], true
}

// StackSwap exchanges the top of the stack with the word idx+1 slots below
// it (SWAPn passes idx = n-1).
func (c *Context) StackSwap(idx uint8) bool {
	top := int(c.StackPtr) - 1
	other := top - 1 - int(idx)
	if top < 0 || other < 0 {
		return false
	}
	c.Stack[top], c.Stack[other] = c.Stack[other], c.Stack[top]
	return true
}

// MemStoreWord writes a 32-byte word at loc, growing Memory if needed.
func (c *Context) MemStoreWord(loc uint32, w Word) {
	c.ensureMemory(loc + WordSize)
	copy(c.Memory[loc:loc+WordSize], w[:])
}

// MemStoreByte writes a single byte at loc, growing Memory if needed.
func (c *Context) MemStoreByte(loc uint32, b byte) {
	c.ensureMemory(loc + 1)
	c.Memory[loc] = b
}

// MemLoadPtr returns a pointer to the 32-byte window at loc, growing
// Memory if needed. The pointer is valid until the next growth; generated
// code loads through it immediately.
func (c *Context) MemLoadPtr(loc uint32) *Word {
	c.ensureMemory(loc + WordSize)
	return (*Word)(unsafe.Pointer(&c.Memory[loc]))
}

func (c *Context) ensureMemory(minLen uint32) {
	if uint32(len(c.Memory)) >= minLen {
		return
	}
	grown := make([]byte, minLen)
	copy(grown, c.Memory)
	c.Memory = grown
	c.MemoryCap = minLen
}

// InitSubCall installs a fresh Context as SubCall, replacing (and
// discarding) any previous one.
func (c *Context) InitSubCall() *Context {
	c.SubCall = NewContext()
	return c.SubCall
}

func (c *Context) String() string {
	return fmt.Sprintf(
		"Context{stack_ptr=%d jump_ptr=%d return_off=%d return_len=%d sub_call=%v}",
		c.StackPtr, c.JumpPtr, c.ReturnOff, c.ReturnLen, c.SubCall != nil,
	)
}
