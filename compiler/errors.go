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
	"fmt"

	"github.com/tyler-smith/jet/instructions"
)

// ErrorKind discriminates the build-time error domain. These are emitted
// while lowering bytecode to IR, never at runtime.
type ErrorKind int

const (
	// UnimplementedInstruction is a known opcode with no lowering in this
	// implementation (storage, logs, the CREATE family, and friends).
	UnimplementedInstruction ErrorKind = iota
	// UnexpectedInstruction is an opcode that must never reach per-opcode
	// dispatch (JUMPDEST) because block partitioning consumes it
	// structurally — reaching dispatch indicates a partitioning bug.
	UnexpectedInstruction
	// UnknownInstruction is a byte that does not decode to any opcode.
	UnknownInstruction
	// InvariantViolation is a structural invariant broken during lowering,
	// e.g. a JUMPDEST at offset 0.
	InvariantViolation
	// InvalidBitWidth is raised when a value of unexpected bit width is
	// encountered while building IR.
	InvalidBitWidth
	// MissingSymbol means a required runtime builtin or type was not
	// declared in the embedded runtime IR module.
	MissingSymbol
	// Verify means the IR verifier rejected generated IR.
	Verify
)

func (k ErrorKind) String() string {
	switch k {
	case UnimplementedInstruction:
		return "UnimplementedInstruction"
	case UnexpectedInstruction:
		return "UnexpectedInstruction"
	case UnknownInstruction:
		return "UnknownInstruction"
	case InvariantViolation:
		return "InvariantViolation"
	case InvalidBitWidth:
		return "InvalidBitWidth"
	case MissingSymbol:
		return "MissingSymbol"
	case Verify:
		return "Verify"
	default:
		return "Unknown"
	}
}

// BuildError is the error type returned by every build-time operation in
// this package. A failed build aborts only that contract; the module can
// still build and run others.
type BuildError struct {
	Kind ErrorKind

	// Instr is set for Unimplemented/UnexpectedInstruction errors.
	Instr instructions.Instruction
	// Byte is set for UnknownInstruction errors.
	Byte byte
	// Name is set for MissingSymbol errors.
	Name string
	// Msg is a free-form detail, set for InvariantViolation/InvalidBitWidth/
	// Verify and as extra context elsewhere.
	Msg string
	// PC is the bytecode offset the error occurred at, when known.
	PC int

	// Wrapped is a passthrough error from the IR builder, if any.
	Wrapped error
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case UnimplementedInstruction:
		return fmt.Sprintf("jet: unimplemented instruction %s at pc=%d", e.Instr, e.PC)
	case UnexpectedInstruction:
		return fmt.Sprintf("jet: unexpected instruction %s reached dispatch at pc=%d", e.Instr, e.PC)
	case UnknownInstruction:
		return fmt.Sprintf("jet: unknown instruction byte 0x%02x at pc=%d", e.Byte, e.PC)
	case InvariantViolation:
		return fmt.Sprintf("jet: invariant violation: %s", e.Msg)
	case InvalidBitWidth:
		return fmt.Sprintf("jet: invalid bit width: %s", e.Msg)
	case MissingSymbol:
		return fmt.Sprintf("jet: missing runtime symbol %q", e.Name)
	case Verify:
		return fmt.Sprintf("jet: IR verification failed: %s", e.Msg)
	default:
		return fmt.Sprintf("jet: build error: %s", e.Msg)
	}
}

func (e *BuildError) Unwrap() error { return e.Wrapped }

func errUnimplemented(pc int, instr instructions.Instruction) error {
	return &BuildError{Kind: UnimplementedInstruction, Instr: instr, PC: pc}
}

func errUnexpected(pc int, instr instructions.Instruction) error {
	return &BuildError{Kind: UnexpectedInstruction, Instr: instr, PC: pc}
}

func errUnknown(pc int, b byte) error {
	return &BuildError{Kind: UnknownInstruction, Byte: b, PC: pc}
}

func errInvariant(msg string) error {
	return &BuildError{Kind: InvariantViolation, Msg: msg}
}

func errMissingSymbol(name string) error {
	return &BuildError{Kind: MissingSymbol, Name: name}
}
