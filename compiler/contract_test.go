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
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/stretchr/testify/require"

	"github.com/tyler-smith/jet/buildopts"
	"github.com/tyler-smith/jet/instructions"
	"github.com/tyler-smith/jet/runtime"
	"github.com/tyler-smith/jet/runtimeir"
)

func newTestEnv(t *testing.T, opts buildopts.Options) *Env {
	t.Helper()
	module, err := runtimeir.Parse()
	require.NoError(t, err)
	env, err := NewEnv(module, opts)
	require.NoError(t, err)
	return env
}

func testAddr(b byte) runtime.Address {
	var a runtime.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func findFunc(t *testing.T, env *Env, addr runtime.Address) *ir.Func {
	t.Helper()
	name := runtime.MangleContractFn(addr)
	for _, f := range env.Module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("contract function %s not in module", name)
	return nil
}

func findBlock(fn *ir.Func, name string) *ir.Block {
	for _, blk := range fn.Blocks {
		if blk.LocalName == name {
			return blk
		}
	}
	return nil
}

func TestBuildContractEmitsMangledFunction(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	addr := testAddr(0x01)
	rom := []byte{byte(instructions.PUSH1), 0x01, byte(instructions.PUSH1), 0x02, byte(instructions.ADD)}

	require.NoError(t, BuildContract(env, addr, rom))

	fn := findFunc(t, env, addr)
	require.NotNil(t, findBlock(fn, "preamble"))
	require.NotNil(t, findBlock(fn, "blk_0000"))
	// No JUMP/JUMPI anywhere, so no dispatch machinery.
	require.Nil(t, findBlock(fn, "jump_dispatch"))
	require.Nil(t, findBlock(fn, "jump_failure"))
}

func TestBuildContractJumpDispatchSwitch(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	addr := testAddr(0x02)
	rom := []byte{
		byte(instructions.PUSH1), 0x03,
		byte(instructions.JUMP),
		byte(instructions.JUMPDEST),
		byte(instructions.PUSH1), 42,
	}

	require.NoError(t, BuildContract(env, addr, rom))

	fn := findFunc(t, env, addr)
	dispatch := findBlock(fn, "jump_dispatch")
	require.NotNil(t, dispatch)

	sw, ok := dispatch.Term.(*ir.TermSwitch)
	require.True(t, ok, "jump_dispatch must terminate in a switch")
	require.Len(t, sw.Cases, 1)
	// The case matches the JUMPDEST's own pc, and its target is the block
	// that resumes one byte past it.
	caseVal, ok := sw.Cases[0].X.(*constant.Int)
	require.True(t, ok)
	require.EqualValues(t, 3, caseVal.X.Int64())
	target, ok := sw.Cases[0].Target.(*ir.Block)
	require.True(t, ok)
	require.Equal(t, "blk_0004", target.LocalName)
}

func TestBuildContractJumpWithoutJumpdests(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	addr := testAddr(0x03)
	rom := []byte{byte(instructions.PUSH1), 0x00, byte(instructions.JUMP)}

	require.NoError(t, BuildContract(env, addr, rom))

	fn := findFunc(t, env, addr)
	// Every dynamic jump fails, but there must still be somewhere to land.
	require.NotNil(t, findBlock(fn, "jump_dispatch"))
	require.NotNil(t, findBlock(fn, "jump_failure"))
}

func TestBuildContractEmptyROM(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	addr := testAddr(0x04)

	require.NoError(t, BuildContract(env, addr, nil))

	fn := findFunc(t, env, addr)
	require.Len(t, fn.Blocks, 1)
	_, ok := fn.Blocks[0].Term.(*ir.TermRet)
	require.True(t, ok)
}

func TestBuildContractUnimplementedInstruction(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	rom := []byte{byte(instructions.SLOAD)}

	err := BuildContract(env, testAddr(0x05), rom)
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	require.Equal(t, UnimplementedInstruction, buildErr.Kind)
	require.Equal(t, instructions.SLOAD, buildErr.Instr)
}

func TestBuildContractUnknownInstruction(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	rom := []byte{0xCC}

	err := BuildContract(env, testAddr(0x06), rom)
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	require.Equal(t, UnknownInstruction, buildErr.Kind)
	require.Equal(t, byte(0xCC), buildErr.Byte)
}

func TestBuildContractVStackFoldsStackTraffic(t *testing.T) {
	rom := []byte{byte(instructions.PUSH1), 0x01, byte(instructions.PUSH1), 0x02, byte(instructions.ADD)}

	plain := newTestEnv(t, buildopts.Default())
	require.NoError(t, BuildContract(plain, testAddr(0x07), rom))

	vsOpts := buildopts.Default()
	vsOpts.VStack = true
	vs := newTestEnv(t, vsOpts)
	require.NoError(t, BuildContract(vs, testAddr(0x07), rom))

	plainPushes := strings.Count(findFunc(t, plain, testAddr(0x07)).LLString(), runtime.SymbolStackPushWord)
	vsPushes := strings.Count(findFunc(t, vs, testAddr(0x07)).LLString(), runtime.SymbolStackPushWord)
	// The vstack carries both immediates and the sum virtually; only the
	// final sync at the implicit return touches the real stack.
	require.Less(t, vsPushes, plainPushes)
	require.Equal(t, 1, vsPushes)
}

func TestBuildContractInvalidMidBlockStopsEmission(t *testing.T) {
	env := newTestEnv(t, buildopts.Default())
	// INVALID does not end a code block during partitioning; everything
	// after it in the block is unreachable and must not be lowered past the
	// return it emits.
	rom := []byte{
		byte(instructions.INVALID),
		byte(instructions.PUSH1), 0x01,
		byte(instructions.POP),
	}

	require.NoError(t, BuildContract(env, testAddr(0x08), rom))

	fn := findFunc(t, env, testAddr(0x08))
	blk := findBlock(fn, "blk_0000")
	require.NotNil(t, blk)
	require.Empty(t, blk.Insts)
	_, ok := blk.Term.(*ir.TermRet)
	require.True(t, ok)
}
