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

package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyler-smith/jet/runtime"
)

func TestDumpShowsOccupiedStackPrefix(t *testing.T) {
	ctx := runtime.NewContext()
	ctx.StackPush(runtime.WordFromUint64(0x2A))
	ctx.StackPush(runtime.WordFromUint64(0x07))

	var buf bytes.Buffer
	Dump(&buf, runtime.ImplicitReturn, ctx)

	out := buf.String()
	require.Contains(t, out, "ImplicitReturn")
	require.Contains(t, out, "0x2a")
	require.Contains(t, out, "0x7")
}

func TestDumpRecursesIntoSubCall(t *testing.T) {
	ctx := runtime.NewContext()
	sub := ctx.InitSubCall()
	sub.ReturnOff = 3
	sub.ReturnLen = 0x20

	var buf bytes.Buffer
	Dump(&buf, runtime.ExplicitReturn, ctx)

	out := buf.String()
	require.Contains(t, out, "sub_call:")
	require.Contains(t, out, "return=[3:35]")
}

func TestDumpFailureCode(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, runtime.JumpFailure, runtime.NewContext())
	require.Contains(t, buf.String(), "JumpFailure")
}
