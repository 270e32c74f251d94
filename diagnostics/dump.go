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

// Package diagnostics pretty-prints a runtime.Context and the ReturnCode a
// contract invocation ended with: the occupied stack prefix as a table, a
// memory/return-region summary line, recursing into sub-calls.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/tyler-smith/jet/runtime"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	faintColor   = color.New(color.Faint)
)

// Dump writes a human-readable report of code and ctx to w. Only the
// occupied stack prefix is shown; slots above StackPtr are stale.
func Dump(w io.Writer, code runtime.ReturnCode, ctx *runtime.Context) {
	dump(w, code, ctx, 0)
}

func dump(w io.Writer, code runtime.ReturnCode, ctx *runtime.Context, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	resultLine := fmt.Sprintf("%sresult: %s", indent, code)
	if code.IsSuccess() {
		fmt.Fprintln(w, successColor.Sprint(resultLine))
	} else {
		fmt.Fprintln(w, failureColor.Sprint(resultLine))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"depth", "value"})
	table.SetAutoFormatHeaders(false)
	for i := int(ctx.StackPtr) - 1; i >= 0; i-- {
		table.Append([]string{
			fmt.Sprintf("%d", int(ctx.StackPtr)-1-i),
			ctx.Stack[i].Uint256().Hex(),
		})
	}
	table.Render()

	fmt.Fprintf(w, "%smemory: %d/%d bytes, return=[%d:%d]\n",
		indent, ctx.MemoryLen, ctx.MemoryCap, ctx.ReturnOff, ctx.ReturnOff+ctx.ReturnLen)

	if ctx.SubCall != nil {
		fmt.Fprintln(w, faintColor.Sprintf("%ssub_call:", indent))
		dump(w, runtime.ImplicitReturn, ctx.SubCall, depth+1)
	}
}
