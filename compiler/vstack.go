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

import "github.com/llir/llvm/ir/value"

// vstack is the virtual stack: an in-compiler stack of IR values
// substituted for immediate stack push/pop builtin calls when
// buildopts.Options.VStack is enabled. Disabled (the default), every push
// and pop goes straight to the real-stack builtins.
type vstack struct {
	enabled bool
	values  []value.Value
}

func newVstack(enabled bool) *vstack {
	return &vstack{enabled: enabled, values: make([]value.Value, 0, 32)}
}

// push carries v in the vstack. Only called when enabled.
func (v *vstack) push(val value.Value) {
	v.values = append(v.values, val)
}

// pop removes and returns the most recently pushed value, or false if the
// vstack is empty (callers fall back to a real-stack pop in that case).
func (v *vstack) pop() (value.Value, bool) {
	if len(v.values) == 0 {
		return nil, false
	}
	n := len(v.values) - 1
	val := v.values[n]
	v.values = v.values[:n]
	return val, true
}

// drain empties the vstack, returning the carried values in push order
// (oldest first) so the caller can push them onto the real stack in the
// same order they would have been pushed immediately.
func (v *vstack) drain() []value.Value {
	out := v.values
	v.values = v.values[:0]
	return out
}
