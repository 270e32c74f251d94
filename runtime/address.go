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
	"github.com/ethereum/go-ethereum/common"
)

// AddressSize is the width in bytes of an Address, fixed at the canonical
// EVM account width.
const AddressSize = 20

// Address is a fixed-width contract/account identifier, held in canonical
// (hex-string) byte order.
type Address [AddressSize]byte

// String renders the lowercase hex form without a prefix.
func (a Address) String() string {
	return common.Bytes2Hex(a[:])
}

// Hex renders the canonical "0x"-prefixed lowercase hex form used to
// mangle contract function names.
func (a Address) Hex() string { return "0x" + a.String() }

// AddressFromWord extracts the AddressSize low-order bytes of a stack
// word. Stack slots hold values in native little-endian order, so the
// address bytes sit at the front of the slot, least significant first;
// ReverseAddress recovers the canonical order.
func AddressFromWord(w Word) Address {
	var a Address
	copy(a[:], w[:AddressSize])
	return a
}

// ReverseAddress returns addr with its bytes reversed. The contract_call
// builtin reverses the little-endian, stack-ordered address bytes before
// hex-encoding to recover the canonical address string.
func ReverseAddress(addr Address) Address {
	var out Address
	for i := range addr {
		out[i] = addr[AddressSize-1-i]
	}
	return out
}
