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

// Symbol name constants for the runtime builtins and the JIT-engine
// self-pointer global: the literal names the embedded runtime IR module
// declares and the engine binds at JIT-link time.
const (
	SymbolJITEngine = "jet.jit_engine"

	SymbolStackPushWord = "jet.stack.push.word"
	SymbolStackPop      = "jet.stack.pop"
	SymbolStackPeek     = "jet.stack.peek"
	SymbolStackSwap     = "jet.stack.swap"

	SymbolMemStoreWord = "jet.mem.store.word"
	SymbolMemStoreByte = "jet.mem.store.byte"
	SymbolMemLoad      = "jet.mem.load"

	SymbolContractCall               = "jet.contract.call"
	SymbolContractCallReturnDataCopy = "jet.contracts.call_return_data_copy"

	SymbolKeccak256 = "jet.ops.keccak256"
	SymbolMath      = "jet.ops.math"

	// ContractFnPrefix mangles a contract address into its exported
	// function name: {prefix}{0xhex-address}.
	ContractFnPrefix = "jet.contracts."
)

// MangleContractFn returns the exported symbol name for the contract at
// addr.
func MangleContractFn(addr Address) string {
	return ContractFnPrefix + addr.Hex()
}
