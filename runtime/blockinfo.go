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

// BlockHashHistorySize is the number of recent block hashes carried
// alongside BlockInfo.
const BlockHashHistorySize = 256

// BlockInfo is a read-only record of block-level environment values,
// passed by reference as the second parameter to every compiled contract
// function. It outlives any contract invocation that references it; the
// engine does not mutate it after a run starts.
//
// Field order through Coinbase must stay contiguous and unchanged: the
// %block_info struct in jet.ll only declares fields Number through
// Coinbase, so HashHistory — never read from generated IR — sits after
// Coinbase rather than between Hash and Coinbase where it would shift the
// Hash field's offset.
type BlockInfo struct {
	Number      uint64
	Difficulty  uint64
	GasLimit    uint64
	Timestamp   uint64
	BaseFee     uint64
	BlobBaseFee uint64
	ChainID     uint64

	Hash     Word
	Coinbase Address

	HashHistory [BlockHashHistorySize]Word
}

// NewBlockInfo builds a BlockInfo with the given scalar fields and a
// zeroed hash, history and coinbase, enough for runs that don't exercise
// BLOCKHASH.
func NewBlockInfo(number, difficulty, gasLimit, timestamp, baseFee, blobBaseFee, chainID uint64) *BlockInfo {
	return &BlockInfo{
		Number:      number,
		Difficulty:  difficulty,
		GasLimit:    gasLimit,
		Timestamp:   timestamp,
		BaseFee:     baseFee,
		BlobBaseFee: blobBaseFee,
		ChainID:     chainID,
	}
}
