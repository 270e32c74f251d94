// Copyright 2025 The jet Authors
// This file is part of jet.
//
// jet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// jet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with jet. If not, see <http://www.gnu.org/licenses/>.

// Command jetrun loads a hex-encoded ROM file, builds it into one
// contract, runs it once, and dumps the resulting Context. It is
// deliberately thin; the build/run logic all lives in engine and compiler.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/tyler-smith/jet/buildopts"
	"github.com/tyler-smith/jet/diagnostics"
	"github.com/tyler-smith/jet/engine"
	"github.com/tyler-smith/jet/runtime"
)

func main() {
	app := &cli.App{
		Name:  "jetrun",
		Usage: "build and run a single EVM contract against an in-memory Jet engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rom",
				Usage:    "path to a file containing hex-encoded contract bytecode",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "hex contract address the ROM is deployed at",
				Value: "0x0000000000000000000000000000000000000001",
			},
			&cli.Uint64Flag{Name: "block-number", Value: 1},
			&cli.Uint64Flag{Name: "block-timestamp", Value: 0},
			&cli.Uint64Flag{Name: "chain-id", Value: 1},
			&cli.BoolFlag{Name: "vstack", Usage: "enable the virtual-stack lowering optimization"},
			&cli.BoolFlag{Name: "emit-ir", Usage: "log generated IR at debug level"},
			&cli.BoolFlag{Name: "verify", Value: true, Usage: "run IR verification after each contract build"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("jetrun: fatal", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	rom, err := readROM(c.String("rom"))
	if err != nil {
		return err
	}

	addr, err := parseAddress(c.String("address"))
	if err != nil {
		return err
	}

	opts := buildopts.Default()
	opts.VStack = c.Bool("vstack")
	opts.EmitIR = c.Bool("emit-ir")
	opts.Verify = c.Bool("verify")

	eng, err := engine.New(opts)
	if err != nil {
		return fmt.Errorf("jetrun: build engine: %w", err)
	}
	defer eng.Close()

	if err := eng.BuildContract(addr, rom); err != nil {
		return fmt.Errorf("jetrun: build contract: %w", err)
	}
	if err := eng.Finalize(); err != nil {
		return fmt.Errorf("jetrun: finalize engine: %w", err)
	}

	blockInfo := runtime.NewBlockInfo(
		c.Uint64("block-number"), 0, 0, c.Uint64("block-timestamp"), 0, 0, c.Uint64("chain-id"),
	)

	code, ctx, err := eng.RunContract(addr, blockInfo)
	if err != nil {
		return fmt.Errorf("jetrun: run contract: %w", err)
	}

	diagnostics.Dump(os.Stdout, code, ctx)
	return nil
}

func readROM(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jetrun: read rom file: %w", err)
	}
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x"))
	rom, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("jetrun: decode rom hex: %w", err)
	}
	return rom, nil
}

func parseAddress(s string) (runtime.Address, error) {
	clean := strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return runtime.Address{}, fmt.Errorf("jetrun: decode address hex: %w", err)
	}
	if len(raw) != runtime.AddressSize {
		return runtime.Address{}, fmt.Errorf("jetrun: address must be %d bytes, got %d", runtime.AddressSize, len(raw))
	}
	var addr runtime.Address
	copy(addr[:], raw)
	return addr, nil
}
