/*
	SMIS Emulator — command-line entry point

	Copyright (c) 2024, SMIS toolchain contributors

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Command smisem loads a flat binary of 32-bit instruction words and
// runs it to completion.
//
//	smisem <program.bin>
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/smis/internal/toolio"
	"github.com/rcornwell/smis/isa"
	"github.com/rcornwell/smis/vm"
)

func main() {
	os.Exit(run())
}

func run() int {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTrace := getopt.BoolLong("trace", 't', "Trace each executed instruction")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("<program.bin>")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return toolio.ExitOK
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		return toolio.ExitUsage
	}
	inPath := args[0]

	var logFile *os.File
	if *optLogFile != "" {
		f, err := toolio.CreateOutput(*optLogFile)
		if err != nil {
			slog.Error(err.Error())
			return toolio.ExitUsage
		}
		defer f.Close()
		logFile = f
	}
	logger := toolio.NewLogger(logFile)

	if err := toolio.CheckExtension(inPath, ".bin"); err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}

	in, err := toolio.OpenInput(inPath)
	if err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}
	defer in.Close()

	bin, err := io.ReadAll(in)
	if err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}

	words, err := wordsFromBytes(bin)
	if err != nil {
		logger.Error(err.Error())
		return toolio.ExitError
	}

	m := vm.New()
	if *optTrace {
		m.Trace = logger
	}
	if err := m.Load(words); err != nil {
		logger.Error(err.Error())
		return toolio.ExitError
	}
	if err := m.Run(); err != nil {
		logger.Error(err.Error())
		if errors.Is(err, isa.ErrInternal) {
			return toolio.ExitInternal
		}
		return toolio.ExitError
	}

	logger.Info("halted", "pc", m.PC, "zf", m.ZF, "sf", m.SF)
	return toolio.ExitOK
}

func wordsFromBytes(bin []byte) ([]uint32, error) {
	if len(bin)%4 != 0 {
		return nil, fmt.Errorf("binary length %d is not a multiple of 4", len(bin))
	}
	words := make([]uint32, len(bin)/4)
	for i := range words {
		var b [4]byte
		copy(b[:], bin[i*4:i*4+4])
		words[i] = isa.FromBytes(b)
	}
	return words, nil
}
