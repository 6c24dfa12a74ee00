/*
	SMIS Disassembler — command-line entry point

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

// Command smisdis renders a flat binary of 32-bit instruction words
// back into SMIS source text.
//
//	smisdis <input.bin> <output.txt>
package main

import (
	"errors"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/smis/disasm"
	"github.com/rcornwell/smis/internal/toolio"
	"github.com/rcornwell/smis/isa"
)

func main() {
	os.Exit(run())
}

func run() int {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("<input.bin> <output.txt>")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return toolio.ExitOK
	}

	args := getopt.Args()
	if len(args) != 2 {
		getopt.Usage()
		return toolio.ExitUsage
	}
	inPath, outPath := args[0], args[1]

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
	if err := toolio.CheckExtension(outPath, ".txt"); err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}

	in, err := toolio.OpenInput(inPath)
	if err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}
	defer in.Close()

	text, err := disasm.Disassemble(in)
	if err != nil {
		logger.Error(err.Error())
		if errors.Is(err, isa.ErrInternal) {
			return toolio.ExitInternal
		}
		return toolio.ExitError
	}

	out, err := toolio.CreateOutput(outPath)
	if err != nil {
		logger.Error(err.Error())
		return toolio.ExitUsage
	}
	defer out.Close()

	if _, err := out.WriteString(text); err != nil {
		logger.Error(err.Error())
		return toolio.ExitInternal
	}

	logger.Info("disassembled", "input", inPath, "output", outPath)
	return toolio.ExitOK
}
