// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lc3as/pkg/assembler"
)

var outvar string
var symvar bool
var astvar bool

var rootCmd = &cobra.Command{
	Use:   "lc3as [flags] filename",
	Short: "An assembler for the LC-3 educational architecture",
	Long: `lc3as translates LC-3 assembly source into a flat big-endian
image: the origin word followed by the program words. Pass '-' as the
filename to read from standard input.

All problems in a source file are reported in one run; no object file
is written if any are found.`,

	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	rootCmd.Flags().StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	rootCmd.Flags().BoolVar(
		&symvar, "symbols", false,
		"Prints the symbol table, in definition order, to stdout",
	)
	rootCmd.Flags().BoolVar(
		&astvar, "dump-ast", false,
		"Pretty-prints the parsed source lines to stdout and exits "+
			"without writing an object file",
	)

	// Makes glog's -v/-logtostderr family available alongside our own
	// flags
	rootCmd.Flags().AddGoFlagSet(flag.CommandLine)
}

// errAssembly signals diagnostics already printed; run's caller must not
// report it a second time.
var errAssembly = fmt.Errorf("assembly failed")

func run(infile string) error {
	var source []byte
	var err error

	if infile == "-" {
		source, err = io.ReadAll(os.Stdin)
		log.SetPrefix(prefix("<stdin>"))

		if outvar == "" {
			outvar = "out.obj"
		}
	} else {
		source, err = os.ReadFile(infile)
		log.SetPrefix(prefix(filepath.Base(infile)))

		if outvar == "" {
			base := filepath.Base(infile)
			outvar = strings.TrimSuffix(base, filepath.Ext(base)) + ".obj"
		}
	}

	if err != nil {
		return err
	}

	glog.V(1).Infof("assembling %d bytes from %s", len(source), infile)

	result := assembler.Assemble(string(source))

	glog.V(1).Infof(
		"%d lines, %d symbols, %d words at x%04X, %d diagnostics",
		len(result.Lines), result.Symbols.Len(),
		len(result.MachineCode), result.Origin, len(result.Diagnostics),
	)

	if astvar {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(result.Lines)
		return nil
	}

	if len(result.Diagnostics) > 0 {
		for _, diag := range result.Diagnostics {
			log.Println(colorize(diag.Error()))
		}

		return errAssembly
	}

	if symvar {
		for _, entry := range result.Symbols.Entries() {
			fmt.Printf("x%04X  %s\n", entry.Address, entry.Name)
		}
	}

	buffer := new(bytes.Buffer)

	if err := binary.Write(
		buffer, binary.BigEndian, result.Origin,
	); err != nil {
		return err
	}

	if err := binary.Write(
		buffer, binary.BigEndian, result.MachineCode,
	); err != nil {
		return err
	}

	if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
		return err
	}

	glog.V(1).Infof("wrote %d bytes to %s", buffer.Len(), outvar)

	return nil
}

func stderrIsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func prefix(name string) string {
	if stderrIsTTY() {
		return fmt.Sprintf("\033[1m%s:\033[0m", name)
	}
	return name + ":"
}

func colorize(message string) string {
	if stderrIsTTY() && strings.HasPrefix(message, "ERROR") {
		return "\033[31mERROR\033[0m" + message[len("ERROR"):]
	}
	return message
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if err != errAssembly {
			log.Println(err)
		}
		os.Exit(1)
	}
}
