// This is the main-driver for our compiler.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/reardan/w2/compiler"
)

func main() {
	//
	// Look for flags.
	//
	debug := flag.Bool("debug", false, "Trace compilation to stderr.")
	flag.Parse()

	//
	// Ensure we have a source filename as our single argument.
	//
	if len(flag.Args()) != 1 {
		fmt.Printf("Usage: w2 <file.w>\n")
		os.Exit(0)
	}
	filename := flag.Args()[0]

	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading %s: %s\n", filename, err)
		os.Exit(1)
	}

	var logger hclog.Logger
	if *debug {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:  "w2",
			Level: hclog.Trace,
		})
	}

	comp := compiler.New(filename, string(source), logger)
	comp.SetDebug(*debug)

	out, err := comp.Compile()
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	outPath := outputPath(filename)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Printf("Error creating output directory: %s\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		fmt.Printf("Error writing %s: %s\n", outPath, err)
		os.Exit(1)
	}
}

// outputPath derives the assembly output path for a source file: a
// "bin" segment is inserted after the first path component (or,
// absent any directory at all, "bin" becomes the sole parent), and
// the final extension is replaced with ".asm".
func outputPath(filename string) string {
	dir, file := filepath.Split(filename)
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext) + ".asm"

	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" {
		return filepath.Join("bin", base)
	}

	parts := strings.Split(dir, string(filepath.Separator))
	newParts := append([]string{parts[0], "bin"}, parts[1:]...)
	return filepath.Join(append(newParts, base)...)
}
