package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arkwright-dev/jackc/pkg/jack"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Jack Compiler translates a single class (or every class in a directory,
non-recursively) written in the Jack language directly into VM instructions,
one file at a time, without building an intermediate syntax tree.
`, "\n", " ")

var JackCompiler = cli.New(Description).
	WithArg(cli.NewArg("path", "A .jack file or a directory of .jack files to compile").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("debug", "Appends a symbol-table dump to <path>.symbols as each class/subroutine compiles").
		WithType(cli.TypeBool)).
	WithAction(Handler)

// Handler implements the CLI contract: a single file-or-directory argument,
// a non-recursive '*.jack' walk in directory mode, 'Foo.jack' -> 'Foo.vm'
// output alongside the input, and a non-zero exit status on the first
// error encountered for any given file (other files keep being processed).
func Handler(args []string, options map[string]string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: jack_compiler <path.jack|directory>\n")
		return -1
	}

	inputs, err := collectSources(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return -1
	}

	var debug io.Writer
	if _, enabled := options["debug"]; enabled {
		sink, err := os.Create(args[0] + ".symbols")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unable to open debug sink: %s\n", err)
			return -1
		}
		defer sink.Close()
		debug = sink
	}

	status := 0
	for _, input := range inputs {
		if err := compileOne(input, debug); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", input, err)
			status = -1
			continue
		}
	}

	return status
}

// collectSources resolves path to the list of .jack files it names: itself
// if it is a file, or its top-level '*.jack' children if it is a directory.
func collectSources(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("unable to open input: %w", err)
	}

	if !info.IsDir() {
		if filepath.Ext(p) != ".jack" {
			return nil, fmt.Errorf("not a .jack file: %s", p)
		}
		return []string{p}, nil
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory: %w", err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
			continue
		}
		sources = append(sources, filepath.Join(p, entry.Name()))
	}
	return sources, nil
}

// compileOne reads input, translates it and writes the sibling .vm file.
func compileOne(input string, debug io.Writer) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("unable to open input file: %w", err)
	}

	extension := path.Ext(input)
	outputPath := strings.TrimSuffix(input, extension) + ".vm"

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer output.Close()

	return jack.CompileSource(source, output, debug)
}

func main() { os.Exit(JackCompiler.Run(os.Args, os.Stdout)) }
