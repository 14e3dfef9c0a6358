package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goforj/godump"
	"golang.org/x/term"

	"github.com/uvmkit/uas/pkg/cli"
	"github.com/uvmkit/uas/pkg/codegen"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/lexer"
	"github.com/uvmkit/uas/pkg/parser"
	"github.com/uvmkit/uas/pkg/typecheck"
	"github.com/uvmkit/uas/pkg/util"
)

const appVersion = "0.3.0"

func main() {
	app := cli.NewApp("uas", "uas [options] <file.uasm>", appVersion)

	output := app.String("output", "o", "", "path", "write the executable image to <path> instead of the input name with a .uvm extension")
	dumpTokens := app.Bool("dump-tokens", "", false, "print the token stream and stop before parsing")
	dumpAST := app.Bool("dump-ast", "", false, "print the syntax tree after a successful parse")
	noColor := app.Bool("no-color", "", false, "disable ANSI colors in diagnostics")
	showHelp := app.Bool("help", "h", false, "show this help and exit")
	showVersion := app.Bool("version", "", false, "print the version and exit")

	inputs, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "uas: %v\n", err)
		os.Exit(2)
	}
	if *showHelp {
		app.PrintHelp(os.Stdout)
		return
	}
	if *showVersion {
		fmt.Printf("uas %s\n", appVersion)
		return
	}
	if len(inputs) != 1 {
		app.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	path := inputs[0]
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "uas: %v\n", err)
		os.Exit(1)
	}

	src := util.NewSourceFile(path, content)
	rep := util.NewReporter(src)
	rep.Color = !*noColor && term.IsTerminal(int(os.Stderr.Fd()))

	if !assemble(src, rep, *output, *dumpTokens, *dumpAST) {
		os.Exit(1)
	}
}

// assemble drives the pipeline: tokenize, parse, check, generate, write. A
// failed stage stops the pipeline; the reporter has already printed why.
func assemble(src *util.SourceFile, rep *util.Reporter, output string, dumpTokens, dumpAST bool) bool {
	cat := encoding.NewCatalog()

	toks, ok := lexer.Tokenize(src, cat, rep)
	if !ok {
		return false
	}
	if dumpTokens {
		for _, t := range toks {
			fmt.Printf("%d:%d\t%s\t%q\n", t.Line, t.Col, t.Kind, src.SubStr(t.Pos, t.Len))
		}
		return true
	}

	file, ok := parser.New(src, toks, rep).BuildAST()
	if !ok {
		return false
	}
	if dumpAST {
		godump.Dump(file)
	}

	res, ok := typecheck.New(cat, file, rep).Check()
	if !ok {
		return false
	}

	image := codegen.New(file, res).Generate()

	if output == "" {
		output = outputName(src.Name)
	}
	if err := os.WriteFile(output, image, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "uas: %v\n", err)
		return false
	}
	return true
}

func outputName(input string) string {
	if i := strings.LastIndexByte(input, '.'); i > 0 {
		return input[:i] + ".uvm"
	}
	return input + ".uvm"
}
