// Package cli is a small command-line framework: long/short flags with
// typed accessors and help output sized to the terminal.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type flagKind int

const (
	boolFlag flagKind = iota
	stringFlag
)

type flag struct {
	name  string // long form, without dashes
	short string // short form, without dash; may be empty
	arg   string // placeholder shown in help for string flags
	help  string
	kind  flagKind

	boolVal *bool
	strVal  *string
}

// App collects flag definitions and parses an argument vector against them.
type App struct {
	Name    string
	Usage   string
	Version string

	flags []*flag
}

func NewApp(name, usage, version string) *App {
	return &App{Name: name, Usage: usage, Version: version}
}

// Bool registers a boolean flag and returns the destination, which is set
// during Parse.
func (a *App) Bool(name, short string, def bool, help string) *bool {
	v := def
	a.flags = append(a.flags, &flag{name: name, short: short, help: help, kind: boolFlag, boolVal: &v})
	return &v
}

// String registers a flag taking one argument.
func (a *App) String(name, short, def, arg, help string) *string {
	v := def
	a.flags = append(a.flags, &flag{name: name, short: short, arg: arg, help: help, kind: stringFlag, strVal: &v})
	return &v
}

func (a *App) lookup(name string) *flag {
	for _, f := range a.flags {
		if f.name == name || (f.short != "" && f.short == name) {
			return f
		}
	}
	return nil
}

// Parse walks the argument vector, filling flag destinations and collecting
// the remaining positional arguments. "--name=value" and "--name value" are
// both accepted for string flags.
func (a *App) Parse(args []string) ([]string, error) {
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		hasValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		f := a.lookup(name)
		if f == nil {
			return nil, fmt.Errorf("unknown option '%s'", arg)
		}

		switch f.kind {
		case boolFlag:
			if hasValue {
				return nil, fmt.Errorf("option '--%s' takes no argument", f.name)
			}
			*f.boolVal = true
		case stringFlag:
			if !hasValue {
				i++
				if i >= len(args) {
					return nil, fmt.Errorf("option '--%s' requires an argument", f.name)
				}
				value = args[i]
			}
			*f.strVal = value
		}
	}
	return positional, nil
}

// termWidth returns the current terminal width, falling back to 80 columns
// when stdout is not a terminal.
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// PrintHelp renders the usage banner and the flag table, wrapping help text
// to the terminal width.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", a.Name, a.Version)
	fmt.Fprintf(w, "usage: %s\n\noptions:\n", a.Usage)

	left := make([]string, len(a.flags))
	leftWidth := 0
	for i, f := range a.flags {
		s := "    "
		if f.short != "" {
			s = fmt.Sprintf("-%s, ", f.short)
		}
		s += "--" + f.name
		if f.arg != "" {
			s += " <" + f.arg + ">"
		}
		left[i] = s
		if len(s) > leftWidth {
			leftWidth = len(s)
		}
	}

	width := termWidth()
	for i, f := range a.flags {
		fmt.Fprintf(w, "  %-*s  ", leftWidth, left[i])
		printWrapped(w, f.help, leftWidth+4, width)
	}
}

func printWrapped(w io.Writer, text string, indent, width int) {
	avail := width - indent
	if avail < 20 {
		avail = 20
	}
	line := 0
	for _, word := range strings.Fields(text) {
		if line > 0 && line+1+len(word) > avail {
			fmt.Fprintf(w, "\n%*s", indent, "")
			line = 0
		} else if line > 0 {
			fmt.Fprint(w, " ")
			line++
		}
		fmt.Fprint(w, word)
		line += len(word)
	}
	fmt.Fprintln(w)
}
