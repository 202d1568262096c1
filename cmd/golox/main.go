// Command golox runs Lox source files or an interactive REPL.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/loxlang/golox/internal/lox"
)

const prompt = "> "

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [script]")
		os.Exit(64)
	}
}

// runFile executes path as a complete program and exits 65 on a static
// (scan/parse/resolve) error, 70 on a runtime error, 0 otherwise.
func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(74)
	}

	session := lox.NewSession(os.Stdout)
	result := session.Run(string(source))
	result.Sink.WriteTo(os.Stderr)

	switch {
	case result.HadStaticError():
		os.Exit(65)
	case result.HadRuntimeError():
		fmt.Fprintln(os.Stderr, result.Runtime.Error())
		os.Exit(70)
	}
}

// runPrompt runs an interactive session: each line is compiled and run
// against the same persistent Session, so top-level `var` and `fun`
// declarations from earlier lines stay visible to later ones. Unlike file
// mode, a static or runtime error in one line never exits the process.
func runPrompt() {
	rl, err := readline.New(prompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(74)
	}
	defer rl.Close()

	red := color.New(color.FgRed)
	session := lox.NewSession(os.Stdout)

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl+D) or interrupt
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" || line == "Q" {
			return
		}
		rl.SaveHistory(line)

		result := session.Run(line)
		result.Sink.WriteTo(os.Stderr)
		if result.HadRuntimeError() {
			red.Fprintln(os.Stderr, result.Runtime.Error())
		}
	}
}
