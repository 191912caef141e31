package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit statuses.
const (
	exitOK           = 0
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
)

func showUsage(w io.Writer) {
	fmt.Fprintf(w, `Everest - a small scripting language with closures and classes

Usage:
    everest [flags]             Start an interactive prompt
    everest [flags] <script>    Run a script file

Flags:
`)
}

// runMain runs the command line and returns the exit status.
func runMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("everest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Read settings from this YAML file")
	verbose := fs.Bool("v", false, "Log debug details to stderr")
	dumpAST := fs.Bool("ast", false, "Print the parsed program as an s-expression before running it")
	dumpBindings := fs.Bool("bindings", false, "Print how each variable was resolved before running")
	fs.Usage = func() {
		showUsage(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	session := NewSession(stdout, stderr, logger)
	session.DumpAST = *dumpAST
	session.DumpBindings = *dumpBindings

	if fs.NArg() == 0 {
		return runPrompt(session, cfg)
	}
	return runFile(session, fs.Arg(0))
}

func runFile(session *Session, filename string) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(session.Stderr, "Error reading file %s: %v\n", filename, err)
		return exitIOError
	}

	session.logger.Debug("running script", "file", filename, "bytes", len(source))
	switch session.Run(source) {
	case OutcomeCompileError:
		return exitCompileError
	case OutcomeRuntimeError:
		return exitRuntimeError
	default:
		return exitOK
	}
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}
