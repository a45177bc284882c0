package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "repl":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return replCommand(args[2:], cfg)
	case "inspect":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return inspectCommand(args[2:], cfg)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func replCommand(args []string, cfg cliConfig) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	render := fs.Bool("render", false, "show the sequence rendered as an HTML list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return runREPL(cfg, *render)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  repl [-render]")
	fmt.Fprintln(os.Stderr, "    interactive playground for an observable sequence")
	fmt.Fprintln(os.Stderr, "  inspect [-class name] <hierarchy.yaml>")
	fmt.Fprintln(os.Stderr, "    build a class hierarchy and print resolved members")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  OK_HISTORY_LIMIT  lines kept in the REPL log (default 200)")
	fmt.Fprintln(os.Stderr, "  OK_VERBOSE        trace class construction on stderr")
	fmt.Fprintln(os.Stderr, "  OK_SAMPLE_SEED    seed for the REPL sample command (0 picks one)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
