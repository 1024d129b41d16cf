package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUnknownCommand is returned for a first argument that is neither a
// command, a flag nor a Markdown file.
var ErrUnknownCommand = errors.New("unknown command")

// runMain dispatches to a command and returns the process exit code.
// Without a known command name the arguments are handed to convert, so
// "inkpress doc.md" and "inkpress -i doc.md" both convert.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := "convert", args[1:]
	if len(rest) > 0 && isCommand(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvertCmd(ctx, rest, env)
	case "serve":
		err = runServeCmd(ctx, rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "inkpress %s\n", Version)
	case "help":
		err = runHelp(rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
	}
	return exitCodeFor(err)
}

func isCommand(arg string) bool {
	switch arg {
	case "convert", "serve", "version", "help":
		return true
	}
	return false
}

func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env)
	if err != nil {
		return usageError(err)
	}
	return runConvert(ctx, positional, flags, env)
}

func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, strings.Join(positional, " "))
	}
	return runServe(ctx, flags, env)
}

// usageError marks flag parsing failures as usage errors.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
