package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkpress <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a markdown file to PDF (default)")
	fmt.Fprintln(w, "  serve      Start the browser editor with live preview")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'inkpress help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkpress [convert] <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a markdown file to a styled PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --input <path>        Markdown file (or pass it as an argument)")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default: input with .pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --basedir <dir>       Directory for relative images (default: input dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --theme <s>           Theme: clean, serif, academic, github-dark")
	fmt.Fprintln(w, "      --paper <s>           Paper: Letter, Legal, Tabloid, Ledger, A0-A6")
	fmt.Fprintln(w, "      --margin <s>          Margin with unit: 16mm, 0.5in, 1cm, 48px")
	fmt.Fprintln(w, "      --title <s>           Title (default: first H1)")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet (repeatable)")
	fmt.Fprintln(w, "      --no-toc              Leave [[toc]] placeholders as text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header/Footer:")
	fmt.Fprintln(w, "      --header-footer       Print header and footer rows")
	fmt.Fprintln(w, "      --no-header-footer    Do not print header and footer rows")
	fmt.Fprintln(w, "      --header-left <s>     Header left text")
	fmt.Fprintln(w, "      --header-center <s>   Header center text")
	fmt.Fprintln(w, "      --header-right <s>    Header right text")
	fmt.Fprintln(w, "      --footer-left <s>     Footer left text")
	fmt.Fprintln(w, "      --footer-center <s>   Footer center text")
	fmt.Fprintln(w, "      --footer-right <s>    Footer right text")
	fmt.Fprintln(w, "                            Tokens: {title}, {date}, {page}, {total}")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkpress serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start the browser editor with live preview and PDF export.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default: :3000)")
	fmt.Fprintln(w, "      --file <path>         Markdown file opened by default")
	fmt.Fprintln(w, "      --root <dir>          Confine file and image access to this directory")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <s>          Engine: rod, chromedp (default: rod)")
	fmt.Fprintln(w, "      --timeout <d>         Conversion timeout (default: 60s)")
	fmt.Fprintln(w, "      --asset-path <dir>    Override bundled styles and templates")
	fmt.Fprintln(w, "      --no-remote-images    Do not download http(s) images")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "  -h, --help                Show this help")
}

// runHelp prints help for a command, or the main usage without one.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: inkpress version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		printUsage(env.Stdout)
	default:
		return fmt.Errorf("%w: %q (run 'inkpress help')", ErrUnknownCommand, args[0])
	}
	return nil
}
