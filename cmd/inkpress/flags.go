package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds theme and page layout flags.
type documentFlags struct {
	theme          string
	paper          string
	margin         string
	title          string
	basedir        string
	css            []string
	noTOC          bool
	headerFooter   bool
	noHeaderFooter bool
}

// slotFlags holds the header and footer slot texts.
type slotFlags struct {
	headerLeft   string
	headerCenter string
	headerRight  string
	footerLeft   string
	footerCenter string
	footerRight  string
}

// renderFlags holds rendering engine flags.
type renderFlags struct {
	engine    string
	timeout   string
	assetPath string
	noRemote  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	input    string
	output   string
	document documentFlags
	slots    slotFlags
	render   renderFlags

	// changed records flags given on the command line; only those
	// override config values.
	changed map[string]bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
	file   string
	root   string
	render renderFlags

	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds theme and layout flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.theme, "theme", "t", "", "theme: clean, serif, academic, github-dark")
	fs.StringVar(&f.paper, "paper", "", "paper size: Letter, Legal, Tabloid, Ledger, A0-A6")
	fs.StringVar(&f.margin, "margin", "", "page margin with unit: 16mm, 0.5in, 1cm, 48px")
	fs.StringVar(&f.title, "title", "", "document title (default: first H1)")
	fs.StringVar(&f.basedir, "basedir", "", "directory for relative image paths (default: input directory)")
	fs.StringArrayVar(&f.css, "css", nil, "extra CSS file (repeatable)")
	fs.BoolVar(&f.noTOC, "no-toc", false, "leave [[toc]] placeholders as text")
	fs.BoolVar(&f.headerFooter, "header-footer", false, "print header and footer rows")
	fs.BoolVar(&f.noHeaderFooter, "no-header-footer", false, "do not print header and footer rows")
}

// addSlotFlags adds header and footer slot flags to a FlagSet.
func addSlotFlags(fs *flag.FlagSet, f *slotFlags) {
	fs.StringVar(&f.headerLeft, "header-left", "", "header left text")
	fs.StringVar(&f.headerCenter, "header-center", "", "header center text")
	fs.StringVar(&f.headerRight, "header-right", "", "header right text")
	fs.StringVar(&f.footerLeft, "footer-left", "", "footer left text")
	fs.StringVar(&f.footerCenter, "footer-center", "", "footer center text")
	fs.StringVar(&f.footerRight, "footer-right", "", "footer right text")
}

// addRenderFlags adds rendering engine flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.engine, "engine", "", "rendering engine: rod, chromedp")
	fs.StringVar(&f.timeout, "timeout", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding bundled styles and templates")
	fs.BoolVar(&f.noRemote, "no-remote-images", false, "do not download http(s) images")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, env *Environment) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &convertFlags{}

	fs.StringVarP(&f.input, "input", "i", "", "markdown file to convert")
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: input with .pdf)")

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addSlotFlags(fs, &f.slots)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printConvertUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, env *Environment) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default: :3000)")
	fs.StringVar(&f.file, "file", "", "markdown file the editor opens by default")
	fs.StringVar(&f.root, "root", "", "only serve files and images under this directory")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printServeUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		changed[fl.Name] = true
	})
	return changed
}
