// Package inkpress converts Markdown documents to styled PDF using a
// headless browser.
//
// # Quick Start
//
//	conv, err := inkpress.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Render(ctx, inkpress.RenderOptions{
//	    Markdown: "# Hello\n\nWorld",
//	    Theme:    "serif",
//	    Paper:    "A4",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.pdf", result.PDF, 0o644)
//
// Use Converter.Document to stop before rendering and inspect the HTML.
//
// # Conversion Pipeline
//
//  1. Style composition: base, math, highlight, print and theme CSS, then
//     the files of RenderOptions.CSS. Unknown themes and missing CSS files
//     fail here.
//  2. Markdown to HTML via goldmark: tables, footnotes, task lists,
//     definition lists, heading anchors, MathML math, highlighted code and
//     the [[toc]] placeholder.
//  3. Image resolution: relative and absolute paths become file:// URLs,
//     then every loadable image is inlined as a data: URL. Images that fail
//     to load are left alone.
//  4. Page composition: a standalone HTML document with the CSS inlined.
//  5. Rendering through headless Chrome (go-rod by default, or chromedp).
//
// # Page Layout
//
// Paper is a named format (Letter, Legal, Tabloid, Ledger, A0-A6). Margin is
// a length in px, in, cm or mm. With HeaderFooter set, a header row (the
// title by default) and a footer row (page count and date by default) are
// printed on every page; slots accept {title}, {page}, {total} and {date}.
//
// # Browser Requirements
//
// The rod engine downloads a managed Chromium on first run unless
// ROD_BROWSER_BIN names a binary. The chromedp engine uses CHROME_PATH or
// the system Chrome. Set ROD_NO_SANDBOX=1 in containers.
package inkpress
