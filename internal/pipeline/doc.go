// Package pipeline implements the Markdown-to-HTML stages of a conversion:
//
//   - Transformer: Markdown to an HTML fragment via goldmark (anchors,
//     footnotes, task lists, definition lists, MathML, table of contents,
//     highlighted code)
//   - NormalizeImageSources: local image references to file:// URLs
//   - ImageInliner: image bytes embedded as data URLs
//   - PageComposer: the standalone HTML document and the header/footer
//     templates for the rendering engine
//
// Stages are pure with respect to each other and hold no state between
// conversions. PDF production is handled by the root inkpress package.
package pipeline
