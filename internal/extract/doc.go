// Package extract turns an HTML page into the candidate blocks that the
// section classifier inspects.
//
// # Candidates
//
// A candidate block is one of:
//   - an h1, h2 or h3 heading
//   - a structural container (section, article, aside, header, footer, nav,
//     main, div) that carries an id
//   - any element whose class attribute mentions "section" or "hero"
//
// Blocks are numbered in document (pre-order) order, so a container always
// precedes the headings nested inside it.
//
// # Body text
//
// A heading's body runs from the heading to the next heading of the same or a
// higher level. A container's body is its own text. Text inside script,
// style, noscript and template elements is never collected.
//
// # Usage
//
//	p := extract.NewParser()
//	doc, err := p.Parse(f)
package extract
