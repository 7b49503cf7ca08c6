package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/sectioncheck/internal/model"
)

// DefaultSummaryWords is the number of leading words used as a container's
// text when it has no heading.
const DefaultSummaryWords = 30

// Parser extracts candidate blocks from HTML.
type Parser struct {
	summaryWords int
}

// Option configures a Parser.
type Option func(*Parser)

// WithSummaryWords sets how many leading words identify a container that has
// no heading of its own. Non-positive values are ignored.
func WithSummaryWords(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.summaryWords = n
		}
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{summaryWords: DefaultSummaryWords}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// containers are the structural elements that become candidates when they
// carry an id.
var containers = map[atom.Atom]bool{
	atom.Section: true,
	atom.Article: true,
	atom.Aside:   true,
	atom.Header:  true,
	atom.Footer:  true,
	atom.Nav:     true,
	atom.Main:    true,
	atom.Div:     true,
}

// openHeading is a heading whose body is still being collected.
type openHeading struct {
	index int
	level int
	body  strings.Builder
	imgs  []string
}

// walker holds the state of a single Parse call.
type walker struct {
	p      *Parser
	doc    *model.Document
	blocks []model.Block
	open   []*openHeading

	// titles are headings already used as a container's text. They end
	// the bodies of earlier headings but are not candidates themselves.
	titles map[*html.Node]bool
}

// Parse reads an HTML document and returns its candidate blocks.
func (p *Parser) Parse(r io.Reader) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	w := &walker{
		p:      p,
		doc:    &model.Document{},
		blocks: make([]model.Block, 0),
		titles: make(map[*html.Node]bool),
	}
	w.walk(root)
	w.closeHeadings(0)

	w.doc.Blocks = w.blocks
	return w.doc, nil
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		if skipped(n) {
			return
		}
		w.element(n)
		return
	case html.TextNode:
		w.appendText(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) element(n *html.Node) {
	switch n.DataAtom {
	case atom.Html:
		if lang := getAttr(n, "lang"); lang != "" {
			w.doc.Lang = lang
		}
	case atom.Title:
		if w.doc.Title == "" {
			w.doc.Title = normalize(textOf(n))
		}
		return
	case atom.Img:
		w.appendImages(imageSources(n))
	}

	if level := headingLevel(n); level > 0 && level <= 3 {
		w.heading(n, level)
		return
	}

	if isContainerCandidate(n) {
		w.container(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// heading records a heading candidate and opens its body. The heading's own
// text counts toward the bodies of the enclosing lower-level headings. A
// heading that titles a container is represented by the container block.
func (w *walker) heading(n *html.Node, level int) {
	w.closeHeadings(level)

	text := normalize(textOf(n))
	w.appendText(text)
	w.appendImages(collectImages(n))

	if w.titles[n] {
		return
	}

	w.blocks = append(w.blocks, model.Block{
		Index: len(w.blocks),
		Tag:   n.Data,
		ID:    getAttr(n, "id"),
		Class: getAttr(n, "class"),
		Text:  text,
	})
	w.open = append(w.open, &openHeading{index: len(w.blocks) - 1, level: level})
}

// closeHeadings finalizes every open heading whose level is the same as or
// deeper than level. Zero closes all of them.
func (w *walker) closeHeadings(level int) {
	for len(w.open) > 0 {
		last := w.open[len(w.open)-1]
		if level > 0 && last.level < level {
			return
		}
		w.open = w.open[:len(w.open)-1]

		body := normalize(last.body.String())
		b := &w.blocks[last.index]
		b.Body = body
		b.WordCount = len(strings.Fields(body))
		b.Images = last.imgs
	}
}

// container records a container candidate. Its text is its title heading,
// and like a heading's body, its body excludes that title.
func (w *walker) container(n *html.Node) {
	var text, body string
	if h := firstHeading(n); h != nil {
		text = normalize(textOf(h))
		if text != "" {
			w.titles[h] = true
			body = normalize(textExcept(n, h))
		}
	}
	if text == "" {
		body = normalize(textOf(n))
		text = firstWords(body, w.p.summaryWords)
	}

	w.blocks = append(w.blocks, model.Block{
		Index:     len(w.blocks),
		Tag:       n.Data,
		ID:        getAttr(n, "id"),
		Class:     getAttr(n, "class"),
		Text:      text,
		Body:      body,
		WordCount: len(strings.Fields(body)),
		Images:    collectImages(n),
	})
}

func (w *walker) appendText(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	for _, h := range w.open {
		h.body.WriteString(s)
		h.body.WriteByte(' ')
	}
}

func (w *walker) appendImages(srcs []string) {
	if len(srcs) == 0 {
		return
	}
	for _, h := range w.open {
		h.imgs = append(h.imgs, srcs...)
	}
}

// isContainerCandidate reports whether n is an identified structural
// container or carries a section-like class.
func isContainerCandidate(n *html.Node) bool {
	if containers[n.DataAtom] && strings.TrimSpace(getAttr(n, "id")) != "" {
		return true
	}
	class := strings.ToLower(getAttr(n, "class"))
	return strings.Contains(class, "section") || strings.Contains(class, "hero")
}

// headingLevel returns 1-6 for h1-h6 and 0 otherwise.
func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	default:
		return 0
	}
}

// skipped reports whether n's subtree holds no visible text.
func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	default:
		return false
	}
}

// firstHeading returns the first heading beneath n. Headings inside nested
// candidate containers belong to those containers.
func firstHeading(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || skipped(c) || isContainerCandidate(c) {
			continue
		}
		if headingLevel(c) > 0 {
			return c
		}
		if h := firstHeading(c); h != nil {
			return h
		}
	}
	return nil
}

// textOf returns the visible text beneath n, space separated.
func textOf(n *html.Node) string {
	return textExcept(n, nil)
}

// textExcept is textOf without the subtree rooted at except.
func textExcept(n, except *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == except {
			return
		}
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case html.ElementNode:
			if skipped(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collectImages(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped(n) {
				return
			}
			if n.DataAtom == atom.Img {
				out = append(out, imageSources(n)...)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// imageSources returns the src and lazy-load data-src of an img element.
func imageSources(n *html.Node) []string {
	var out []string
	for _, key := range []string{"src", "data-src"} {
		if v := strings.TrimSpace(getAttr(n, key)); v != "" && !strings.HasPrefix(v, "data:") {
			out = append(out, v)
		}
	}
	return out
}

// normalize collapses runs of whitespace into single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
