package model

// Block is a candidate block extracted from an HTML document: a heading,
// an identified structural container, or a container whose class marks it
// as a section.
type Block struct {
	// Index is the block's position among all candidate blocks, in document order.
	Index int `json:"index"`

	// Tag is the lowercase element name (h2, section, div, ...).
	Tag string `json:"tag"`

	// ID is the element's id attribute.
	ID string `json:"id,omitempty"`

	// Class is the element's raw class attribute.
	Class string `json:"class,omitempty"`

	// Text is the identifying visible text: heading text, or a container's
	// leading heading or opening words.
	Text string `json:"text,omitempty"`

	// Body is the visible text of the content the block introduces.
	// Not serialized; rubric checks read it in-process.
	Body string `json:"-"`

	// WordCount is the number of words in Body.
	WordCount int `json:"word_count"`

	// Images lists image sources found in the block's content.
	Images []string `json:"images,omitempty"`
}

// Document is the parsed form of one HTML page.
type Document struct {
	// Title is the <title> text.
	Title string `json:"title,omitempty"`

	// Lang is the <html lang> attribute.
	Lang string `json:"lang,omitempty"`

	// Blocks contains the candidate blocks in document order.
	Blocks []Block `json:"blocks"`
}
