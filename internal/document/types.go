package document

// Page is one page of an extracted document.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the page's extracted text, reading order top-down then
	// left-right.
	Text string

	// HasImages reports whether the page carries raster content the text
	// extraction cannot represent (diagrams, tables rendered as images).
	HasImages bool
}

// RawDocument is an ordered sequence of extracted pages. Immutable once
// extracted.
type RawDocument struct {
	Pages []Page
}

// PageCount returns the number of pages.
func (d RawDocument) PageCount() int { return len(d.Pages) }

// Chunk is a bounded span of document pages concatenated into one text
// blob with per-page delimiters, sized for a single model call.
type Chunk struct {
	// Index is the 0-based chunk position within the document.
	Index int

	// PageNumbers are the 1-based pages covered by this chunk, ascending.
	PageNumbers []int

	// Text is the concatenated chunk body, including page delimiters and
	// image placeholder sentinels.
	Text string
}
