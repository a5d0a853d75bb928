package document

import (
	"fmt"
	"strings"
)

// imagePlaceholder is the sentinel inserted after an image-bearing page's
// text so the model knows about visual content it cannot see. Downstream
// prompts reference this exact phrasing.
const imagePlaceholder = "[Image Placeholder: Page %d contains a diagram, table, or visual.]"

// Split partitions doc into ordered, non-overlapping chunks of at most
// pagesPerChunk pages. Every page appears in exactly one chunk, in
// ascending page order.
func Split(doc RawDocument, pagesPerChunk int) ([]Chunk, error) {
	if pagesPerChunk < 1 {
		return nil, fmt.Errorf("pagesPerChunk must be positive, got %d", pagesPerChunk)
	}

	var chunks []Chunk
	for start := 0; start < len(doc.Pages); start += pagesPerChunk {
		end := start + pagesPerChunk
		if end > len(doc.Pages) {
			end = len(doc.Pages)
		}

		var b strings.Builder
		var pageNums []int
		for _, page := range doc.Pages[start:end] {
			fmt.Fprintf(&b, "\n---\nPage %d:\n%s\n", page.Number, strings.TrimSpace(page.Text))
			if page.HasImages {
				fmt.Fprintf(&b, "\n"+imagePlaceholder+"\n", page.Number)
			}
			pageNums = append(pageNums, page.Number)
		}

		chunks = append(chunks, Chunk{
			Index:       len(chunks),
			PageNumbers: pageNums,
			Text:        strings.TrimSpace(b.String()),
		})
	}

	return chunks, nil
}
