package document

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// lineTolerance is the vertical distance (in PDF points) within which two
// text fragments are considered part of the same line.
const lineTolerance = 2.0

// ExtractPages reads a PDF and returns its per-page text plus an
// image-content flag per page. Text fragments are ordered top-down, then
// left-right, approximating reading order.
func ExtractPages(path string) (RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawDocument{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return RawDocument{}, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return RawDocument{}, fmt.Errorf("parse pdf %s: %w", path, err)
	}

	var doc RawDocument
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		doc.Pages = append(doc.Pages, Page{
			Number:    pageNum,
			Text:      pageText(page),
			HasImages: pageHasImages(page),
		})
	}

	return doc, nil
}

// ExtractText reads a PDF and returns the whole document's text with pages
// joined by newlines.
func ExtractText(path string) (string, error) {
	doc, err := ExtractPages(path)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(doc.Pages))
	for i, p := range doc.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n"), nil
}

func pageText(page rpdf.Page) string {
	texts := page.Content().Text
	if len(texts) == 0 {
		return ""
	}

	// PDF Y coordinates grow upward, so top-down reading order is
	// descending Y. Ties within a line break left-right.
	sorted := make([]rpdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > lineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	lastY := math.Inf(1)
	lastEnd := 0.0
	for _, t := range sorted {
		switch {
		case math.Abs(t.Y-lastY) > lineTolerance:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
		case t.X-lastEnd > t.FontSize*0.3:
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		lastY = t.Y
		lastEnd = t.X + t.W
	}
	return b.String()
}

// pageHasImages inspects the page's XObject resources for image subtypes.
func pageHasImages(page rpdf.Page) bool {
	defer func() { recover() }() // malformed resource dictionaries are treated as no-image

	xobjects := page.Resources().Key("XObject")
	if xobjects.Kind() != rpdf.Dict {
		return false
	}
	for _, key := range xobjects.Keys() {
		if xobjects.Key(key).Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}
