package extraction

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/k12coteacher/coteacher/internal/document"
	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/profile"
)

// reportPagesPerChunk groups report pages so each LLM call sees enough
// surrounding context to attribute interviews and observations correctly.
const reportPagesPerChunk = 5

// ExtractReport runs the psychological-report pipeline: split the PDF into
// page chunks, extract a profile partial from each chunk concurrently, and
// merge the partials into one profile. A chunk whose extraction or parse
// fails is logged and skipped; the run fails only if every chunk fails.
func (c *Client) ExtractReport(ctx context.Context, pdfPath, studentID string) (profile.Profile, error) {
	doc, err := document.ExtractPages(pdfPath)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("read report: %w", err)
	}
	chunks, err := document.Split(doc, reportPagesPerChunk)
	if err != nil {
		return profile.Profile{}, err
	}
	c.log.Info("report split into chunks", "path", pdfPath, "pages", doc.PageCount(), "chunks", len(chunks))

	ctx = llm.WithPurpose(ctx, "report-extraction")

	partials := make([]profile.Partial, len(chunks))
	ok := make([]bool, len(chunks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			prompt := psychPromptFor(chunk.Text)
			partial, err := c.extractPartial(gctx, i+1, []llm.Message{
				{Role: llm.RoleUser, Content: prompt},
			})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.Warn("chunk extraction failed", "chunk", i+1, "error", err)
				return nil
			}
			mu.Lock()
			partials[i] = partial
			ok[i] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return profile.Profile{}, err
	}

	var usable []profile.Partial
	for i, partial := range partials {
		if ok[i] {
			usable = append(usable, partial)
		}
	}
	if len(usable) == 0 {
		return profile.Profile{}, fmt.Errorf("report extraction: all %d chunks failed", len(chunks))
	}

	merged := profile.MergeDocumentPartials(usable)
	merged.StudentID = studentID
	return merged, nil
}
