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

// ExtractIEP runs the IEP pipeline. IEPs are table-heavy, so plain text
// extraction loses the structure; each page is sent to the model as a
// single-page PDF attachment instead. Page partials merge in page order
// with duplicates removed and the longest placement kept.
func (c *Client) ExtractIEP(ctx context.Context, pdfPath, studentID string) (profile.Profile, error) {
	pages, err := document.SplitPageDocuments(pdfPath)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("read IEP: %w", err)
	}
	c.log.Info("IEP split into pages", "path", pdfPath, "pages", len(pages))

	ctx = llm.WithPurpose(ctx, "iep-extraction")

	partials := make([]profile.Partial, len(pages))
	ok := make([]bool, len(pages))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			partial, err := c.extractPartial(gctx, i+1, []llm.Message{
				{
					Role:    llm.RoleUser,
					Content: iepPrompt,
					Media:   &llm.Media{MediaType: "application/pdf", Data: page},
				},
			})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.Warn("page extraction failed", "page", i+1, "error", err)
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
		return profile.Profile{}, fmt.Errorf("IEP extraction: all %d pages failed", len(pages))
	}

	merged := profile.MergeWithinDocument(usable).Profile()
	merged.StudentID = studentID
	return merged, nil
}
