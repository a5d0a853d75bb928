package document

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// SplitPageDocuments splits a PDF into one single-page PDF per page, in
// page order. IEP extraction sends each page to the model as a standalone
// document unit so table layout survives intact.
func SplitPageDocuments(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfContext, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	pages := make([][]byte, 0, pdfContext.PageCount)
	for pageNum := 1; pageNum <= pdfContext.PageCount; pageNum++ {
		pageReader, err := api.ExtractPage(pdfContext, pageNum)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", pageNum, err)
		}
		data, err := io.ReadAll(pageReader)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", pageNum, err)
		}
		pages = append(pages, data)
	}

	return pages, nil
}
