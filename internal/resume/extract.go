package resume

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource is the slice of a PDF reader the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(i int) (string, error) {
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// ExtractText returns the plain text of a resume. Only PDFs are read; other
// allowed types yield empty text and no error.
func ExtractText(r io.ReaderAt, size int64, contentType string) (string, error) {
	if NormalizeType(contentType) != MIMEPDF {
		return "", nil
	}
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return joinPages(pdfPages{r: reader})
}

// ExtractBytes is ExtractText over an in-memory file.
func ExtractBytes(b []byte, contentType string) (string, error) {
	return ExtractText(bytes.NewReader(b), int64(len(b)), contentType)
}

// ExtractFile reads a resume from disk.
func ExtractFile(path, contentType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", err
	}
	return ExtractText(f, st.Size(), contentType)
}

// joinPages emits pages in order, each followed by a blank line.
func joinPages(src pageSource) (string, error) {
	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(strings.TrimSpace(text))
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
