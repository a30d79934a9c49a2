// Package extractor routes a document to the extractor matching its
// MIME type.
package extractor

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

type Composite struct {
	plaintext ports.TextExtractor
	pdf       ports.TextExtractor
}

func NewComposite(plaintext, pdf ports.TextExtractor) *Composite {
	return &Composite{plaintext: plaintext, pdf: pdf}
}

func (c *Composite) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if isPDF(doc) {
		return c.pdf.Extract(ctx, doc)
	}
	return c.plaintext.Extract(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(doc.Filename))
	}
	if strings.HasPrefix(mimeType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
