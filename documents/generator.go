// Package documents renders the garage's business documents: GST tax
// invoices, repair and booking estimates, job cards, and service, spare
// parts and claim invoices.
//
// Every generator follows the same pattern. A page frame draws the
// repeating header (and, for some documents, the customer and vehicle
// information columns) on the first page and again from the page-break
// callback of a layout.Flow, so that all pages carry identical headers.
// Content blocks are measured, reserved through the flow and then drawn.
package documents

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/media"
)

// Largest side, in pixels, of photos embedded in a document.
const maxPhotoPixels = 1600

// Generator renders documents. It is safe for concurrent use; each call
// creates its own garagedocs.Document.
type Generator struct {
	fetcher *media.Fetcher
	opts    []garagedocs.Option
	logger  *log.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithDocumentOptions applies opts to every document the generator creates.
func WithDocumentOptions(opts ...garagedocs.Option) GeneratorOption {
	return func(g *Generator) {
		g.opts = append(g.opts, opts...)
	}
}

// WithFetcher sets the fetcher used to load logos, stamps and photos.
func WithFetcher(f *media.Fetcher) GeneratorOption {
	return func(g *Generator) {
		g.fetcher = f
	}
}

// WithLogger sets the logger that reports skipped images.
func WithLogger(l *log.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator returns a Generator with a default fetcher and logger.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		fetcher: media.NewFetcher(media.DefaultTimeout),
		logger:  log.New(os.Stderr, "[documents] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// newDocument creates a document with the generator options followed by
// extra.
func (g *Generator) newDocument(extra ...garagedocs.Option) (*garagedocs.Document, error) {
	opts := make([]garagedocs.Option, 0, len(g.opts)+len(extra))
	opts = append(opts, g.opts...)
	opts = append(opts, extra...)
	return garagedocs.New(opts...)
}

// loadImage fetches src, normalizes it and registers it under name. Images
// are optional: failures are logged and reported as false.
func (g *Generator) loadImage(ctx context.Context, doc *garagedocs.Document, name, src string) bool {
	if src == "" {
		return false
	}
	data, err := g.fetcher.Fetch(ctx, src)
	if err != nil {
		g.logger.Printf("skipping image %s: %v", name, err)
		return false
	}
	return g.registerImage(doc, name, data)
}

func (g *Generator) registerImage(doc *garagedocs.Document, name string, data []byte) bool {
	img, err := media.Normalize(data, maxPhotoPixels)
	if err != nil {
		g.logger.Printf("skipping image %s: %v", name, err)
		return false
	}
	if err := doc.RegisterImage(name, img.Type, img.Data); err != nil {
		g.logger.Printf("skipping image %s: %v", name, err)
		return false
	}
	return true
}

// finish writes doc to w.
func finish(doc *garagedocs.Document, w io.Writer) error {
	if err := doc.Err(); err != nil {
		return err
	}
	return doc.Output(w)
}

// invalid reports a missing payload.
func invalid(op string) error {
	return fmt.Errorf("documents: %s: %w", op, garagedocs.ErrInvalidParam)
}
