package garagedocs

import "time"

// Option is a functional option for configuring a new Document via New.
type Option func(*documentConfig)

type documentConfig struct {
	size        string
	margin      float64
	bottom      float64
	fontDir     string
	compress    bool
	created     time.Time
	letterhead  string
	watermark   string
	pageNumbers string
	title       string
	author      string
	hook        func(TextRun)
}

// Epoch is the creation date stamped on documents that do not set one, so
// that identical input renders to identical bytes.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WithPageSize sets the page size by name ("A4", "A5", "Letter", "Legal").
func WithPageSize(size string) Option {
	return func(c *documentConfig) {
		c.size = size
	}
}

// WithMargin sets the left, top and right page margin in points.
func WithMargin(m float64) Option {
	return func(c *documentConfig) {
		c.margin = m
	}
}

// WithBottomMargin sets the distance from the page bottom below which no
// content is placed.
func WithBottomMargin(m float64) Option {
	return func(c *documentConfig) {
		c.bottom = m
	}
}

// WithFontDir sets the directory holding the Inter TrueType files. When the
// files are missing the document falls back to the Helvetica core fonts.
func WithFontDir(dir string) Option {
	return func(c *documentConfig) {
		c.fontDir = dir
	}
}

// WithCompression toggles stream compression.
func WithCompression(on bool) Option {
	return func(c *documentConfig) {
		c.compress = on
	}
}

// WithCreationDate sets the creation and modification date written to the
// document information dictionary.
func WithCreationDate(t time.Time) Option {
	return func(c *documentConfig) {
		c.created = t
	}
}

// WithLetterhead draws the first page of the given PDF file behind the
// content of every page.
func WithLetterhead(path string) Option {
	return func(c *documentConfig) {
		c.letterhead = path
	}
}

// WithWatermark stamps a diagonal text watermark on every page.
func WithWatermark(text string) Option {
	return func(c *documentConfig) {
		c.watermark = text
	}
}

// WithPageNumbers sets the footer page number format. The format receives
// the page number and the total page count, e.g. "Page %d of %s".
// An empty format disables page numbers.
func WithPageNumbers(format string) Option {
	return func(c *documentConfig) {
		c.pageNumbers = format
	}
}

// WithTitle sets the document title and author metadata.
func WithTitle(title, author string) Option {
	return func(c *documentConfig) {
		c.title = title
		c.author = author
	}
}

// WithTextHook registers fn to receive every line of text written to the
// document. It is meant for tests and debugging.
func WithTextHook(fn func(TextRun)) Option {
	return func(c *documentConfig) {
		c.hook = fn
	}
}

func defaultConfig() *documentConfig {
	return &documentConfig{
		size:        "A4",
		margin:      10,
		bottom:      40,
		compress:    true,
		created:     Epoch,
		pageNumbers: "Page %d of %s",
	}
}
