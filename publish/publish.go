// Package publish renders a document to a temporary file, uploads it to
// object storage, records it in the ledger and caches the result by
// payload fingerprint.
package publish

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/smartgarage/garagedocs/cache"
	"github.com/smartgarage/garagedocs/documents"
	"github.com/smartgarage/garagedocs/ledger"
	"github.com/smartgarage/garagedocs/storage"
)

// Renderer writes the PDF for a payload of kind to w.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, kind documents.Kind, payload []byte) error
}

// Result is the outcome of a publish.
type Result struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Cached bool   `json:"cached"`
}

// Publisher runs the publish pipeline. It is safe for concurrent use.
type Publisher struct {
	renderer Renderer
	store    storage.Store
	cache    cache.Cache
	ledger   ledger.Recorder
	prefix   string
	ttl      time.Duration
	tempDir  string
	logger   *log.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithCache sets the result cache. The default is an in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(p *Publisher) { p.cache = c }
}

// WithLedger sets the ledger recorder. The default discards entries.
func WithLedger(r ledger.Recorder) Option {
	return func(p *Publisher) { p.ledger = r }
}

// WithPrefix sets the object key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) { p.prefix = prefix }
}

// WithTTL sets how long published results are reused. Zero keeps them
// until the cache evicts them.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) { p.ttl = ttl }
}

// WithTempDir sets the directory for temporary files.
func WithTempDir(dir string) Option {
	return func(p *Publisher) { p.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// New returns a Publisher that renders with r and uploads to store.
func New(r Renderer, store storage.Store, opts ...Option) *Publisher {
	p := &Publisher{
		renderer: r,
		store:    store,
		cache:    cache.NewMemory(),
		ledger:   ledger.Nop{},
		prefix:   "documents",
		ttl:      24 * time.Hour,
		logger:   log.New(os.Stderr, "[publish] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint identifies a payload of kind.
func Fingerprint(kind documents.Kind, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Publish renders payload and uploads it, or returns the earlier result
// for an identical payload. Cache and ledger failures are logged and do
// not fail the publish.
func (p *Publisher) Publish(ctx context.Context, kind documents.Kind, payload []byte) (Result, error) {
	fp := Fingerprint(kind, payload)
	if e, ok, err := p.cache.Get(ctx, fp); err != nil {
		p.logger.Printf("cache lookup %s: %v", fp[:12], err)
	} else if ok {
		return Result{URL: e.URL, Key: e.Key, Cached: true}, nil
	}

	path, err := p.renderFile(ctx, kind, payload)
	if path != "" {
		defer os.Remove(path)
	}
	if err != nil {
		return Result{}, err
	}

	obj, err := p.store.Put(ctx, storage.NewKey(p.prefix), path)
	if err != nil {
		return Result{}, fmt.Errorf("publish: %w", err)
	}
	p.logger.Printf("published %s as %s (%d bytes)", kind, obj.Key, obj.Size)

	entry := ledger.Entry{
		Kind:        string(kind),
		Number:      documentNumber(payload),
		Key:         obj.Key,
		URL:         obj.URL,
		Fingerprint: fp,
		Size:        obj.Size,
	}
	if err := p.ledger.Record(ctx, entry); err != nil {
		p.logger.Printf("ledger: %v", err)
	}
	if err := p.cache.Set(ctx, fp, cache.Entry{Key: obj.Key, URL: obj.URL}, p.ttl); err != nil {
		p.logger.Printf("cache store %s: %v", fp[:12], err)
	}
	return Result{URL: obj.URL, Key: obj.Key}, nil
}

// renderFile renders into a new temporary file and returns its path. The
// path is returned whenever the file was created, even on error.
func (p *Publisher) renderFile(ctx context.Context, kind documents.Kind, payload []byte) (string, error) {
	f, err := os.CreateTemp(p.tempDir, "garagedocs-*.pdf")
	if err != nil {
		return "", fmt.Errorf("publish: temp file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := p.renderer.Render(ctx, bw, kind, payload); err != nil {
		f.Close()
		return f.Name(), err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return f.Name(), fmt.Errorf("publish: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return f.Name(), fmt.Errorf("publish: write: %w", err)
	}
	return f.Name(), nil
}

// documentNumber extracts the top-level "number" field of a payload.
func documentNumber(payload []byte) string {
	var v struct {
		Number string `json:"number"`
	}
	if json.Unmarshal(payload, &v) != nil {
		return ""
	}
	return v.Number
}
