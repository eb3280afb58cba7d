// Package media loads the images embedded in documents: logos, stamps and
// vehicle photos fetched over HTTP or read from a configured directory,
// normalized into a
// form the PDF writer accepts, plus generated UPI payment QR codes.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Defaults for Fetcher.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 8 << 20
	DefaultParallel = 4
)

// ErrTooLarge is returned when a source exceeds the fetcher's size cap.
var ErrTooLarge = errors.New("media: image exceeds size limit")

// ErrLocalSource is returned for a local path the fetcher may not read:
// any path when BaseDir is unset, or one that is absolute or leaves BaseDir.
var ErrLocalSource = errors.New("media: local image source not allowed")

// Fetcher reads image bytes from http(s) URLs or local paths.
type Fetcher struct {
	Client   *http.Client
	Timeout  time.Duration // per fetch
	MaxBytes int64
	BaseDir  string // local paths are read relative to it; empty allows http(s) only
}

// NewFetcher returns a Fetcher with the given per-fetch timeout. A zero
// timeout selects DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		Client:   &http.Client{},
		Timeout:  timeout,
		MaxBytes: DefaultMaxBytes,
	}
}

// Fetch returns the bytes behind src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("media: empty source")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return f.fetchURL(ctx, src)
	}
	return f.readFile(src)
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("media: fetch %s: %w", url, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media: fetch %s: status %d", url, resp.StatusCode)
	}
	return f.readLimited(resp.Body, url)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	if f.BaseDir == "" || !filepath.IsLocal(path) {
		return nil, fmt.Errorf("%w: %s", ErrLocalSource, path)
	}
	path = filepath.Join(f.BaseDir, filepath.Clean(path))
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	defer file.Close()
	return f.readLimited(file, path)
}

func (f *Fetcher) readLimited(r io.Reader, name string) ([]byte, error) {
	max := f.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", name, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}
	return data, nil
}

// Result is the outcome of fetching one source.
type Result struct {
	Src  string
	Data []byte
	Err  error
}

// FetchAll fetches every source with at most parallel requests in flight.
// Results are returned in the order of srcs; a failed source does not stop
// the others.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []string, parallel int) []Result {
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	out := make([]Result, len(srcs))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out[i] = Result{Src: src, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			data, err := f.Fetch(ctx, src)
			out[i] = Result{Src: src, Data: data, Err: err}
		}(i, src)
	}
	wg.Wait()
	return out
}
