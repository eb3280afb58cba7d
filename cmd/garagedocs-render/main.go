// Command garagedocs-render renders a JSON payload file to a PDF.
//
// # Usage
//
//	garagedocs-render -kind estimate -in estimate.json -out estimate.pdf
//	garagedocs-render -kind job-card -sample -out job-card.pdf
//
// Kinds: tax-invoice, estimate, job-card, invoice.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartgarage/garagedocs/config"
	"github.com/smartgarage/garagedocs/documents"
)

func main() {
	var (
		kindName   = flag.String("kind", "", "document kind")
		in         = flag.String("in", "", "JSON payload file (- for stdin)")
		out        = flag.String("out", "", "output PDF file (default <kind>.pdf)")
		useSample  = flag.Bool("sample", false, "render the bundled sample of kind")
		configPath = flag.String("config", "", "optional YAML configuration for render settings")
	)
	flag.Parse()

	if err := run(*kindName, *in, *out, *useSample, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "garagedocs-render: %v\n", err)
		os.Exit(1)
	}
}

func run(kindName, in, out string, useSample bool, configPath string) error {
	kind, err := documents.ParseKind(kindName)
	if err != nil {
		return fmt.Errorf("%w (want one of %s)", err, kindList())
	}

	var payload []byte
	switch {
	case useSample:
		payload, err = documents.Sample(kind)
	case in == "-":
		payload, err = io.ReadAll(os.Stdin)
	case in != "":
		payload, err = os.ReadFile(in)
	default:
		return fmt.Errorf("either -in or -sample is required")
	}
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	// Local logos and stamps resolve next to the payload unless an image
	// directory is configured.
	fetcher := cfg.Render.Fetcher()
	if fetcher.BaseDir == "" {
		fetcher.BaseDir = "."
		if in != "" && in != "-" {
			fetcher.BaseDir = filepath.Dir(in)
		}
	}
	gen := documents.NewGenerator(
		documents.WithDocumentOptions(cfg.Render.DocumentOptions()...),
		documents.WithFetcher(fetcher),
	)

	if out == "" {
		out = kind.Filename()
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := gen.Render(context.Background(), f, kind, payload); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func kindList() string {
	var names []string
	for _, k := range documents.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
