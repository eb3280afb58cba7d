package documents

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"

	garagedocs "github.com/smartgarage/garagedocs"
)

// Kind names a document type accepted by Render.
type Kind string

const (
	KindTaxInvoice Kind = "tax-invoice"
	KindEstimate   Kind = "estimate"
	KindJobCard    Kind = "job-card"
	KindInvoice    Kind = "invoice"
)

// ErrUnknownKind is returned for a document kind Render does not know.
var ErrUnknownKind = fmt.Errorf("%w: unknown document kind", garagedocs.ErrUnsupported)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindTaxInvoice, KindEstimate, KindJobCard, KindInvoice}
}

// ParseKind validates s as a document kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("documents: %q: %w", s, ErrUnknownKind)
}

// Filename returns the download name used for documents of kind k.
func (k Kind) Filename() string {
	return string(k) + ".pdf"
}

// Render decodes a JSON payload of the given kind and writes the PDF to w.
// Malformed payloads are reported as garagedocs.ErrInvalidParam.
func (g *Generator) Render(ctx context.Context, w io.Writer, kind Kind, payload []byte) error {
	switch kind {
	case KindTaxInvoice:
		var v TaxInvoice
		if err := decode(kind, payload, &v); err != nil {
			return err
		}
		return g.TaxInvoice(ctx, w, &v)
	case KindEstimate:
		var v Estimate
		if err := decode(kind, payload, &v); err != nil {
			return err
		}
		return g.Estimate(ctx, w, &v)
	case KindJobCard:
		var v JobCard
		if err := decode(kind, payload, &v); err != nil {
			return err
		}
		return g.JobCard(ctx, w, &v)
	case KindInvoice:
		var v Invoice
		if err := decode(kind, payload, &v); err != nil {
			return err
		}
		return g.Invoice(ctx, w, &v)
	default:
		return fmt.Errorf("documents: %q: %w", kind, ErrUnknownKind)
	}
}

func decode(kind Kind, payload []byte, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("documents: %s: empty payload: %w", kind, garagedocs.ErrInvalidParam)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("documents: %s: %w: %v", kind, garagedocs.ErrInvalidParam, err)
	}
	return nil
}

//go:embed samples/*.json
var samples embed.FS

// Sample returns the bundled example payload for kind.
func Sample(kind Kind) ([]byte, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return samples.ReadFile("samples/" + string(kind) + ".json")
}
