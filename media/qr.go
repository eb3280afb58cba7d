package media

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// QRCode encodes content as a size × size pixel PNG.
func QRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("media: empty QR content")
	}
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("media: encode QR: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("media: scale QR: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(code)); err != nil {
		return nil, fmt.Errorf("media: encode QR png: %w", err)
	}
	return buf.Bytes(), nil
}

// queryEscaper escapes the separators PathEscape leaves alone.
var queryEscaper = strings.NewReplacer("&", "%26", "=", "%3D", "+", "%2B")

// UPILink builds a UPI deep link ("upi://pay?...") for the payee's virtual
// payment address. amount is a decimal string such as "1250.00"; an empty
// amount lets the payer enter it.
func UPILink(vpa, payee, amount, note string) string {
	params := []struct{ k, v string }{
		{"pa", vpa},
		{"pn", payee},
		{"am", amount},
		{"cu", "INR"},
		{"tn", note},
	}
	var parts []string
	for _, p := range params {
		if p.v == "" {
			continue
		}
		parts = append(parts, p.k+"="+queryEscaper.Replace(url.PathEscape(p.v)))
	}
	return "upi://pay?" + strings.Join(parts, "&")
}
