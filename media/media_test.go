package media_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartgarage/garagedocs/media"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchHTTP(t *testing.T) {
	body := encodePNG(t, testImage(8, 8))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/car.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(body)
		case "/slow.png":
			time.Sleep(200 * time.Millisecond)
			w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := media.NewFetcher(50 * time.Millisecond)
	got, err := f.Fetch(context.Background(), srv.URL+"/car.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("body mismatch")
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/slow.png"); err == nil {
		t.Error("expected timeout error")
	}

	f.MaxBytes = 10
	if _, err := f.Fetch(context.Background(), srv.URL+"/car.png"); !errors.Is(err, media.ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stamp.png"), []byte("stamp"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := media.NewFetcher(0)
	f.BaseDir = dir
	got, err := f.Fetch(context.Background(), "stamp.png")
	if err != nil || string(got) != "stamp" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}
	if _, err := f.Fetch(context.Background(), ""); err == nil {
		t.Error("expected error for empty source")
	}
}

func TestFetchRejectsPathsOutsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.png")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	base := filepath.Join(dir, "images")
	if err := os.Mkdir(base, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		baseDir string
		src     string
	}{
		{"absolute path without base dir", "", secret},
		{"relative path without base dir", "", "secret.png"},
		{"absolute path with base dir", base, secret},
		{"parent traversal", base, "../secret.png"},
		{"nested traversal", base, "a/../../secret.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := media.NewFetcher(0)
			f.BaseDir = tt.baseDir
			got, err := f.Fetch(context.Background(), tt.src)
			if !errors.Is(err, media.ErrLocalSource) {
				t.Errorf("Fetch(%q) = %q, %v; want ErrLocalSource", tt.src, got, err)
			}
		})
	}
}

func TestFetchAllKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	srcs := []string{srv.URL + "/a", srv.URL + "/bad", srv.URL + "/c", srv.URL + "/d"}
	res := media.NewFetcher(time.Second).FetchAll(context.Background(), srcs, 2)
	if len(res) != len(srcs) {
		t.Fatalf("got %d results", len(res))
	}
	for i, r := range res {
		if r.Src != srcs[i] {
			t.Errorf("result %d src = %s", i, r.Src)
		}
	}
	if res[1].Err == nil {
		t.Error("expected failure for /bad")
	}
	if string(res[3].Data) != "/d" || res[3].Err != nil {
		t.Errorf("result 3 = %q, %v", res[3].Data, res[3].Err)
	}
}

func TestNormalize(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, testImage(40, 30), nil); err != nil {
		t.Fatal(err)
	}
	var gf bytes.Buffer
	if err := gif.Encode(&gf, testImage(20, 20), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		data         []byte
		maxDim       int
		typ          string
		w, h         int
		sameAsSource bool
	}{
		{"jpeg passes through", jpg.Bytes(), 0, "JPG", 40, 30, true},
		{"png passes through", encodePNG(t, testImage(16, 16)), 64, "PNG", 16, 16, true},
		{"png scaled down", encodePNG(t, testImage(400, 200)), 100, "PNG", 100, 50, false},
		{"jpeg scaled down", jpg.Bytes(), 20, "JPG", 20, 15, false},
		{"gif re-encoded", gf.Bytes(), 0, "PNG", 20, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := media.Normalize(tt.data, tt.maxDim)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if img.Type != tt.typ || img.Width != tt.w || img.Height != tt.h {
				t.Errorf("got %s %dx%d, want %s %dx%d", img.Type, img.Width, img.Height, tt.typ, tt.w, tt.h)
			}
			if same := bytes.Equal(img.Data, tt.data); same != tt.sameAsSource {
				t.Errorf("passthrough = %v, want %v", same, tt.sameAsSource)
			}
		})
	}

	if _, err := media.Normalize([]byte("not an image"), 0); err == nil {
		t.Error("expected decode error")
	}
}

// withDimensions rewrites the IHDR width and height of a PNG.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	if string(out[12:16]) != "IHDR" {
		t.Fatal("IHDR not found")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestNormalizeRejectsHugeDimensions(t *testing.T) {
	huge := withDimensions(t, encodePNG(t, testImage(4, 4)), 30000, 30000)
	if _, err := media.Normalize(huge, 0); !errors.Is(err, media.ErrTooManyPixels) {
		t.Errorf("Normalize err = %v, want ErrTooManyPixels", err)
	}
	if _, err := media.Pad(huge, 30001); !errors.Is(err, media.ErrTooManyPixels) {
		t.Errorf("Pad err = %v, want ErrTooManyPixels", err)
	}
}

func TestPad(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, testImage(20, 10), nil); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		data []byte
		typ  string
	}{
		{"png", encodePNG(t, testImage(20, 10)), "PNG"},
		{"jpeg", jpg.Bytes(), "JPG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := media.Pad(tt.data, 23)
			if err != nil {
				t.Fatalf("Pad: %v", err)
			}
			if img.Type != tt.typ || img.Width != 23 || img.Height != 10 {
				t.Errorf("got %s %dx%d, want %s 23x10", img.Type, img.Width, img.Height, tt.typ)
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
			if err != nil || cfg.Width != 23 || cfg.Height != 10 {
				t.Errorf("encoded config = %+v, %v", cfg, err)
			}
		})
	}
	if _, err := media.Pad(encodePNG(t, testImage(20, 10)), 10); err == nil {
		t.Error("expected error when narrowing")
	}
}

func TestQRCode(t *testing.T) {
	data, err := media.QRCode(media.UPILink("garage@okaxis", "Smart Garage", "1250.00", ""), 256)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 256 || cfg.Height != 256 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := media.QRCode("", 256); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestUPILink(t *testing.T) {
	got := media.UPILink("garage@okaxis", "Smart Garage", "1250.00", "")
	want := "upi://pay?pa=garage@okaxis&pn=Smart%20Garage&am=1250.00&cu=INR"
	if got != want {
		t.Errorf("UPILink = %q, want %q", got, want)
	}
}

func TestIcon(t *testing.T) {
	for _, shape := range []media.Shape{media.Dot, media.Diamond, media.Pin} {
		data, err := media.Icon(shape, color.NRGBA{R: 224, G: 75, B: 36, A: 255}, 24)
		if err != nil {
			t.Fatalf("Icon(%d): %v", shape, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, _, _, a := img.At(12, 12).RGBA(); a == 0 {
			t.Errorf("shape %d: center pixel is transparent", shape)
		}
		if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
			t.Errorf("shape %d: corner pixel is painted", shape)
		}
	}
	if _, err := media.Icon(media.Dot, color.Black, 2); err == nil {
		t.Error("expected error for tiny icon")
	}
}

func TestUPILinkEscapesSeparators(t *testing.T) {
	got := media.UPILink("garage@okaxis", "Sharma & Sons", "", "a=b")
	want := "upi://pay?pa=garage@okaxis&pn=Sharma%20%26%20Sons&cu=INR&tn=a%3Db"
	if got != want {
		t.Errorf("UPILink = %q, want %q", got, want)
	}
}
