package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/smartgarage/garagedocs/config"
	"github.com/smartgarage/garagedocs/documents"
	"github.com/smartgarage/garagedocs/publish"
)

var quiet = log.New(io.Discard, "", 0)

type fakePublisher struct {
	kind    documents.Kind
	payload []byte
	err     error
}

func (p *fakePublisher) Publish(_ context.Context, kind documents.Kind, payload []byte) (publish.Result, error) {
	p.kind, p.payload = kind, payload
	if p.err != nil {
		return publish.Result{}, p.err
	}
	return publish.Result{URL: "https://cdn.example.com/documents/a.pdf", Key: "documents/a.pdf"}, nil
}

func newTestServer(t *testing.T, cfg config.ServerConfig, opts ...Option) *httptest.Server {
	t.Helper()
	gen := documents.NewGenerator(documents.WithLogger(quiet))
	s := New(cfg, gen, append([]Option{WithLogger(quiet)}, opts...)...)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func parseAPIResponse(t *testing.T, body io.Reader) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return resp
}

func sample(t *testing.T, kind documents.Kind) []byte {
	t.Helper()
	data, err := documents.Sample(kind)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, config.Default().Server)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := parseAPIResponse(t, resp.Body); !got.Success {
		t.Errorf("response = %+v", got)
	}
}

func TestDownloadPDF(t *testing.T) {
	srv := newTestServer(t, config.Default().Server)
	resp, err := http.Get(srv.URL + "/download-pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=invoice.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestRenderDocument(t *testing.T) {
	srv := newTestServer(t, config.Default().Server)
	tests := []struct {
		query, disposition string
	}{
		{"", "inline; filename=estimate.pdf"},
		{"?download=1", "attachment; filename=estimate.pdf"},
	}
	for _, tt := range tests {
		resp, err := http.Post(srv.URL+"/documents/estimate"+tt.query, "application/json", bytes.NewReader(sample(t, documents.KindEstimate)))
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, body)
		}
		if cd := resp.Header.Get("Content-Disposition"); cd != tt.disposition {
			t.Errorf("Content-Disposition = %q, want %q", cd, tt.disposition)
		}
		if !bytes.HasPrefix(body, []byte("%PDF-")) {
			t.Error("body is not a PDF")
		}
	}
}

func TestRenderErrors(t *testing.T) {
	cfg := config.Default().Server
	cfg.MaxBodyBytes = 64
	srv := newTestServer(t, cfg)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown kind", "/documents/receipt", "{}", http.StatusBadRequest, "unknown_kind"},
		{"bad json", "/documents/estimate", "{", http.StatusBadRequest, "invalid_payload"},
		{"empty body", "/documents/job-card", "", http.StatusBadRequest, "invalid_payload"},
		{"too large", "/documents/estimate", `{"number":"` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge, "payload_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			got := parseAPIResponse(t, resp.Body)
			if got.Success || got.Error == nil || got.Error.Code != tt.code {
				t.Errorf("response = %+v, want code %q", got, tt.code)
			}
		})
	}
}

func TestSample(t *testing.T) {
	srv := newTestServer(t, config.Default().Server)
	resp, err := http.Get(srv.URL + "/documents/job-card/sample")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, sample(t, documents.KindJobCard)) {
		t.Error("sample body differs from the bundled sample")
	}
}

func TestPublish(t *testing.T) {
	pub := &fakePublisher{}
	srv := newTestServer(t, config.Default().Server, WithPublisher(pub))
	payload := sample(t, documents.KindInvoice)
	resp, err := http.Post(srv.URL+"/documents/invoice/publish", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Success bool           `json:"success"`
		Data    publish.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := publish.Result{URL: "https://cdn.example.com/documents/a.pdf", Key: "documents/a.pdf"}
	if diff := cmp.Diff(want, got.Data); diff != "" || !got.Success {
		t.Errorf("publish response (-want +got):\n%s", diff)
	}
	if pub.kind != documents.KindInvoice || !bytes.Equal(pub.payload, payload) {
		t.Error("publisher did not receive the payload")
	}

	pub.err = errors.New("bucket gone")
	resp2, err := http.Post(srv.URL+"/documents/invoice/publish", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp2.StatusCode)
	}
}

func TestPublishDisabled(t *testing.T) {
	srv := newTestServer(t, config.Default().Server)
	resp, err := http.Post(srv.URL+"/documents/estimate/publish", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestAuth(t *testing.T) {
	cfg := config.Default().Server
	cfg.JWTSecret = "s3cret"
	srv := newTestServer(t, cfg)
	valid := jwt.RegisteredClaims{Subject: "garage-42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	expired := jwt.RegisteredClaims{Subject: "garage-42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"health is open", "/healthz", "", http.StatusOK},
		{"missing token", "/documents/estimate/sample", "", http.StatusUnauthorized},
		{"valid token", "/documents/estimate/sample", signed(t, jwt.SigningMethodHS256, []byte("s3cret"), valid), http.StatusOK},
		{"wrong secret", "/documents/estimate/sample", signed(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"wrong method", "/documents/estimate/sample", signed(t, jwt.SigningMethodHS512, []byte("s3cret"), valid), http.StatusUnauthorized},
		{"expired", "/documents/estimate/sample", signed(t, jwt.SigningMethodHS256, []byte("s3cret"), expired), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestAuthSetsSubject(t *testing.T) {
	var got string
	h := AuthMiddleware([]byte("k"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Subject(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/documents/estimate/sample", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, jwt.SigningMethodHS256, []byte("k"), jwt.RegisteredClaims{Subject: "garage-7"}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "garage-7" {
		t.Errorf("Subject = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	h := RecoveryMiddleware(log.New(&logs, "", 0))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "PANIC: boom") {
		t.Errorf("log = %q", logs.String())
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var logs bytes.Buffer
	h := LoggingMiddleware(log.New(&logs, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("tea"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/documents/estimate", nil))
	line := logs.String()
	if !strings.HasPrefix(line, "POST /documents/estimate 418 ") || !strings.Contains(line, " 3 bytes") {
		t.Errorf("log = %q", line)
	}
}

func TestWaitStarted(t *testing.T) {
	closed := make(chan error)
	close(closed)
	if err := waitStarted(closed, time.Second); err != nil {
		t.Errorf("closed channel: %v", err)
	}

	failed := make(chan error, 1)
	failed <- errors.New("address already in use")
	err := waitStarted(failed, time.Second)
	if err == nil || !strings.Contains(err.Error(), "address already in use") {
		t.Errorf("bind failure: %v", err)
	}

	if err := waitStarted(make(chan error), 10*time.Millisecond); err != nil {
		t.Errorf("still running: %v", err)
	}
}
