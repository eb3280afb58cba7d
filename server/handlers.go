package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	garagedocs "github.com/smartgarage/garagedocs"
	"github.com/smartgarage/garagedocs/documents"
	"github.com/smartgarage/garagedocs/publish"
)

// Renderer writes the PDF for a payload of kind.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, kind documents.Kind, payload []byte) error
}

// Publisher uploads a rendered payload and returns its public URL.
type Publisher interface {
	Publish(ctx context.Context, kind documents.Kind, payload []byte) (publish.Result, error)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /download-pdf", s.handleDownload)
	mux.HandleFunc("POST /documents/{kind}", s.handleRender)
	mux.HandleFunc("POST /documents/{kind}/publish", s.handlePublish)
	mux.HandleFunc("GET /documents/{kind}/sample", s.handleSample)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDownload serves the sample tax invoice as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	payload, err := documents.Sample(documents.KindTaxInvoice)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.renderPDF(w, r, documents.KindTaxInvoice, payload, "attachment", "invoice.pdf")
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}
	payload, ok := s.readBody(w, r)
	if !ok {
		return
	}
	disposition := "inline"
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		disposition = "attachment"
	}
	s.renderPDF(w, r, kind, payload, disposition, kind.Filename())
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}
	if s.publisher == nil {
		WriteError(w, http.StatusServiceUnavailable, "publish_disabled", "object storage is not configured")
		return
	}
	payload, ok := s.readBody(w, r)
	if !ok {
		return
	}
	res, err := s.publisher.Publish(r.Context(), kind, payload)
	if err != nil {
		s.fail(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}
	data, err := documents.Sample(kind)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) kind(w http.ResponseWriter, r *http.Request) (documents.Kind, bool) {
	kind, err := documents.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.fail(w, err)
		return "", false
	}
	return kind, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("payload exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}
	return data, true
}

// renderPDF renders into memory first so that a failed render still gets a
// JSON error response.
func (s *Server) renderPDF(w http.ResponseWriter, r *http.Request, kind documents.Kind, payload []byte, disposition, filename string) {
	var buf bytes.Buffer
	if err := s.renderer.Render(r.Context(), &buf, kind, payload); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// fail maps err to a status: client errors for bad payloads and unknown
// kinds, 500 for everything else.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, documents.ErrUnknownKind):
		WriteError(w, http.StatusBadRequest, "unknown_kind", err.Error())
	case errors.Is(err, garagedocs.ErrInvalidParam):
		WriteError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	default:
		s.logger.Printf("request failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "document generation failed")
	}
}
