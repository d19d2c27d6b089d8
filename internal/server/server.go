// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion pipeline over HTTP: a PDF is uploaded
// as multipart form data and either previewed as JSON records or returned as
// a workbook download.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pdiddy/topicsheet/internal/convert"
	"github.com/pdiddy/topicsheet/internal/extract"
	"github.com/pdiddy/topicsheet/pkg/types"
)

const (
	formField = "file"

	// RetryHint accompanies every document parse failure.
	RetryHint = "Please make sure the PDF file is in the correct format and try again."
)

// Converter is the part of convert.Pipeline the handlers depend on.
type Converter interface {
	Convert(doc types.Document) (*convert.Result, error)
}

// Server holds the handlers' dependencies. Each request works on its own
// upload and result; nothing is shared between requests.
type Server struct {
	conv     Converter
	log      zerolog.Logger
	maxBytes int64
}

// New creates a Server from the startup configuration.
func New(conv Converter, cfg types.ServerConfig, log zerolog.Logger) *Server {
	return &Server{
		conv:     conv,
		log:      log,
		maxBytes: cfg.MaxUploadBytes(),
	}
}

// Router returns the HTTP routes wrapped in request-id, logging and panic
// recovery middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Post("/preview", s.handlePreview)
	})
	return r
}

// requestLogger logs one line per request through zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type previewRecord struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

type previewResponse struct {
	Filename       string          `json:"filename"`
	OutputFilename string          `json:"output_filename"`
	Records        []previewRecord `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	_, res, ok := s.convertUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", convert.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Workbook)))
	w.Header().Set("X-Record-Count", strconv.Itoa(len(res.Records)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Workbook); err != nil {
		s.log.Warn().Err(err).Str("conversion_id", res.ID).Msg("writing workbook response")
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name, res, ok := s.convertUpload(w, r)
	if !ok {
		return
	}

	records := make([]previewRecord, len(res.Records))
	for i, rec := range res.Records {
		records[i] = previewRecord{Topic: rec.Topic, Description: rec.Description}
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Filename:       name,
		OutputFilename: res.Filename,
		Records:        records,
	})
}

// convertUpload reads the uploaded file, runs the conversion and writes
// an error response on failure. The boolean reports whether res is usable.
func (s *Server) convertUpload(w http.ResponseWriter, r *http.Request) (string, *convert.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		maxMB := s.maxBytes / (1024 * 1024)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("file too large (max %dMB) or invalid form", maxMB),
		})
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file is required"})
		return "", nil, false
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "only PDF files are allowed"})
		return "", nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.log.Error().Err(err).Msg("reading upload")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return "", nil, false
	}

	res, err := s.conv.Convert(types.Document{Name: header.Filename, Data: data})
	if err != nil {
		var pe *extract.DocumentParseError
		if errors.As(err, &pe) {
			s.log.Warn().Err(err).Str("document", header.Filename).Msg("unreadable document")
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: pe.Reason, Hint: RetryHint})
			return "", nil, false
		}
		s.log.Error().Err(err).Str("document", header.Filename).Msg("conversion failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "conversion failed"})
		return "", nil, false
	}
	return header.Filename, res, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
