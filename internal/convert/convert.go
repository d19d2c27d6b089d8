// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert composes text extraction, record segmentation and
// spreadsheet rendering into one conversion per document, and handles the
// file-based and batch forms used by the CLI.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/topicsheet/internal/render"
	"github.com/pdiddy/topicsheet/internal/segment"
	"github.com/pdiddy/topicsheet/pkg/types"
)

const (
	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sourceExt    = ".pdf"
	outputSuffix = "_converted.xlsx"
	fallbackBase = "document"
)

// TextExtractor turns document bytes into plain text. extract.PDFExtractor
// is the production implementation.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Result is the outcome of one successful conversion.
type Result struct {
	// ID tags the conversion in log output.
	ID string

	Records  []types.Record
	Workbook []byte

	// Filename is the download name derived from the document name.
	Filename string
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline runs conversions. It holds no per-conversion state, so one
// Pipeline may serve concurrent callers.
type Pipeline struct {
	extractor TextExtractor
	log       zerolog.Logger
}

// NewPipeline creates a pipeline around the given extractor.
func NewPipeline(ext TextExtractor, log zerolog.Logger) *Pipeline {
	return &Pipeline{extractor: ext, log: log}
}

// Convert runs bytes → text → records → workbook for one document. An
// extraction error is returned unchanged and no workbook is produced.
func (p *Pipeline) Convert(doc types.Document) (*Result, error) {
	id := uuid.NewString()
	log := p.log.With().Str("conversion_id", id).Str("document", doc.Name).Logger()

	text, err := p.extractor.ExtractText(doc.Data)
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return nil, err
	}
	log.Debug().Int("bytes", len(doc.Data)).Int("chars", len(text)).Msg("text extracted")

	records := segment.Segment(text)
	log.Debug().Int("records", len(records)).Msg("records segmented")

	wb, err := render.Render(records)
	if err != nil {
		log.Error().Err(err).Msg("rendering failed")
		return nil, fmt.Errorf("rendering workbook: %w", err)
	}
	log.Debug().Int("workbook_bytes", len(wb)).Msg("workbook rendered")

	return &Result{
		ID:       id,
		Records:  records,
		Workbook: wb,
		Filename: OutputFilename(doc.Name),
	}, nil
}

// OutputFilename derives the workbook name from the uploaded name: the
// directory is dropped and a trailing ".pdf" (any case) becomes
// "_converted.xlsx". Names without that extension get the suffix appended.
func OutputFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	if strings.HasSuffix(strings.ToLower(base), sourceExt) {
		base = base[:len(base)-len(sourceExt)]
	}
	if base == "" {
		base = fallbackBase
	}
	return base + outputSuffix
}

// ConvertFile converts the document at path and writes the workbook to outDir,
// or next to the input when outDir is empty. Status lines go to w.
func (p *Pipeline) ConvertFile(path, outDir string, w io.Writer) (types.ConversionStatus, *Result) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed, nil
	}

	res, err := p.Convert(types.Document{Name: name, Data: data})
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed, nil
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed, nil
	}

	outPath := filepath.Join(outDir, res.Filename)
	if err := os.WriteFile(outPath, res.Workbook, 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed, nil
	}

	fmt.Fprintf(w, "converted: %s -> %s (%d records)\n", name, outPath, len(res.Records))
	return types.ConversionDone, res
}

// ConvertBatch converts each path in order, printing per-file status to w
// followed by a summary line. When after is non-nil it is called with every
// successful result before the next file starts.
func (p *Pipeline) ConvertBatch(paths []string, outDir string, w io.Writer, after func(path string, res *Result)) BatchResult {
	var result BatchResult
	for _, path := range paths {
		status, res := p.ConvertFile(path, outDir, w)
		switch status {
		case types.ConversionDone:
			result.Converted++
			if after != nil {
				after(path, res)
			}
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
