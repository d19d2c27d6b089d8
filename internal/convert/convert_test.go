// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/topicsheet/internal/extract"
	"github.com/pdiddy/topicsheet/internal/extract/extracttest"
	"github.com/pdiddy/topicsheet/internal/render"
	"github.com/pdiddy/topicsheet/pkg/types"
)

// fakeExtractor implements TextExtractor for testing. It returns canned text
// or an error, depending on configuration.
type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(data []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// selectiveExtractor returns different results keyed by document content.
type selectiveExtractor struct {
	texts  map[string]string
	errors map[string]error
}

func (s *selectiveExtractor) ExtractText(data []byte) (string, error) {
	if err, ok := s.errors[string(data)]; ok {
		return "", err
	}
	if text, ok := s.texts[string(data)]; ok {
		return text, nil
	}
	return "", errors.New("unexpected document: " + string(data))
}

const sampleText = "Georgette Review\n1. Topic One\nFirst line of desc\nSecond line/\n2. Topic Two\nOnly line of desc\n"

func newTestPipeline(ext TextExtractor) *Pipeline {
	return NewPipeline(ext, zerolog.Nop())
}

// setupPDF writes a placeholder document and returns its path.
func setupPDF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func workbookRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(render.SheetName)
	require.NoError(t, err)
	return rows
}

func TestPipeline_Convert(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{text: sampleText})

	res, err := p.Convert(types.Document{Name: "review.pdf", Data: []byte("pdf")})
	require.NoError(t, err)

	assert.Equal(t, []types.Record{
		{Topic: "Topic One", Description: "First line of desc"},
		{Topic: "Topic Two", Description: "Only line of desc"},
	}, res.Records)
	assert.Equal(t, "review_converted.xlsx", res.Filename)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, [][]string{
		{"Topic", "Description"},
		{"Topic One", "First line of desc"},
		{"Topic Two", "Only line of desc"},
	}, workbookRows(t, res.Workbook))
}

func TestPipeline_ConvertNoMarkers(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{text: "plain prose\nwithout numbering\n"})

	res, err := p.Convert(types.Document{Name: "prose.pdf", Data: []byte("pdf")})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, [][]string{{"Topic", "Description"}}, workbookRows(t, res.Workbook))
}

func TestPipeline_ConvertPDF(t *testing.T) {
	data := extracttest.BuildPDF(
		"Georgette Review\n1. Topic One\nFirst line of desc",
		"Second line/\n2. Topic Two\nOnly line of desc\nStudy online at example.com",
	)
	p := newTestPipeline(extract.NewPDFExtractor())

	res, err := p.Convert(types.Document{Name: "review.pdf", Data: data})
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{Topic: "Topic One", Description: "First line of desc"},
		{Topic: "Topic Two", Description: "Only line of desc"},
	}, res.Records)
	assert.Equal(t, [][]string{
		{"Topic", "Description"},
		{"Topic One", "First line of desc"},
		{"Topic Two", "Only line of desc"},
	}, workbookRows(t, res.Workbook))
}

func TestPipeline_ConvertExtractionFailure(t *testing.T) {
	parseErr := &extract.DocumentParseError{Reason: "not a readable PDF"}
	p := newTestPipeline(&fakeExtractor{err: parseErr})

	res, err := p.Convert(types.Document{Name: "bad.pdf", Data: []byte("junk")})
	require.Error(t, err)
	assert.Nil(t, res, "no partial workbook on extraction failure")
	assert.True(t, extract.IsDocumentParseError(err))
}

func TestPipeline_ConvertIndependentCalls(t *testing.T) {
	ext := &fakeExtractor{text: sampleText}
	p := newTestPipeline(ext)

	a, err := p.Convert(types.Document{Name: "a.pdf"})
	require.NoError(t, err)
	b, err := p.Convert(types.Document{Name: "b.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 2, ext.calls)
	assert.Equal(t, a.Records, b.Records)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"review.pdf", "review_converted.xlsx"},
		{"REVIEW.PDF", "REVIEW_converted.xlsx"},
		{"notes/week 1.pdf", "week 1_converted.xlsx"},
		{`C:\Users\me\deck.pdf`, "deck_converted.xlsx"},
		{"a.pdf.pdf", "a.pdf_converted.xlsx"},
		{"notes", "notes_converted.xlsx"},
		{"scan.pdf.txt", "scan.pdf.txt_converted.xlsx"},
		{".pdf", "document_converted.xlsx"},
		{"", "document_converted.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.in))
		})
	}
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		extractor  *fakeExtractor
		outDir     bool
		wantStatus types.ConversionStatus
		wantLog    string
	}{
		{
			name:       "successful conversion next to input",
			extractor:  &fakeExtractor{text: sampleText},
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
		},
		{
			name:       "successful conversion into output dir",
			extractor:  &fakeExtractor{text: sampleText},
			outDir:     true,
			wantStatus: types.ConversionDone,
			wantLog:    "(2 records)",
		},
		{
			name:       "extraction failure",
			extractor:  &fakeExtractor{err: &extract.DocumentParseError{Reason: "no extractable text layer"}},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := setupPDF(t, dir, "review.pdf", "pdf")

			outDir := ""
			wantPath := filepath.Join(dir, "review_converted.xlsx")
			if tt.outDir {
				outDir = filepath.Join(dir, "out")
				wantPath = filepath.Join(outDir, "review_converted.xlsx")
			}

			var log bytes.Buffer
			status, res := newTestPipeline(tt.extractor).ConvertFile(path, outDir, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)

			_, statErr := os.Stat(wantPath)
			if tt.wantStatus == types.ConversionDone {
				require.NotNil(t, res)
				assert.NoError(t, statErr)
			} else {
				assert.Nil(t, res)
				assert.True(t, os.IsNotExist(statErr), "no workbook on failure")
			}
		})
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	var log bytes.Buffer
	status, res := newTestPipeline(&fakeExtractor{text: sampleText}).
		ConvertFile(filepath.Join(t.TempDir(), "absent.pdf"), "", &log)

	assert.Equal(t, types.ConversionFailed, status)
	assert.Nil(t, res)
	assert.True(t, strings.HasPrefix(log.String(), "failed:"))
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	a := setupPDF(t, dir, "a.pdf", "doc-a")
	b := setupPDF(t, dir, "b.pdf", "doc-b")
	c := setupPDF(t, dir, "c.pdf", "doc-c")

	ext := &selectiveExtractor{
		texts: map[string]string{
			"doc-a": "1. A\nalpha\n",
			"doc-b": "no markers here\n",
		},
		errors: map[string]error{
			"doc-c": &extract.DocumentParseError{Reason: "not a readable PDF"},
		},
	}

	var log bytes.Buffer
	var seen []string
	result := newTestPipeline(ext).ConvertBatch([]string{a, b, c}, "", &log, func(path string, res *Result) {
		seen = append(seen, filepath.Base(path)+":"+res.Filename)
	})

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Equal(t, []string{"a.pdf:a_converted.xlsx", "b.pdf:b_converted.xlsx"}, seen)

	output := log.String()
	assert.Contains(t, output, "Batch summary: 2 converted, 1 failed (total: 3)")
	assert.Less(t, strings.Index(output, "a.pdf"), strings.Index(output, "b.pdf"))

	_, err := os.Stat(filepath.Join(dir, "b_converted.xlsx"))
	assert.NoError(t, err, "header-only workbook is still written")
	_, err = os.Stat(filepath.Join(dir, "c_converted.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertBatch_NilHook(t *testing.T) {
	dir := t.TempDir()
	a := setupPDF(t, dir, "a.pdf", "doc-a")

	var log bytes.Buffer
	result := newTestPipeline(&fakeExtractor{text: sampleText}).ConvertBatch([]string{a}, filepath.Join(dir, "out"), &log, nil)

	assert.Equal(t, 1, result.Converted)
	assert.False(t, result.HasFailures())
	_, err := os.Stat(filepath.Join(dir, "out", "a_converted.xlsx"))
	assert.NoError(t, err)
}
