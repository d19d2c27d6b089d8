//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// samplesDir holds PDFs used for manual end-to-end checks.
const samplesDir = "testdata/samples"

// Convert builds the CLI and converts every PDF in testdata/samples into
// testdata/samples/out, printing the extracted records.
func Convert() error {
	mg.Deps(Build)

	pdfs, err := filepath.Glob(filepath.Join(samplesDir, "*.pdf"))
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Printf("[convert] no PDFs in %s\n", samplesDir)
		return nil
	}

	args := append([]string{"convert", "--preview", "--output-dir", filepath.Join(samplesDir, "out")}, pdfs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Serve builds the CLI and runs the HTTP server on :8080 with debug logging.
func Serve() error {
	mg.Deps(Build)
	return sh.RunWith(map[string]string{"TOPICSHEET_LOG_LEVEL": "debug"},
		filepath.Join(binDir, binName), "serve")
}

// Clean removes build output and sample conversions.
func Clean() error {
	for _, dir := range []string{binDir, filepath.Join(samplesDir, "out")} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}
