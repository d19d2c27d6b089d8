package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/topicsheet/internal/extract"
	"github.com/pdiddy/topicsheet/pkg/types"
)

// retryHint is printed after any conversion failure.
const retryHint = "Please make sure the PDF file is in the correct format and try again."

var previewCmd = &cobra.Command{
	Use:   "preview [pdf]",
	Short: "Show the topics and descriptions extracted from a PDF",
	Long: `Preview runs extraction and segmentation on one PDF and prints the
resulting records without writing a workbook. Use --format json or yaml for
machine-readable output.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pipeline, _ := newPipeline(cfg)

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res, err := pipeline.Convert(types.Document{Name: filepath.Base(path), Data: data})
	if err != nil {
		if extract.IsDocumentParseError(err) {
			return fmt.Errorf("%w\n%s", err, retryHint)
		}
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return formatPreviewOutput(cmd.OutOrStdout(), res.Records, format)
}

func formatPreviewOutput(w io.Writer, records []types.Record, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		printPreviewTable(w, records)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use table, json, or yaml", format)
	}
}

// printPreviewTable prints records as a fixed-width two-column table,
// truncating long topics and descriptions.
func printPreviewTable(w io.Writer, records []types.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No numbered topics found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %s\n", "#", "Topic", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-30s  %s\n", i+1, truncate(r.Topic, 30), truncate(r.Description, 50))
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	previewCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(previewCmd)
}
