package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/topicsheet/internal/convert"
	"github.com/pdiddy/topicsheet/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert PDF files to formatted XLSX workbooks",
	Long: `Convert reads each PDF, extracts its numbered topics and descriptions,
and writes <name>_converted.xlsx next to the input (or into --output-dir).
Files are processed one after another; a failure on one file does not stop
the others, but the command exits non-zero if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pipeline, _ := newPipeline(cfg)

	showPreview, _ := cmd.Flags().GetBool("preview")
	writeRecords, _ := cmd.Flags().GetBool("records")
	out := cmd.OutOrStdout()

	result := pipeline.ConvertBatch(args, cfg.Convert.OutputDir, out, func(path string, res *convert.Result) {
		if showPreview {
			printPreviewTable(out, res.Records)
		}
		if writeRecords {
			if err := writeRecordsSidecar(path, cfg.Convert.OutputDir, res.Records); err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
		}
	})

	if result.HasFailures() {
		fmt.Fprintln(out, retryHint)
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// writeRecordsSidecar writes the records as YAML beside the workbook.
func writeRecordsSidecar(pdfPath, outDir string, records []types.Record) error {
	if outDir == "" {
		outDir = filepath.Dir(pdfPath)
	}
	name := strings.TrimSuffix(convert.OutputFilename(filepath.Base(pdfPath)), ".xlsx") + ".yaml"

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("output-dir", "", "directory for generated workbooks (default: next to each input)")
	convertCmd.Flags().Bool("preview", false, "print the extracted records after each conversion")
	convertCmd.Flags().Bool("records", false, "also write the records as a YAML sidecar file")

	_ = viper.BindPFlag("convert.output_dir", convertCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(convertCmd)
}
