// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the topicsheet CLI. It converts
// numbered-topic PDFs into formatted XLSX workbooks, either from the command
// line or over HTTP.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/topicsheet/internal/convert"
	"github.com/pdiddy/topicsheet/internal/extract"
	"github.com/pdiddy/topicsheet/internal/logging"
	"github.com/pdiddy/topicsheet/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the topicsheet CLI.
var rootCmd = &cobra.Command{
	Use:   "topicsheet",
	Short: "Convert numbered-topic PDFs into formatted spreadsheets",
	Long: `topicsheet reads the text layer of a PDF, splits it into numbered
topics ("1. Topic") with their descriptions, and writes a two-column XLSX
workbook: bold topics, a thin rule under every row, fixed column widths.

Use convert for files on disk, preview to inspect the extracted records,
and serve to expose the same conversion over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./topicsheet.yaml or ~/.config/topicsheet/topicsheet.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max_upload_mb", 10)
	viper.SetDefault("convert.output_dir", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("topicsheet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "topicsheet"))
		}
	}

	viper.SetEnvPrefix("TOPICSHEET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the startup configuration from flags, file and env.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// newPipeline wires the production extractor into a conversion pipeline.
func newPipeline(cfg types.Config) (*convert.Pipeline, zerolog.Logger) {
	log := logging.New(cfg.Log)
	return convert.NewPipeline(extract.NewPDFExtractor(), log), log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
