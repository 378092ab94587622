package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cwgrep/internal/correlate"
	"github.com/ppiankov/cwgrep/internal/cwl"
	"github.com/ppiankov/cwgrep/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		opts       traceOptions
		formatStr  string
		outPath    string
		compress   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered events to JSONL, CSV, or Parquet",
		Long:  "Run the same fetch-and-correlate pipeline as trace and write the result to a file for ingestion into analytics systems (DuckDB, pandas, BigQuery, etc.).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyTraceDefaults(cmd, &opts)
			if opts.group == "" {
				return fmt.Errorf("--group is required")
			}
			return runExport(cmd, opts, formatStr, outPath, compress, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&opts.group, "group", "", "log group name (required)")
	cmd.Flags().StringVar(&opts.pattern, "filter", "", "regex matched against event messages (required)")
	cmd.Flags().StringSliceVar(&opts.streams, "streams", nil, "log stream names")
	cmd.Flags().StringVar(&opts.streamPrefix, "stream-prefix", "", "log stream name prefix")
	cmd.Flags().StringVar(&opts.startStr, "start", "", "start time (RFC3339, HH:MM, or -30m)")
	cmd.Flags().Int64Var(&opts.startTS, "start-ts", 0, "start timestamp, epoch milliseconds UTC")
	cmd.Flags().StringVar(&opts.stopStr, "stop", "", "stop time (RFC3339, HH:MM, or -30m)")
	cmd.Flags().Int64Var(&opts.stopTS, "stop-ts", 0, "stop timestamp, epoch milliseconds UTC")
	cmd.Flags().Int64Var(&opts.limit, "limit", 0, "max fetched event count, 0 = unlimited")
	cmd.Flags().StringVar(&formatStr, "format", "jsonl", "output format: jsonl, csv, parquet")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (required)")
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress JSONL output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output summary as JSON")
	_ = cmd.MarkFlagRequired("filter")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, opts traceOptions, formatStr, outPath string, compress, jsonOutput bool) error {
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if compress && format != export.FormatJSONL {
		return fmt.Errorf("--compress only applies to jsonl output")
	}

	re, err := correlate.Compile(opts.pattern)
	if err != nil {
		return err
	}

	params, err := buildRequestParameters(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := cwl.New(ctx, clientOptions())
	if err != nil {
		return err
	}

	events, err := client.Fetch(ctx, params)
	if err != nil {
		return err
	}
	filtered := correlate.FilterWith(events, re)

	written, err := export.WriteAll(outPath, format, export.Options{Compress: compress}, filtered)
	if err != nil {
		return err
	}

	if jsonOutput {
		summary := struct {
			Fetched int    `json:"fetched"`
			Written int    `json:"written"`
			Format  string `json:"format"`
			Out     string `json:"out"`
		}{len(events), written, string(format), outPath}
		return json.NewEncoder(os.Stdout).Encode(summary)
	}

	fmt.Fprintf(os.Stdout, "wrote %d of %d fetched events to %s (%s)\n", written, len(events), outPath, format)
	return nil
}
