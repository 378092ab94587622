package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ppiankov/cwgrep/internal/correlate"
	"github.com/ppiankov/cwgrep/internal/cwl"
	"github.com/ppiankov/cwgrep/internal/render"
)

type traceOptions struct {
	group        string
	pattern      string
	streams      []string
	streamPrefix string
	startStr     string
	startTS      int64
	stopStr      string
	stopTS       int64
	limit        int64
	prefixTS     bool
	prefixISO    bool
	color        bool
}

func newTraceCmd() *cobra.Command {
	var opts traceOptions

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Fetch and filter logs, keeping whole correlated requests",
		Long: "Fetch CloudWatch log events for a time window, match messages against a\n" +
			"regex, and print every event sharing an AWS request ID with a match, in\n" +
			"chronological order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyTraceDefaults(cmd, &opts)
			if opts.prefixTS && opts.prefixISO {
				return fmt.Errorf("--prefix-timestamp and --prefix-iso are mutually exclusive")
			}
			if opts.group == "" {
				return fmt.Errorf("--group is required")
			}
			return runTrace(cmd, opts)
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
	cmd.Flags().BoolVar(&opts.prefixTS, "prefix-timestamp", false, "prefix lines with the raw event timestamp")
	cmd.Flags().BoolVar(&opts.prefixISO, "prefix-iso", false, "prefix lines with an ISO8601 event timestamp")
	cmd.Flags().BoolVar(&opts.color, "color", false, "highlight direct pattern matches")
	_ = cmd.MarkFlagRequired("filter")

	return cmd
}

// applyTraceDefaults fills unset flags from config. Flags > env > config.
func applyTraceDefaults(cmd *cobra.Command, opts *traceOptions) {
	if cfg == nil {
		return
	}
	if opts.group == "" && cfg.Trace.Group != "" {
		opts.group = cfg.Trace.Group
	}
	if !cmd.Flags().Changed("prefix-timestamp") && !cmd.Flags().Changed("prefix-iso") {
		switch cfg.Trace.Prefix {
		case "ts":
			opts.prefixTS = true
		case "iso":
			opts.prefixISO = true
		}
	}
	if !cmd.Flags().Changed("color") {
		opts.color = cfg.Trace.Color
	}
	if !cmd.Flags().Changed("limit") && cfg.Defaults.Limit > 0 {
		opts.limit = cfg.Defaults.Limit
	}
}

func runTrace(cmd *cobra.Command, opts traceOptions) error {
	// validate the pattern before touching the backend
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
	if debugEnabled() {
		fmt.Fprintf(os.Stderr, "trace: fetched %d events\n", len(events))
	}

	filtered := correlate.FilterWith(events, re)
	if debugEnabled() {
		fmt.Fprintf(os.Stderr, "trace: %d events after correlation\n", len(filtered))
	}

	r := &render.Renderer{}
	switch {
	case opts.prefixTS:
		r.Prefix = render.PrefixMillis
	case opts.prefixISO:
		r.Prefix = render.PrefixISO
	}
	if opts.color && isatty.IsTerminal(os.Stdout.Fd()) {
		r.Highlight = re
	}

	for _, ev := range filtered {
		fmt.Fprintln(os.Stdout, r.Line(ev))
	}

	return nil
}

func buildRequestParameters(opts traceOptions) (cwl.RequestParameters, error) {
	if len(opts.streams) > 0 && opts.streamPrefix != "" {
		return cwl.RequestParameters{}, fmt.Errorf("--streams and --stream-prefix are mutually exclusive")
	}

	now := time.Now().UTC()
	start, err := resolveBound(opts.startTS, opts.startStr, now)
	if err != nil {
		return cwl.RequestParameters{}, fmt.Errorf("parse --start: %w", err)
	}
	stop, err := resolveBound(opts.stopTS, opts.stopStr, now)
	if err != nil {
		return cwl.RequestParameters{}, fmt.Errorf("parse --stop: %w", err)
	}

	return cwl.RequestParameters{
		LogGroupName:     opts.group,
		StreamNames:      opts.streams,
		StreamNamePrefix: opts.streamPrefix,
		StartTime:        start,
		EndTime:          stop,
		Limit:            opts.limit,
		Debug:            debugEnabled(),
	}, nil
}
