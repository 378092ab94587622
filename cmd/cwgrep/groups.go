package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cwgrep/internal/cwl"
	"github.com/ppiankov/cwgrep/internal/render"
)

func newGroupsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List log groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := cwl.New(ctx, clientOptions())
			if err != nil {
				return err
			}

			groups, err := client.ListGroups(ctx, prefix)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCREATED\tSTORED BYTES\tRETENTION")
			for _, g := range groups {
				retention := "never"
				if g.RetentionDays > 0 {
					retention = fmt.Sprintf("%dd", g.RetentionDays)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					g.Name, render.ISOTimestamp(g.CreationTime), g.StoredBytes, retention)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "log group name prefix")

	return cmd
}

func newStreamsCmd() *cobra.Command {
	var (
		group  string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "streams",
		Short: "List log streams in a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if group == "" && cfg != nil {
				group = cfg.Trace.Group
			}
			if group == "" {
				return fmt.Errorf("--group is required")
			}

			ctx := cmd.Context()
			client, err := cwl.New(ctx, clientOptions())
			if err != nil {
				return err
			}

			streams, err := client.ListStreams(ctx, group, prefix)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIRST EVENT\tLAST EVENT")
			for _, s := range streams {
				first, last := "-", "-"
				if s.FirstEventTime > 0 {
					first = render.ISOTimestamp(s.FirstEventTime)
				}
				if s.LastEventTime > 0 {
					last = render.ISOTimestamp(s.LastEventTime)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, first, last)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "log group name (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "log stream name prefix")

	return cmd
}
