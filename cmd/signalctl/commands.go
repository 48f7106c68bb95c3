package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arthur-theuer/signaleditor/internal/parser"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/signal"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		resolve bool
		docxOut string
	)
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the signal report of a route file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			doc, err := e.res.Document(ctx, args[0])
			if err != nil {
				return err
			}

			var rows []report.DisplayRow
			if resolve {
				rows = e.builder.BuildRows(e.res.FlattenFrom(ctx, args[0], doc.Entries))
			} else {
				rows = e.builder.BuildRows(doc.Entries)
			}

			if docxOut != "" {
				f, err := os.Create(docxOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteDOCX(f, doc.Meta.Title(), rows); err != nil {
					return err
				}
				return f.Close()
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "Inline imported segments")
	cmd.Flags().StringVar(&docxOut, "docx", "", "Write the report as a Word document instead")
	return cmd
}

func printRows(w io.Writer, rows []report.DisplayRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KM\tSIGNAL\tMELDUNG\tBEMERKUNG")
	for _, row := range rows {
		msgs := make([]string, 0, len(row.Segments))
		for _, seg := range row.Segments {
			msgs = append(msgs, seg.Message)
		}
		remark := row.Note
		if remark == "" && row.Kind == route.KindSignal {
			remark = row.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", report.FormatKm(row.Km), row.Label(), strings.Join(msgs, " / "), remark)
	}
	return tw.Flush()
}

func newStitchCmd(opts *rootOptions) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "stitch <file>",
		Short: "Connect consecutive imports at their shared node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			name := args[0]
			doc, err := e.res.Document(ctx, name)
			if err != nil {
				return err
			}

			rep := e.res.AutoStitch(ctx, doc.Entries)
			out := cmd.OutOrStdout()
			for _, s := range rep.Stitched {
				fmt.Fprintf(out, "%d -> %d: %s\n", s.A, s.B, s.Node)
			}
			for _, s := range rep.Skipped {
				fmt.Fprintf(out, "%d -> %d: übersprungen (%s)\n", s.A, s.B, s.Reason)
			}
			if !write || len(rep.Stitched) == 0 {
				return nil
			}

			if _, ok := parser.ForFile(name).(*parser.TextParser); !ok {
				return fmt.Errorf("%s: only plain route files can be rewritten", name)
			}
			var buf bytes.Buffer
			if err := parser.Encode(&buf, doc); err != nil {
				return err
			}
			if err := e.store.Save(ctx, name, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s gespeichert\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Save the stitched file")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <name>...",
		Short: "Show the category of signal names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKATEGORIE\tVORSIGNAL\tFARBE")
			for _, name := range args {
				secondary, category := signal.Classify(name)
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", name, category, secondary, signal.ColorFor(category))
			}
			return tw.Flush()
		},
	}
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var trackDistance bool
	cmd := &cobra.Command{
		Use:   "predict <file> <row>",
		Short: "Show the autofill for a new row inserted after <row>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("row must be a number: %w", err)
			}
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			doc, err := e.res.Document(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(doc.Entries) {
				return fmt.Errorf("row %d out of range (0..%d)", idx, len(doc.Entries)-1)
			}

			row := &route.Signal{}
			signal.AutofillRow(row, idx, doc.Entries, trackDistance)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "signal_1:  %s\n", row.Primary)
			fmt.Fprintf(out, "signal_1b: %s\n", row.PrimaryAlt)
			fmt.Fprintf(out, "signal_2:  %s\n", row.Secondary)
			fmt.Fprintf(out, "bahnhof:   %s\n", row.Station)
			fmt.Fprintf(out, "km:        %s\n", report.FormatKm(row.Km))
			return nil
		},
	}
	cmd.Flags().BoolVar(&trackDistance, "km", false, "Advance km by 0.1 from the source row")
	return cmd
}
