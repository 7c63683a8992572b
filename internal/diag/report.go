package diag

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Report writes every error then every warning in d to w, column-aligned
// with text/tabwriter the same way vslc's util/args.go formats its CLI
// help and flag listing: tab-separated fields flushed through a single
// tabwriter.Writer so columns line up regardless of message length.
func Report(w io.Writer, sink *Sink) {
	diags := make([]*Diagnostic, 0, len(sink.Errors())+len(sink.Warnings()))
	diags = append(diags, sink.Errors()...)
	diags = append(diags, sink.Warnings()...)
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Loc.StartLine != diags[j].Loc.StartLine {
			return diags[i].Loc.StartLine < diags[j].Loc.StartLine
		}
		return diags[i].Loc.StartCol < diags[j].Loc.StartCol
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range diags {
		severity := "error"
		if d.Kind.IsWarning() {
			severity = "warning"
		}
		fmt.Fprintf(tw, "%s\t%s:%d:%d\t%s\t%s\n", severity, d.File, d.Loc.StartLine, d.Loc.StartCol, d.Kind, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(tw, "  note\t%s:%d\t\t%s\n", d.File, n.Loc.StartLine, n.Message)
		}
	}
	tw.Flush()

	fmt.Fprintf(tw, "%d error(s), %d warning(s)\n", len(sink.Errors()), len(sink.Warnings()))
	tw.Flush()
}
