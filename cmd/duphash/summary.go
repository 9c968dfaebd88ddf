package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// printSummary writes one colored line per input to w.
func printSummary(w io.Writer, outcomes []outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	for _, o := range outcomes {
		s := o.result.Stats
		icon := green("✓")
		if s.Pairs == 0 {
			// Nothing shared between identities; usually an unsorted or single-solver log.
			icon = yellow("⚠")
		}
		fmt.Fprintf(w, "%s %s: %d records, %d hashes, %d identities, %d pairs (%s)\n",
			icon, bold(displayName(o.input)),
			s.Records, s.Groups, s.Identities, s.Pairs,
			o.elapsed.Round(time.Millisecond))
		if s.RedundantRows > 0 {
			fmt.Fprintf(w, "  %s repeated (hash, identity) rows ignored\n", yellow(s.RedundantRows))
		}
	}
}
