package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stagehand/match"
)

// printSummary renders the outcome counts the way the editor reads them:
// one row per outcome, problems listed underneath.
func printSummary(summary *match.Summary, kinds []match.Kind) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Outcome", "Rows"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	total := 0
	for _, kind := range kinds {
		count := summary.Count(kind)
		total += count
		tw.AppendRow(table.Row{kind.String(), count})
	}
	tw.AppendFooter(table.Row{"total", total})
	tw.Render()

	if problems := summary.Problems(); len(problems) > 0 {
		fmt.Println("Problems:")
		for _, p := range problems {
			fmt.Printf("  %s\n", p)
		}
	}
}
