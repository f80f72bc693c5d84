package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
)

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func printMemberPageTable(out io.Writer, page *query.Page[models.MemberTeam]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tAGE\tTEAM")
	for _, m := range page.Content {
		team := "-"
		if m.TeamName != nil {
			team = *m.TeamName
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", m.MemberID, m.Username, m.Age, team)
	}
	w.Flush()

	switch {
	case page.TotalElements == nil:
		fmt.Fprintf(out, "\npage %d, %d rows, more: %t\n", page.Index, len(page.Content), page.HasNext())
	case page.Counted:
		fmt.Fprintf(out, "\npage %d of %d, %d total (counted)\n", page.Index+1, page.TotalPages(), *page.TotalElements)
	default:
		fmt.Fprintf(out, "\npage %d of %d, %d total (count skipped)\n", page.Index+1, page.TotalPages(), *page.TotalElements)
	}
}
