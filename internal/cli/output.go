package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/startpage/internal/app"
	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/dashboard"
)

var (
	newClearer   = app.NewClearer
	closeClearer = app.CloseClearer
)

func clearSince(cfg config.Config) time.Time {
	lookback := cfg.ClearLookback
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return time.Now().Add(-lookback)
}

// writeResult reports a mutation. Unchanged documents are not an error;
// the target simply did not exist.
func writeResult(cmd *cobra.Command, changed bool, err error, notice string) error {
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No change")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), notice)
	return nil
}

func writeTree(w io.Writer, doc dashboard.Document) {
	for i, s := range doc.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := s.Title
		if s.Hidden {
			title += " (hidden)"
		}
		fmt.Fprintf(w, "%s [%s]\n", title, s.ID)
		writeItems(w, s.Items, 1)
	}
}

func writeItems(w io.Writer, items []dashboard.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		switch it.Type {
		case dashboard.TypeFolder:
			fmt.Fprintf(w, "%s%s/ [%s]\n", indent, it.Title, it.ID)
			writeItems(w, it.Items, depth+1)
		case dashboard.TypeAction:
			fmt.Fprintf(w, "%s(%s) [%s]\n", indent, it.Title, it.ID)
		default:
			fmt.Fprintf(w, "%s%s  %s [%s]\n", indent, it.Title, it.URL, it.ID)
		}
	}
}
