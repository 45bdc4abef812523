package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/gesture"
	"github.com/dgallion1/startpage/internal/importer"
	"github.com/dgallion1/startpage/internal/pipeline"
)

func newShowCmd(a *App) *cobra.Command {
	var format string
	var visible bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.store.Document(cmd.Context())
			if err != nil {
				return err
			}
			if visible {
				doc = dashboard.Document{Sections: doc.VisibleSections()}
			}
			switch strings.ToLower(format) {
			case "text", "":
				writeTree(cmd.OutOrStdout(), doc)
				return nil
			default:
				return importer.Export(cmd.OutOrStdout(), doc, format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVar(&visible, "visible", false, "Only show visible sections")
	return cmd
}

func newToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <section-id>",
		Short: "Show or hide a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, changed, err := a.store.ToggleSectionVisibility(cmd.Context(), args[0])
			return writeResult(cmd, changed, err, "Section toggled")
		},
	}
}

func newAddCmd(a *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a page to Favorites",
		Long:  "Save a page to Favorites. Without --title the page's own title is fetched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dashboard.ValidateURL(args[0]); err != nil {
				return err
			}
			_, changed, err := a.store.AddCurrentPage(cmd.Context(), args[0], title)
			return writeResult(cmd, changed, err, "Added to Favorites")
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title for the new link")
	return cmd
}

func newDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, changed, err := a.store.DeleteItem(cmd.Context(), args[0])
			return writeResult(cmd, changed, err, "Item deleted")
		},
	}
}

func newRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item-id> <title>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[1])
			if title == "" {
				return fmt.Errorf("title is required")
			}
			_, changed, err := a.store.RenameItem(cmd.Context(), args[0], title)
			return writeResult(cmd, changed, err, "Item renamed")
		},
	}
}

func newMoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <folder-id|favorites>",
		Short: "Move an item into a folder or back to Favorites",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, changed, err := a.store.MoveItem(cmd.Context(), args[0], args[1])
			notice := gesture.NoticeMovedToFavorites
			if loc, ok := doc.Find(args[0]); ok && loc.Depth > 0 {
				notice = gesture.NoticeMovedToFolder
			}
			return writeResult(cmd, changed, err, notice)
		},
	}
}

func newReorderCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <item-id> <target-id>",
		Short: "Move an item to the position of another item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, changed, err := a.store.ReorderItem(cmd.Context(), args[0], args[1])
			return writeResult(cmd, changed, err, "Item reordered")
		},
	}
}

func newMergeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <item-id> <target-id>",
		Short: "Group two items into a new folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, changed, err := a.store.CreateFolderWithItems(cmd.Context(), args[0], args[1])
			return writeResult(cmd, changed, err, gesture.NoticeFolderCreated)
		},
	}
}

func newImportCmd(a *App) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import bookmarks from a Markdown, HTML, YAML, JSON, CSV or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := importer.ParseFile(f, args[0])
			if err != nil {
				return err
			}
			doc, err := a.store.Document(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := doc.Section(section); !ok {
				return fmt.Errorf("unknown section %q", section)
			}
			_, n, err := a.store.ImportItems(cmd.Context(), section, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", dashboard.FavoritesID, "Section to import into")
	return cmd
}

func newExportCmd(a *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.store.Document(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return importer.Export(cmd.OutOrStdout(), doc, format)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := importer.Export(f, doc, format); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&format, "format", importer.FormatJSON, "Output format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newClearDataCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-data",
		Short: "Ask the host to clear the last day of browsing data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clearer := newClearer(a.Config)
			defer closeClearer(clearer)

			notices := pipeline.NewNotices(a.Config.NoticeTTL)
			job := pipeline.NewJob(clearSince(a.Config))
			pipeline.NewWorker(clearer, notices, a.log, nil).Process(cmd.Context(), job)

			snap := job.Snapshot()
			if n, ok := notices.Current(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), n.Message)
			}
			if snap.Status != pipeline.StatusCompleted {
				return fmt.Errorf("clear-data %s after %d attempts: %s", snap.Status, snap.Attempts, strings.Join(snap.Errors, "; "))
			}
			return nil
		},
	}
}

func newResetCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the stored dashboard and return to the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards every change; pass --yes to confirm")
			}
			if err := a.store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dashboard reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
