// Package cli implements the startpage command line tool. It edits the
// same stored document the server uses.
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/startpage/internal/app"
	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/kvstore"
	"github.com/dgallion1/startpage/internal/treestore"
)

type App struct {
	Config config.Config

	log   *slog.Logger
	store *treestore.Store
	kv    kvstore.Store
}

func NewRootCmd() *cobra.Command {
	a := &App{Config: config.Load()}

	cmd := &cobra.Command{
		Use:           "startpage",
		Short:         "Manage the start page dashboard from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Print the dashboard
  startpage show

  # Save a page to Favorites, fetching its title
  startpage add https://go.dev

  # Group two items into a new folder
  startpage merge google youtube

  # Import browser bookmarks into the Social section
  startpage import bookmarks.html --section social
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		if cmd.Flags().Changed("data-dir") && !cmd.Flags().Changed("sqlite-path") {
			a.Config.SQLitePath = filepath.Join(a.Config.DataDir, "startpage.db")
		}
		if err := a.Config.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		store, kv, err := app.OpenTreeStore(cmd.Context(), a.Config, a.log)
		if err != nil {
			return err
		}
		a.store, a.kv = store, kv
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if a.kv == nil {
			return nil
		}
		return a.kv.Close()
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.Config.StoreBackend, "backend", a.Config.StoreBackend, "Store backend (memory|file|sqlite|pathstore)")
	f.StringVar(&a.Config.DataDir, "data-dir", a.Config.DataDir, "Directory for the file backend")
	f.StringVar(&a.Config.SQLitePath, "sqlite-path", a.Config.SQLitePath, "Database path for the sqlite backend")
	f.StringVar(&a.Config.StorageKey, "key", a.Config.StorageKey, "Key the dashboard document is stored under")
	f.StringVar(&a.Config.PathstoreURL, "pathstore-url", a.Config.PathstoreURL, "Pathstore service url")

	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newToggleCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newRenameCmd(a))
	cmd.AddCommand(newMoveCmd(a))
	cmd.AddCommand(newReorderCmd(a))
	cmd.AddCommand(newMergeCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newClearDataCmd(a))
	cmd.AddCommand(newResetCmd(a))

	return cmd
}
