// pebblectl drives an archive session against a running API server
// from the terminal. Its listing output is a debugging surface, not a
// renderer.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pebblevault/client/remote"
	"pebblevault/client/selection"
	"pebblevault/client/session"
	"pebblevault/client/store"
	"pebblevault/client/tree"
)

// App carries the persistent flags and the wired session
type App struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Verbose bool

	store     *store.Store
	tree      *tree.Index
	remote    *remote.Client
	session   *session.Session
	selection *selection.Controller
	logger    *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "pebblectl",
		Short:         "Manage a pebble archive from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.connect(cmd.Context())
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		app.drain()
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "api", envOr("PEBBLEVAULT_API", "http://localhost:8080"), "API server base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("PEBBLEVAULT_TOKEN", ""), "Bearer token")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log remote sync activity")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newVerifyCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newGroupCmd(app))
	cmd.AddCommand(newUngroupCmd(app))
	cmd.AddCommand(newCrumbsCmd(app))

	return cmd
}

// connect wires the client stack and pulls the archive
func (app *App) connect(ctx context.Context) error {
	logger := zap.NewNop()
	if app.Verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	app.logger = logger

	token := app.Token
	app.remote = remote.NewClient(remote.Config{
		BaseURL: app.BaseURL,
		Token:   func() string { return token },
		Timeout: app.Timeout,
		OnUnauthorized: func() {
			fmt.Fprintln(os.Stderr, "authentication rejected; refresh PEBBLEVAULT_TOKEN")
		},
	}, logger)

	app.store = store.New()
	app.tree = tree.NewIndex(app.store)
	app.session = session.New(app.store, app.tree, app.remote, logger)
	app.selection = selection.NewController(app.session)

	if err := app.session.Load(ctx); err != nil {
		return fmt.Errorf("load archive: %w", err)
	}
	return nil
}

// grab selects a batch of pebbles and starts dragging it, the way a
// pointer gesture would
func (app *App) grab(ids []string) {
	app.selection.Clear()
	app.selection.Click(ids[0])
	for _, id := range ids[1:] {
		app.selection.ModifierClick(id)
	}
	app.selection.DragStart(ids[0])
}

// drain waits for in-flight syncs before the process exits
func (app *App) drain() {
	if app.session != nil {
		app.session.Wait()
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
