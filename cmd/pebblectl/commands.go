package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder-id]",
		Short: "List the contents of a folder (root when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID := ""
			if len(args) == 1 {
				parentID = args[0]
				if _, ok := app.store.FolderByID(parentID); !ok {
					return fmt.Errorf("folder %s not found", parentID)
				}
			}
			children := app.tree.ChildrenOf(parentID)
			for _, f := range children.Folders {
				fmt.Fprintf(cmd.OutOrStdout(), "d %-36s  %s\n", f.ID, f.Name)
			}
			for _, p := range children.Pebbles {
				fmt.Fprintf(cmd.OutOrStdout(), "p %-36s  %s\n", p.ID, p.Topic)
			}
			return nil
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the whole archive as an indented tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.printSubtree(cmd, "", 0)
			return nil
		},
	}
}

func (app *App) printSubtree(cmd *cobra.Command, parentID string, depth int) {
	indent := strings.Repeat("  ", depth)
	children := app.tree.ChildrenOf(parentID)
	for _, f := range children.Folders {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s/  (%s)\n", indent, f.Name, f.ID)
		app.printSubtree(cmd, f.ID, depth+1)
	}
	for _, p := range children.Pebbles {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  (%s)\n", indent, p.Topic, p.ID)
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find pebbles whose topic contains the term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range app.tree.Search(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "p %-36s  %s\n", p.ID, p.Topic)
			}
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var folderID string
	cmd := &cobra.Command{
		Use:   "add <topic>",
		Short: "Create a blank pebble",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := app.session.CreateDraft(args[0], folderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s  %s\n", draft.ID, draft.Topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "Destination folder id")
	return cmd
}

func newGenerateCmd(app *App) *cobra.Command {
	var folderID string
	var save bool
	var contextIDs []string
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate pebble content for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := args[0]
			if save {
				pebble, err := app.session.SolidifyGenerated(cmd.Context(), topic, folderID)
				if err != nil {
					return fmt.Errorf("generation failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s  %s\n", pebble.ID, pebble.Topic)
				return nil
			}

			preview, err := app.remote.Generate(cmd.Context(), topic, contextIDs)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "topic: %s\n", preview.Topic)
			for level, content := range preview.Levels {
				fmt.Fprintf(cmd.OutOrStdout(), "\n[%s] %s\n%s\n", level, content.Title, content.Summary)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "Destination folder id")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the generated pebble")
	cmd.Flags().StringSliceVar(&contextIDs, "context", nil, "Pebble ids whose summaries ground the generation")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var to string
	var folder bool
	cmd := &cobra.Command{
		Use:   "mv <id>...",
		Short: "Move pebbles (or one folder with --folder) into a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if folder {
				if len(args) != 1 {
					return fmt.Errorf("--folder moves exactly one folder")
				}
				return app.session.MoveFolder(args[0], to)
			}
			// Pebble moves go through the drop gesture
			app.grab(args)
			app.selection.DropOnFolder(to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target folder id (empty for root)")
	cmd.Flags().BoolVar(&folder, "folder", false, "Treat the argument as a folder id")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	var folder bool
	cmd := &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a pebble (or a folder with --folder)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if folder {
				app.session.RenameFolder(args[0], args[1])
			} else {
				app.session.RenamePebble(args[0], args[1])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&folder, "folder", false, "Treat the argument as a folder id")
	return cmd
}

func newVerifyCmd(app *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "verify <pebble-id>",
		Short: "Mark a pebble's content as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.VerifyPebble(args[0], !undo)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Withdraw the reviewed mark")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <pebble-id>...",
		Short: "Soft-delete pebbles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.grab(args)
			app.selection.DropOnTrash()
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d pebble(s); restore with: pebblectl restore %s\n",
				len(args), strings.Join(args, " "))
			return nil
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <pebble-id>...",
		Short: "Restore soft-deleted pebbles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.RestorePebbles(args)
			return nil
		},
	}
}

func newGroupCmd(app *App) *cobra.Command {
	var name, parentID string
	cmd := &cobra.Command{
		Use:   "group <pebble-id>...",
		Short: "Create a folder containing the given pebbles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) >= 2 {
				// Grouping several pebbles is the pebble-on-pebble drop
				app.selection.SetView(parentID)
				app.grab(args)
				id = app.selection.DropOnPebble(args[0])
				if name != "" {
					app.session.RenameFolder(id, name)
				}
			} else {
				// A drop gesture needs two pebbles; a single one is
				// foldered directly
				id = app.session.CreateFolder(name, parentID, args)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created folder %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Folder name (defaults to New Collection)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent folder id (empty for root)")
	return cmd
}

func newUngroupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ungroup <folder-id>",
		Short: "Dissolve a folder, lifting its contents to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.session.UngroupFolder(args[0])
		},
	}
}

func newCrumbsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "crumbs <folder-id>",
		Short: "Print the breadcrumb path of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crumbs := app.tree.Breadcrumbs(args[0])
			if len(crumbs) == 0 {
				return fmt.Errorf("folder %s not found", args[0])
			}
			names := make([]string, 0, len(crumbs)+1)
			names = append(names, "/")
			for _, f := range crumbs {
				names = append(names, f.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " > "))
			return nil
		},
	}
}
