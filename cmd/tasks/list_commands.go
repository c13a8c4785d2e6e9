package main

import (
	"fmt"
	"time"

	"github.com/amonks/tasks/internal/listflags"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/task"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show task lists, or manage them with a subcommand",
	Long: `Show every list in the workspace with its tasks.

Archived lists are hidden unless --all is given.`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listJSON bool
	listAll  bool
)

var listCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListCreate,
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runListRename,
}

var listDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a list and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runListDelete,
}

var listDeleteYes bool

var listArchiveCmd = &cobra.Command{
	Use:   "archive <name>",
	Short: "Archive a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setListArchived(cmd, args[0], true)
	},
}

var listUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <name>",
	Short: "Restore an archived list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setListArchived(cmd, args[0], false)
	},
}

var listMoveCmd = &cobra.Command{
	Use:   "move <name> <position>",
	Short: "Move a list to a position (1 is first)",
	Args:  cobra.ExactArgs(2),
	RunE:  runListMove,
}

var listOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Make a list the default for new tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runListOpen,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listCreateCmd, listRenameCmd, listDeleteCmd, listArchiveCmd, listUnarchiveCmd, listMoveCmd, listOpenCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listflags.AddAllFlag(listCmd, &listAll, "Include archived lists")
	listDeleteCmd.Flags().BoolVarP(&listDeleteYes, "yes", "y", false, "Do not ask for confirmation")
}

func runList(cmd *cobra.Command, args []string) error {
	wc, err := openWorkspace()
	if err != nil {
		return err
	}
	lists, err := wc.repo.GetLists()
	if err != nil {
		return err
	}

	visible := make([]task.List, 0, len(lists))
	for _, list := range lists {
		if list.Archived && !listAll {
			continue
		}
		if list.Tasks == nil {
			list.Tasks = []task.Task{}
		}
		visible = append(visible, list)
	}

	if listJSON {
		return encodeJSONToStdout(visible)
	}

	if len(visible) == 0 {
		fmt.Println("No lists. Create one with 'tasks list create <name>'.")
		return nil
	}

	formatID, err := wc.idFormatter()
	if err != nil {
		return err
	}
	now := time.Now()
	for i, list := range visible {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(renderList(list, formatID, now))
	}
	return nil
}

func runListCreate(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		list, err := wc.repo.CreateList(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Created list %q", list.Title)))
		return nil
	})
}

func runListRename(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		id, err := wc.repo.FindListByName(args[0])
		if err != nil {
			return err
		}
		if err := wc.repo.RenameList(id, args[1]); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Renamed list %q to %q", args[0], args[1])))
		return nil
	})
}

func runListDelete(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		id, err := wc.repo.FindListByName(args[0])
		if err != nil {
			return err
		}
		list, err := wc.repo.GetList(id)
		if err != nil {
			return err
		}
		question := fmt.Sprintf("Delete list %q and its %d %s?", list.Title, len(list.Tasks), plural(len(list.Tasks), "task"))
		ok, err := confirm(question, listDeleteYes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := wc.repo.DeleteList(id); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Deleted list %q", list.Title)))
		return nil
	})
}

func setListArchived(cmd *cobra.Command, name string, archived bool) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		id, err := wc.repo.FindListByName(name)
		if err != nil {
			return err
		}
		if err := wc.repo.ArchiveList(id, archived); err != nil {
			return err
		}
		verb := "Archived"
		if !archived {
			verb = "Unarchived"
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s list %q", verb, name)))
		return nil
	})
}

func runListMove(cmd *cobra.Command, args []string) error {
	position, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		id, err := wc.repo.FindListByName(args[0])
		if err != nil {
			return err
		}
		if err := wc.repo.ReorderList(id, position); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Moved list %q to position %d", args[0], position+1)))
		return nil
	})
}

func runListOpen(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		id, err := wc.repo.FindListByName(args[0])
		if err != nil {
			return err
		}
		if err := wc.repo.SetLastOpenedList(id); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Opened list %q", args[0])))
		return nil
	})
}
