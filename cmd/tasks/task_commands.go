package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/tasks/internal/editor"
	"github.com/amonks/tasks/internal/ui"
	"github.com/amonks/tasks/repository"
	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// add
var addCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Add a task",
	Long: `Add a task to a list.

The task goes to --list, or the configured default list, or the last
opened list. By default, opens $EDITOR when running interactively and no
title or flags are given. Use --no-edit to skip the editor, or --edit to
force it.`,
	RunE: runAdd,
}

var (
	addList        string
	addDue         string
	addDescription string
	addParent      string
	addEdit        bool
	addNoEdit      bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show task details",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Long: `Edit a task.

By default, opens $EDITOR to edit a TOML representation of the task when
running interactively and no update flags are provided. Use --no-edit to
skip the editor, or --edit to force it.`,
	Aliases: []string{"update"},
	Args:    cobra.ExactArgs(1),
	RunE:    runEdit,
}

var (
	editTitle       string
	editDescription string
	editDue         string
	editClearDue    bool
	editEdit        bool
	editNoEdit      bool
)

var completeCmd = &cobra.Command{
	Use:     "complete <id>...",
	Short:   "Mark tasks completed",
	Aliases: []string{"done"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTasksCompleted(cmd, args, true)
	},
}

var uncompleteCmd = &cobra.Command{
	Use:     "uncomplete <id>...",
	Short:   "Mark tasks open again",
	Aliases: []string{"reopen"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTasksCompleted(cmd, args, false)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete tasks",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a task to a position in its list (1 is first)",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete completed tasks from a list",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

var (
	cleanList string
	cleanYes  bool
)

func init() {
	rootCmd.AddCommand(addCmd, showCmd, editCmd, completeCmd, uncompleteCmd, deleteCmd, moveCmd, cleanCmd)
	addDescriptionFlagAliases(addCmd, editCmd)

	addCmd.Flags().StringVarP(&addList, "list", "l", "", "List name")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, or RFC 3339)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Parent task ID")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no title or flags)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	editCmd.Flags().BoolVar(&editNoEdit, "no-edit", false, "Do not open $EDITOR")

	cleanCmd.Flags().StringVarP(&cleanList, "list", "l", "", "List name")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Do not ask for confirmation")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := resolveDescriptionFlag(cmd, &addDescription, os.Stdin); err != nil {
		return err
	}
	title := strings.Join(args, " ")

	opts := repository.CreateTaskOptions{Description: addDescription}
	if addDue != "" {
		due, err := task.ParseDue(addDue)
		if err != nil {
			return err
		}
		opts.Due = &due
	}

	hasFlags := len(args) > 0 || hasChangedFlags(cmd, "due", "description")
	if shouldUseEditor(hasFlags, addEdit, addNoEdit, editor.IsInteractive()) {
		data := editor.DefaultCreateData(title)
		data.Description = opts.Description
		if opts.Due != nil {
			data.Due = task.FormatDue(*opts.Due)
		}
		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		title = parsed.Title
		opts.Description = parsed.Description
		opts.Due = parsed.Due
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		listID, err := wc.resolveList(addList)
		if err != nil {
			return err
		}
		if addParent != "" {
			_, parent, err := wc.resolveTask(addParent)
			if err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			opts.Parent = &parent.ID
		}
		created, err := wc.repo.CreateTask(listID, title, opts)
		if err != nil {
			return err
		}
		formatID, err := wc.idFormatter()
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Created task %s: %s", formatID(created.ID), created.Title)))
		return nil
	})
}

// taskDetail is the JSON shape of a shown task.
type taskDetail struct {
	task.Task
	List string `json:"list"`
}

func runShow(cmd *cobra.Command, args []string) error {
	wc, err := openWorkspace()
	if err != nil {
		return err
	}

	details := make([]taskDetail, 0, len(args))
	for _, input := range args {
		listID, t, err := wc.resolveTask(input)
		if err != nil {
			return err
		}
		list, err := wc.repo.GetList(listID)
		if err != nil {
			return err
		}
		details = append(details, taskDetail{Task: t, List: list.Title})
	}

	if showJSON {
		if len(details) == 1 {
			return encodeJSONToStdout(details[0])
		}
		return encodeJSONToStdout(details)
	}

	render := stdoutIsTerminal() && wc.config.Display.Markdown
	now := time.Now()
	for i, detail := range details {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(formatTaskDetail(detail, now, render))
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := resolveDescriptionFlag(cmd, &editDescription, os.Stdin); err != nil {
		return err
	}
	if editClearDue && cmd.Flags().Changed("due") {
		return fmt.Errorf("--due and --clear-due cannot be used together")
	}

	var due *time.Time
	if cmd.Flags().Changed("due") {
		parsed, err := task.ParseDue(editDue)
		if err != nil {
			return err
		}
		due = &parsed
	}

	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		listID, existing, err := wc.resolveTask(args[0])
		if err != nil {
			return err
		}

		updated := existing
		if cmd.Flags().Changed("title") {
			updated.Title = editTitle
		}
		if cmd.Flags().Changed("description") {
			updated.Description = editDescription
		}
		if due != nil {
			updated.Due = due
		}
		if editClearDue {
			updated.Due = nil
		}

		hasFlags := hasChangedFlags(cmd, "title", "description", "due", "clear-due")
		if shouldUseEditor(hasFlags, editEdit, editNoEdit, editor.IsInteractive()) {
			parsed, err := editor.EditTask(editor.DataFromTask(updated))
			if err != nil {
				return err
			}
			parsed.Apply(&updated, time.Now())
		} else if !hasFlags {
			return fmt.Errorf("no changes given (use --title, --description, --due, --clear-due, or --edit)")
		}

		saved, err := wc.repo.UpdateTask(listID, updated)
		if err != nil {
			return err
		}
		formatID, err := wc.idFormatter()
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Updated task %s: %s", formatID(saved.ID), saved.Title)))
		return nil
	})
}

func setTasksCompleted(cmd *cobra.Command, args []string, completed bool) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		formatID, err := wc.idFormatter()
		if err != nil {
			return err
		}
		for _, input := range args {
			listID, t, err := wc.resolveTask(input)
			if err != nil {
				return err
			}
			verb := "Completed"
			if completed {
				t, err = wc.repo.CompleteTask(listID, t.ID)
			} else {
				verb = "Reopened"
				t, err = wc.repo.UncompleteTask(listID, t.ID)
			}
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("%s task %s: %s", verb, formatID(t.ID), t.Title)))
		}
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		formatID, err := wc.idFormatter()
		if err != nil {
			return err
		}
		for _, input := range args {
			listID, t, err := wc.resolveTask(input)
			if err != nil {
				return err
			}
			if err := wc.repo.DeleteTask(listID, t.ID); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Deleted task %s: %s", formatID(t.ID), t.Title)))
		}
		return nil
	})
}

func runMove(cmd *cobra.Command, args []string) error {
	position, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		listID, t, err := wc.resolveTask(args[0])
		if err != nil {
			return err
		}
		if err := wc.repo.ReorderTask(listID, t.ID, position); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Moved %q to position %d", t.Title, position+1)))
		return nil
	})
}

func runClean(cmd *cobra.Command, args []string) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		listID, err := wc.resolveList(cleanList)
		if err != nil {
			return err
		}
		list, err := wc.repo.GetList(listID)
		if err != nil {
			return err
		}
		var done []uuid.UUID
		for _, t := range list.Tasks {
			if t.IsCompleted() {
				done = append(done, t.ID)
			}
		}
		if len(done) == 0 {
			fmt.Printf("No completed tasks in %q.\n", list.Title)
			return nil
		}
		question := fmt.Sprintf("Delete %d completed %s from %q?", len(done), plural(len(done), "task"), list.Title)
		ok, err := confirm(question, cleanYes)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
		for _, id := range done {
			if err := wc.repo.DeleteTask(listID, id); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Deleted %d completed %s from %q", len(done), plural(len(done), "task"), list.Title)))
		return nil
	})
}
