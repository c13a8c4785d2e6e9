package main

import (
	"fmt"

	"github.com/amonks/tasks/internal/ui"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group a list's tasks by due date",
}

var groupEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Show a list grouped into overdue, today, upcoming and undated tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGroupByDueDate(cmd, true)
	},
}

var groupDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Show a list in manual order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGroupByDueDate(cmd, false)
	},
}

var groupList string

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupEnableCmd, groupDisableCmd)
	groupCmd.PersistentFlags().StringVarP(&groupList, "list", "l", "", "List name (default: the default list)")
}

func setGroupByDueDate(cmd *cobra.Command, enabled bool) error {
	return mutate(cmd.Context(), func(wc *workspaceContext) error {
		listID, err := wc.resolveList(groupList)
		if err != nil {
			return err
		}
		if err := wc.repo.SetGroupByDueDate(listID, enabled); err != nil {
			return err
		}
		list, err := wc.repo.GetList(listID)
		if err != nil {
			return err
		}
		state := "enabled"
		if !enabled {
			state = "disabled"
		}
		fmt.Println(ui.Success(fmt.Sprintf("Grouping by due date %s for %q", state, list.Title)))
		return nil
	})
}
