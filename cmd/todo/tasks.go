package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todo-reminder/model"
	"todo-reminder/reminder"
	"todo-reminder/store"
)

var (
	addPriority string
	addDate     string
	addTime     string

	listSort  string
	listToday bool

	moveOnto string
	moveEnd  bool
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tasks in order",
	RunE:    runList,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Replace a task's text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Drop a task onto another one, or move it to the end",
	Args:  cobra.ExactArgs(1),
	RunE:  runMove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all completed tasks",
	RunE:  runClear,
}

var sortCmd = &cobra.Command{
	Use:       "sort <date|priority>",
	Short:     "Sort tasks and keep the new order",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"date", "priority"},
	RunE:      runSort,
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "low, medium or high")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addTime, "time", "t", "", "due time (HH:MM)")

	listCmd.Flags().StringVar(&listSort, "sort", "", "show sorted by date or priority without saving")
	listCmd.Flags().BoolVar(&listToday, "today", false, "only tasks due today")

	moveCmd.Flags().StringVar(&moveOnto, "onto", "", "id of the task to drop onto")
	moveCmd.Flags().BoolVar(&moveEnd, "end", false, "move to the end of the list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.List.Add(ctx, store.AddInput{
		Text:     strings.Join(args, " "),
		Priority: addPriority,
		Date:     addDate,
		Time:     addTime,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", shortID(task.ID))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now()
	tasks := a.List.Filter(store.Filter{TodayOnly: listToday}, now)
	if listSort != "" {
		by, err := store.ParseSortBy(listSort)
		if err != nil {
			return err
		}
		tasks = store.Sorted(tasks, by)
	}

	printTasks(cmd.OutOrStdout(), tasks, now)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.List.Resolve(args[0])
	if err != nil {
		return err
	}
	task, err := a.List.ToggleCompleted(ctx, id)
	if err != nil {
		return err
	}

	state := "pending"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(task.ID), state)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.List.Resolve(args[0])
	if err != nil {
		return err
	}
	if _, err := a.List.EditText(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// 删除是幂等的，找不到时什么也不做
	id, err := a.List.Resolve(args[0])
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.List.Remove(ctx, id)
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.List.Resolve(args[0])
	if err != nil {
		return err
	}

	switch {
	case moveEnd:
		err = a.List.MoveToEnd(ctx, id)
	case moveOnto != "":
		var target string
		if target, err = a.List.Resolve(moveOnto); err != nil {
			return err
		}
		err = a.List.Reorder(ctx, id, target)
	default:
		return fmt.Errorf("need --onto <id> or --end")
	}
	if err != nil {
		return err
	}

	printTasks(cmd.OutOrStdout(), a.List.Snapshot(), time.Now())
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.List.ClearCompleted(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", removed)
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	by, err := store.ParseSortBy(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.List.Sort(ctx, by); err != nil {
		return err
	}
	printTasks(cmd.OutOrStdout(), a.List.Snapshot(), time.Now())
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTasks(w io.Writer, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	for i, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		line := fmt.Sprintf("%2d. %s [%s] %-3s %s", i+1, shortID(t.ID), check, t.Priority.Stars(), t.Text)
		if t.DueAt != nil {
			line += fmt.Sprintf("  @ %s  (%s)", t.DueAt.Format("2006-01-02 15:04"), reminder.Countdown(*t.DueAt, now))
		}
		fmt.Fprintln(w, line)
	}
}
