package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"todo-reminder/app"
	"todo-reminder/config"
	"todo-reminder/reminder"
)

var statsJSON bool

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Show time left for every task with a due time",
	RunE:  runCountdown,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	RunE:  runStats,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the reminder engine in the foreground",
	Long: `watch refreshes countdowns on the configured interval and fires one
reminder per task once its due time passes. If notification permission is
still undecided it asks once before starting.`,
	RunE: runWatch,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print as JSON")
	configCmd.AddCommand(configShowCmd)
}

func runCountdown(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	printStatuses(cmd.OutOrStdout(), reminder.Statuses(a.List.Snapshot(), time.Now()))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.List.Stats(time.Now())
	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(out, "total %d  pending %d  completed %d\n", s.Total, s.Pending, s.Completed)
	fmt.Fprintf(out, "overdue %d  today %d  this week %d\n", s.Overdue, s.Today, s.ThisWeek)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	a, err := app.Open(ctx, cfg, func(now time.Time, statuses []reminder.Status) {
		fmt.Fprintf(out, "\n-- %s --\n", now.Format("15:04:05"))
		printStatuses(out, statuses)
	})
	if err != nil {
		return err
	}
	defer a.Close()

	a.Signal.RequestPermission(stdinPrompter(cmd.InOrStdin(), out))
	// 在终端里启动 watch 本身就是一次交互
	a.Signal.UnlockAudio()

	return a.Engine.Run(ctx)
}

// stdinPrompter 在终端询问一次是否允许桌面通知
func stdinPrompter(in io.Reader, out io.Writer) reminder.Prompter {
	return reminder.PrompterFunc(func() (reminder.Permission, error) {
		fmt.Fprint(out, "Allow desktop notifications for due tasks? [y/N] ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return reminder.PermissionDefault, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return reminder.PermissionGranted, nil
		default:
			return reminder.PermissionDenied, nil
		}
	})
}

func printStatuses(w io.Writer, statuses []reminder.Status) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "No tasks with a due time.")
		return
	}
	for _, st := range statuses {
		mark := "⏳"
		if st.Overdue {
			mark = "⏰"
		}
		line := fmt.Sprintf("%s %-24s %s", mark, st.Display, st.Text)
		if st.Fired {
			line += "  (reminder sent)"
		}
		fmt.Fprintln(w, line)
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "# Effective configuration (defaults + todo.yaml + TODO_* env)")
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
