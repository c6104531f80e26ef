package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	// 标志变量是包级的，每次执行前复位
	addPriority, addDate, addTime = "medium", "", ""
	listSort, listToday = "", false
	moveOnto, moveEnd = "", false
	statsJSON = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func useFileStore(t *testing.T) {
	t.Helper()
	t.Setenv("TODO_STORAGE_DRIVER", "file")
	t.Setenv("TODO_STORAGE_DATA_DIR", t.TempDir())
	t.Setenv("TODO_NOTIFICATION_NOTIFIER", "log")
	configPath = ""
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestCLI_AddListMove(t *testing.T) {
	useFileStore(t)

	for _, text := range []string{"A", "B", "C", "D"} {
		assert.Contains(t, runCLI(t, "add", text), "Added")
	}

	out := runCLI(t, "list")
	got := lines(out)
	require.Len(t, got, 4)
	assert.True(t, strings.HasSuffix(got[0], " A"))

	idOf := func(line string) string {
		return strings.Fields(line)[1]
	}
	a, c := idOf(got[0]), idOf(got[2])

	out = runCLI(t, "move", a, "--onto", c)
	got = lines(out)
	require.Len(t, got, 4)
	for i, want := range []string{"B", "C", "A", "D"} {
		assert.True(t, strings.HasSuffix(got[i], " "+want), got[i])
	}
}

func TestCLI_ToggleClearStats(t *testing.T) {
	useFileStore(t)

	runCLI(t, "add", "keep")
	runCLI(t, "add", "drop", "--priority", "high")

	id := strings.Fields(lines(runCLI(t, "list"))[1])[1]
	assert.Contains(t, runCLI(t, "toggle", id), "done")

	assert.Contains(t, runCLI(t, "stats"), "completed 1")
	assert.Contains(t, runCLI(t, "clear"), "Removed 1")

	got := lines(runCLI(t, "list"))
	require.Len(t, got, 1)
	assert.True(t, strings.HasSuffix(got[0], " keep"))
}

func TestCLI_Countdown(t *testing.T) {
	useFileStore(t)

	runCLI(t, "add", "old", "--date", "2000-01-01", "--time", "00:00")
	assert.Contains(t, runCLI(t, "countdown"), "Time's up!")
}

func TestCLI_ConfigShow(t *testing.T) {
	useFileStore(t)

	out := runCLI(t, "config", "show")
	assert.Contains(t, out, "driver: file")
	assert.Contains(t, out, "auto_complete: true")
}
