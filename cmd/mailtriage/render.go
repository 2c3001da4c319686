package main

import (
	"fmt"
	"strconv"
	"strings"

	"mailtriage/internal/metrics"
	"mailtriage/internal/perception"
	"mailtriage/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const summaryWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// renderSummary draws the end-of-run table followed by one line of totals.
func renderSummary(results []types.EmailResult, stats metrics.Stats, capability perception.Capability) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "SUMMARY", "TASKS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range results {
		t.Row(strconv.Itoa(r.ID), clip(r.Summary, summaryWidth), describeTasks(r.Tasks))
	}

	mode := "rules"
	if capability.Available {
		mode = string(capability.Provider)
		if capability.Model != "" {
			mode += " (" + capability.Model + ")"
		}
	}
	footer := fmt.Sprintf("%d emails, %d tasks, mode=%s, model replies=%d, rule fallbacks=%d",
		stats.Emails, stats.Tasks, mode, stats.RemoteReplies, stats.RuleFallbacks)

	return t.Render() + "\n" + footerStyle.Render(footer)
}

// describeTasks renders one task per line as "Task [Priority, due]".
func describeTasks(tasks []types.TaskItem) string {
	if len(tasks) == 0 {
		return "-"
	}
	lines := make([]string, len(tasks))
	for i, task := range tasks {
		lines[i] = fmt.Sprintf("%s [%s, %s]", task.Task, task.Priority, types.DueString(task.Due))
	}
	return strings.Join(lines, "\n")
}

// clip shortens s to width runes on a single line.
func clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
