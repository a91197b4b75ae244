package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/schema"
)

// RenderTaskTable renders tasks as a bordered table, grounded on the
// deleted internal/ui/table.go's NewSearchTable styling.
func RenderTaskTable(tasks []*model.Task) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Width(GetWidth()).
		Headers("ID", "STATUS", "PRI", "PHASE", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return renderer.NewStyle()
		})

	for _, task := range tasks {
		t.Row(task.ID, string(task.Status), string(task.Priority), task.Phase, task.Title)
	}
	return t.Render()
}

// RenderFindings renders doctor/validate findings with severity
// coloring, falling back to plain text when color is disabled.
func RenderFindings(findings []schema.Finding) string {
	if len(findings) == 0 {
		return passStyle.Render("no findings")
	}
	var b strings.Builder
	for _, f := range findings {
		style := mutedStyle
		if f.Severity == schema.SeverityWarn {
			style = warnStyle
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", style.Render(string(f.Severity)), f.Check, f.Message)
	}
	return b.String()
}

// RenderViolations renders schema validation violations, always
// failure-styled since a violation always blocks a write.
func RenderViolations(violations []schema.Violation) string {
	if len(violations) == 0 {
		return passStyle.Render("no violations")
	}
	var b strings.Builder
	for _, v := range violations {
		fmt.Fprintf(&b, "%s %s\n", failStyle.Render("[VIOLATION]"), v.Error())
	}
	return b.String()
}

// RenderRepairPlan renders a repair plan as Markdown through glamour,
// grounded on the teacher's use of charmbracelet/glamour for rendering
// doctor's fix suggestions.
func RenderRepairPlan(plan *schema.RepairPlan) (string, error) {
	if plan.Empty() {
		return passStyle.Render("nothing to repair"), nil
	}
	var md strings.Builder
	md.WriteString("# Repair plan\n\n")
	for _, action := range plan.Actions {
		md.WriteString(fmt.Sprintf("- **%s** %s", action.Code, action.Description))
		if action.TaskID != "" {
			md.WriteString(fmt.Sprintf(" (`%s`)", action.TaskID))
		}
		md.WriteString("\n")
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetWidth()),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md.String())
}
