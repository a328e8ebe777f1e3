// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/ui/components"
	"github.com/jeranaias/drivered-tui/internal/ui/styles"
	"github.com/jeranaias/drivered-tui/internal/util"
)

// =============================================================================
// DASHBOARD VIEW
// =============================================================================

// recentCount is how many roster rows the dashboard previews.
const recentCount = 8

// DashboardView shows the aggregate stat cards and a preview of the most
// recent students.
type DashboardView struct {
	theme   *styles.Theme
	spinner components.Spinner

	stats    *api.DashboardStats
	students []api.Student
	loading  bool
	errMsg   string
}

// NewDashboardView creates an empty dashboard.
func NewDashboardView(theme *styles.Theme) *DashboardView {
	sp := components.NewSpinner(theme)
	sp.SetMessage("Loading dashboard")
	return &DashboardView{theme: theme, spinner: sp}
}

// SetLoading toggles the loading state.
func (v *DashboardView) SetLoading(loading bool) {
	v.loading = loading
	if loading {
		v.errMsg = ""
	}
}

// Spinner exposes the loading spinner for Start/Update wiring.
func (v *DashboardView) Spinner() *components.Spinner {
	return &v.spinner
}

// SetData replaces the dashboard content after a successful fetch.
func (v *DashboardView) SetData(stats *api.DashboardStats, students []api.Student) {
	v.stats = stats
	v.students = students
	v.loading = false
	v.errMsg = ""
	v.spinner.Stop()
}

// SetError shows a fetch failure.
func (v *DashboardView) SetError(msg string) {
	v.loading = false
	v.errMsg = msg
	v.spinner.Stop()
}

// Update forwards spinner frames while loading.
func (v *DashboardView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return cmd
}

// View renders the dashboard.
func (v *DashboardView) View() string {
	var sb strings.Builder
	sb.WriteString(v.theme.ViewTitle.Render("Dashboard"))
	sb.WriteString("\n")

	switch {
	case v.loading && v.stats == nil:
		sb.WriteString(v.spinner.View())
		return sb.String()
	case v.errMsg != "":
		sb.WriteString(v.theme.FormError.Render(v.errMsg))
		return sb.String()
	case v.stats == nil:
		sb.WriteString(v.theme.Muted.Render("No data yet"))
		return sb.String()
	}

	sb.WriteString(v.renderCards())
	sb.WriteString("\n\n")
	sb.WriteString(v.theme.HeaderSubtitle.Render("Recent students"))
	sb.WriteString("\n")
	sb.WriteString(v.renderRecent())
	return sb.String()
}

func (v *DashboardView) renderCards() string {
	cards := []struct {
		label string
		value int
	}{
		{"Total", v.stats.Total},
		{"Active", v.stats.Active},
		{"Completed", v.stats.Completed},
	}

	if v.theme.GetLayoutMode() == styles.LayoutNarrow {
		// Single column on narrow terminals
		lines := make([]string, 0, len(cards))
		for _, c := range cards {
			lines = append(lines,
				v.theme.CardLabel.Render(c.label+": ")+
					v.theme.CardValue.Render(strconv.Itoa(c.value)))
		}
		return strings.Join(lines, "\n")
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		content := v.theme.CardLabel.Render(c.label) + "\n" +
			v.theme.CardValue.Render(strconv.Itoa(c.value))
		rendered = append(rendered, v.theme.Card.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (v *DashboardView) renderRecent() string {
	if len(v.students) == 0 {
		return v.theme.Muted.Render("No students enrolled")
	}

	limit := len(v.students)
	if limit > recentCount {
		limit = recentCount
	}

	var sb strings.Builder
	header := util.PadWidth("ID", 5) + "  " + util.PadWidth("Name", 24) + "  " +
		util.PadWidth("Status", 10) + "  " + "Hours"
	sb.WriteString(v.theme.TableHeader.Render(header))
	sb.WriteString("\n")

	for i := 0; i < limit; i++ {
		s := v.students[i]
		line := util.PadWidth(strconv.Itoa(s.ID), 5) + "  " +
			util.PadWidth(s.Name, 24) + "  " +
			util.PadWidth(string(s.Status), 10) + "  " +
			util.FormatHours(s.ProgressHours)
		sb.WriteString(v.theme.TableRow.Render(line))
		if i < limit-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
