// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/ui/components"
	"github.com/jeranaias/drivered-tui/internal/ui/styles"
	"github.com/jeranaias/drivered-tui/internal/util"
)

// =============================================================================
// STUDENTS VIEW
// =============================================================================

// studentsMode is the sub-screen within the roster view.
type studentsMode int

const (
	modeList studentsMode = iota
	modeForm
	modeConfirmDelete
	modeDetail
)

// SubmitStudentMsg asks the root model to create (ID == 0) or update a
// student.
type SubmitStudentMsg struct {
	ID      int
	Payload api.StudentPayload
}

// DeleteStudentMsg asks the root model to delete a student.
type DeleteStudentMsg struct {
	ID int
}

// Form field validation bounds.
const (
	nameMinLen = 2
	nameMaxLen = 120
)

var statusCycle = []api.StudentStatus{api.StatusEnrolled, api.StatusActive, api.StatusCompleted}

// StudentsView manages the roster list, the add/edit form, the delete
// confirmation, and the detail pane.
type StudentsView struct {
	theme   *styles.Theme
	table   *components.Table
	spinner components.Spinner

	students []api.Student
	mode     studentsMode
	loading  bool
	errMsg   string

	// Form state
	formID      int // 0 = create
	nameInput   textinput.Model
	hoursInput  textinput.Model
	notesInput  textinput.Model
	statusIndex int
	formFocus   int // 0 name, 1 status, 2 hours, 3 notes
	formErr     string

	// Delete confirmation target
	deleteTarget *api.Student
}

// NewStudentsView creates the roster view.
func NewStudentsView(theme *styles.Theme) *StudentsView {
	table := components.NewTable(theme, []components.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 26},
		{Title: "Status", Width: 10},
		{Title: "Hours", Width: 7},
	})

	name := textinput.New()
	name.Placeholder = "full name"
	name.CharLimit = nameMaxLen
	name.Width = 32

	hours := textinput.New()
	hours.Placeholder = "0"
	hours.CharLimit = 8
	hours.Width = 10

	notes := textinput.New()
	notes.Placeholder = "optional notes (markdown)"
	notes.CharLimit = 2000
	notes.Width = 48

	sp := components.NewSpinner(theme)
	sp.SetMessage("Loading students")

	return &StudentsView{
		theme:      theme,
		table:      table,
		spinner:    sp,
		nameInput:  name,
		hoursInput: hours,
		notesInput: notes,
	}
}

// SetLoading toggles the loading state.
func (v *StudentsView) SetLoading(loading bool) {
	v.loading = loading
	if loading {
		v.errMsg = ""
	}
}

// Spinner exposes the loading spinner for Start/Update wiring.
func (v *StudentsView) Spinner() *components.Spinner {
	return &v.spinner
}

// SetStudents replaces the roster, newest (highest id) first.
func (v *StudentsView) SetStudents(students []api.Student) {
	sorted := append([]api.Student(nil), students...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	v.students = sorted
	v.loading = false
	v.errMsg = ""
	v.spinner.Stop()

	rows := make([]components.Row, 0, len(sorted))
	for _, s := range sorted {
		rows = append(rows, components.Row{Cells: []string{
			strconv.Itoa(s.ID),
			s.Name,
			string(s.Status),
			util.FormatHours(s.ProgressHours),
		}})
	}
	v.table.SetRows(rows)
}

// SetError shows a fetch failure.
func (v *StudentsView) SetError(msg string) {
	v.loading = false
	v.errMsg = msg
	v.spinner.Stop()
}

// Selected returns the student under the cursor, or nil.
func (v *StudentsView) Selected() *api.Student {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.students) {
		return nil
	}
	s := v.students[idx]
	return &s
}

// InList reports whether the view is on the list screen (as opposed to a
// form or confirmation), so the root model knows which shortcuts apply.
func (v *StudentsView) InList() bool {
	return v.mode == modeList
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles keys for whichever sub-screen is active.
func (v *StudentsView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch v.mode {
		case modeList:
			return v.updateList(key)
		case modeForm:
			return v.updateForm(msg, key)
		case modeConfirmDelete:
			return v.updateConfirm(key)
		case modeDetail:
			v.mode = modeList
			return nil
		}
	}

	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return cmd
}

func (v *StudentsView) updateList(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		v.table.MoveUp()
	case "down", "j":
		v.table.MoveDown()
	case "a":
		v.openForm(nil)
	case "e", "enter":
		if s := v.Selected(); s != nil {
			if key.String() == "enter" {
				v.mode = modeDetail
			} else {
				v.openForm(s)
			}
		}
	case "d":
		if s := v.Selected(); s != nil {
			v.deleteTarget = s
			v.mode = modeConfirmDelete
		}
	}
	return nil
}

func (v *StudentsView) updateForm(msg tea.Msg, key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		v.mode = modeList
		return nil
	case "tab", "down":
		return v.focusField((v.formFocus + 1) % 4)
	case "shift+tab", "up":
		return v.focusField((v.formFocus + 3) % 4)
	case "left", "right":
		if v.formFocus == 1 {
			if key.String() == "right" {
				v.statusIndex = (v.statusIndex + 1) % len(statusCycle)
			} else {
				v.statusIndex = (v.statusIndex + len(statusCycle) - 1) % len(statusCycle)
			}
			return nil
		}
	case "enter":
		return v.submitForm()
	}

	// Route typing to the focused text field
	var cmd tea.Cmd
	switch v.formFocus {
	case 0:
		v.nameInput, cmd = v.nameInput.Update(msg)
	case 2:
		v.hoursInput, cmd = v.hoursInput.Update(msg)
	case 3:
		v.notesInput, cmd = v.notesInput.Update(msg)
	}
	return cmd
}

func (v *StudentsView) updateConfirm(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "enter":
		target := v.deleteTarget
		v.deleteTarget = nil
		v.mode = modeList
		if target == nil {
			return nil
		}
		id := target.ID
		return func() tea.Msg { return DeleteStudentMsg{ID: id} }
	case "n", "esc":
		v.deleteTarget = nil
		v.mode = modeList
	}
	return nil
}

func (v *StudentsView) focusField(idx int) tea.Cmd {
	v.formFocus = idx
	v.nameInput.Blur()
	v.hoursInput.Blur()
	v.notesInput.Blur()
	switch idx {
	case 0:
		return v.nameInput.Focus()
	case 2:
		return v.hoursInput.Focus()
	case 3:
		return v.notesInput.Focus()
	}
	return nil
}

func (v *StudentsView) openForm(s *api.Student) {
	v.mode = modeForm
	v.formErr = ""
	v.formFocus = 0
	if s == nil {
		v.formID = 0
		v.nameInput.SetValue("")
		v.hoursInput.SetValue("0")
		v.notesInput.SetValue("")
		v.statusIndex = 0
	} else {
		v.formID = s.ID
		v.nameInput.SetValue(s.Name)
		v.hoursInput.SetValue(util.FormatHours(s.ProgressHours))
		if s.Notes != nil {
			v.notesInput.SetValue(*s.Notes)
		} else {
			v.notesInput.SetValue("")
		}
		v.statusIndex = 0
		for i, st := range statusCycle {
			if st == s.Status {
				v.statusIndex = i
			}
		}
	}
	v.nameInput.Focus()
	v.hoursInput.Blur()
	v.notesInput.Blur()
}

func (v *StudentsView) submitForm() tea.Cmd {
	payload, err := v.validateForm()
	if err != "" {
		v.formErr = err
		return nil
	}
	id := v.formID
	v.mode = modeList
	return func() tea.Msg { return SubmitStudentMsg{ID: id, Payload: payload} }
}

// validateForm applies the roster field rules: name 2-120 characters,
// hours numeric and non-negative. Empty notes are sent as absent.
func (v *StudentsView) validateForm() (api.StudentPayload, string) {
	var payload api.StudentPayload

	name := strings.TrimSpace(v.nameInput.Value())
	if len([]rune(name)) < nameMinLen {
		return payload, "name must be at least 2 characters"
	}
	if len([]rune(name)) > nameMaxLen {
		return payload, "name must be at most 120 characters"
	}

	hoursText := strings.TrimSpace(v.hoursInput.Value())
	if hoursText == "" {
		hoursText = "0"
	}
	hours, err := strconv.ParseFloat(hoursText, 64)
	if err != nil {
		return payload, "hours must be a number"
	}
	if hours < 0 {
		return payload, "hours cannot be negative"
	}

	payload.Name = name
	payload.Status = statusCycle[v.statusIndex]
	payload.ProgressHours = hours
	if notes := strings.TrimSpace(v.notesInput.Value()); notes != "" {
		payload.Notes = &notes
	}
	return payload, ""
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active sub-screen.
func (v *StudentsView) View() string {
	switch v.mode {
	case modeForm:
		return v.viewForm()
	case modeConfirmDelete:
		return v.viewConfirm()
	case modeDetail:
		return v.viewDetail()
	default:
		return v.viewList()
	}
}

func (v *StudentsView) viewList() string {
	var sb strings.Builder
	sb.WriteString(v.theme.ViewTitle.Render("Students"))
	sb.WriteString("\n")

	switch {
	case v.loading && len(v.students) == 0:
		sb.WriteString(v.spinner.View())
		return sb.String()
	case v.errMsg != "":
		sb.WriteString(v.theme.FormError.Render(v.errMsg))
		return sb.String()
	case len(v.students) == 0:
		sb.WriteString(v.theme.Muted.Render("No students enrolled — press a to add one"))
		return sb.String()
	}

	if v.theme.Height > 10 {
		v.table.SetHeight(v.theme.Height - 8)
	}
	sb.WriteString(v.table.View())
	return sb.String()
}

func (v *StudentsView) viewForm() string {
	var sb strings.Builder
	title := "Add student"
	if v.formID != 0 {
		title = "Edit student"
	}
	sb.WriteString(v.theme.ViewTitle.Render(title))
	sb.WriteString("\n")

	sb.WriteString(v.renderField(0, "Name", v.nameInput.View()))
	sb.WriteString(v.renderField(1, "Status", v.renderStatusPicker()))
	sb.WriteString(v.renderField(2, "Hours", v.hoursInput.View()))
	sb.WriteString(v.renderField(3, "Notes", v.notesInput.View()))
	sb.WriteString("\n")

	if v.formErr != "" {
		sb.WriteString(v.theme.FormError.Render(v.formErr))
	} else {
		sb.WriteString(v.theme.FormHint.Render("enter to save · esc to cancel"))
	}
	return sb.String()
}

func (v *StudentsView) renderField(idx int, label, field string) string {
	lbl := v.theme.FormLabel.Render(label)
	if v.formFocus == idx {
		lbl = v.theme.FormFieldFocus.Width(16).Render("> " + label)
	}
	return lbl + field + "\n"
}

func (v *StudentsView) renderStatusPicker() string {
	parts := make([]string, len(statusCycle))
	for i, st := range statusCycle {
		if i == v.statusIndex {
			parts[i] = v.theme.BadgeFor(string(st)).Render(string(st))
		} else {
			parts[i] = v.theme.Muted.Render(string(st))
		}
	}
	return strings.Join(parts, "  ")
}

func (v *StudentsView) viewConfirm() string {
	if v.deleteTarget == nil {
		return v.viewList()
	}
	var sb strings.Builder
	sb.WriteString(v.theme.ViewTitle.Render("Delete student"))
	sb.WriteString("\n")
	sb.WriteString(v.theme.Danger.Render("Delete " + v.deleteTarget.Name + "?"))
	sb.WriteString("\n")
	sb.WriteString(v.theme.SectionNote.Render("This cannot be undone."))
	sb.WriteString("\n\n")
	sb.WriteString(v.theme.FormHint.Render("y to delete · n to cancel"))
	return sb.String()
}

func (v *StudentsView) viewDetail() string {
	s := v.Selected()
	if s == nil {
		return v.viewList()
	}

	var sb strings.Builder
	sb.WriteString(v.theme.ViewTitle.Render(s.Name))
	sb.WriteString("\n")
	sb.WriteString(v.theme.CardLabel.Render("Status  "))
	sb.WriteString(v.theme.BadgeFor(string(s.Status)).Render(string(s.Status)))
	sb.WriteString("\n")
	sb.WriteString(v.theme.CardLabel.Render("Hours   "))
	sb.WriteString(util.FormatHours(s.ProgressHours))
	sb.WriteString("\n\n")

	if s.Notes != nil && strings.TrimSpace(*s.Notes) != "" {
		sb.WriteString(v.theme.HeaderSubtitle.Render("Notes"))
		sb.WriteString("\n")
		sb.WriteString(v.renderNotes(*s.Notes))
	} else {
		sb.WriteString(v.theme.Muted.Render("No notes"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(v.theme.FormHint.Render("any key to go back"))
	return sb.String()
}

// renderNotes renders the notes field as markdown. Glamour failures fall
// back to the raw text; notes are display-only.
func (v *StudentsView) renderNotes(notes string) string {
	width := 72
	if v.theme.Width > 0 && v.theme.Width-8 < width {
		width = v.theme.Width - 8
	}

	style := "light"
	if v.theme.IsDark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return notes
	}
	out, err := renderer.Render(notes)
	if err != nil {
		return notes
	}
	return strings.TrimRight(out, "\n")
}
