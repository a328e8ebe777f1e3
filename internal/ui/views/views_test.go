// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	theme := styles.NewTheme("dark")
	theme.SetSize(100, 30)
	return theme
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// LOGIN VIEW TESTS
// =============================================================================

func TestLoginSubmitRequiresBothFields(t *testing.T) {
	v := NewLoginView(testTheme())

	cmd := v.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("Empty form must not submit")
	}
	if !strings.Contains(v.View(), "required") {
		t.Error("Expected validation message in view")
	}
}

func TestLoginSubmitEmitsMessage(t *testing.T) {
	v := NewLoginView(testTheme())
	v.username.SetValue("admin")
	v.password.SetValue("secret")

	cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg, ok := cmd().(SubmitLoginMsg)
	if !ok {
		t.Fatalf("Expected SubmitLoginMsg, got %T", cmd())
	}
	if msg.Username != "admin" || msg.Password != "secret" {
		t.Errorf("Unexpected credentials: %+v", msg)
	}
}

func TestLoginBusyBlocksInput(t *testing.T) {
	v := NewLoginView(testTheme())
	v.username.SetValue("admin")
	v.password.SetValue("secret")
	v.SetBusy(true)

	if cmd := v.Update(keyMsg("enter")); cmd != nil {
		t.Error("Busy form must ignore submit")
	}
}

func TestLoginShowsError(t *testing.T) {
	v := NewLoginView(testTheme())
	v.SetError("Incorrect username or password")
	if !strings.Contains(v.View(), "Incorrect username or password") {
		t.Error("Expected backend reason in view")
	}
}

// =============================================================================
// DASHBOARD VIEW TESTS
// =============================================================================

func TestDashboardRendersStatsAndRecent(t *testing.T) {
	v := NewDashboardView(testTheme())
	v.SetData(
		&api.DashboardStats{Total: 12, Active: 5, Completed: 3},
		[]api.Student{
			{ID: 2, Name: "Bob", Status: api.StatusActive, ProgressHours: 4.5},
			{ID: 1, Name: "Alice", Status: api.StatusCompleted, ProgressHours: 30},
		},
	)

	out := v.View()
	for _, want := range []string{"Dashboard", "Total", "12", "Active", "Completed", "Bob", "Alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dashboard missing %q", want)
		}
	}
}

func TestDashboardLimitsRecentRows(t *testing.T) {
	students := make([]api.Student, 20)
	for i := range students {
		students[i] = api.Student{ID: i + 1, Name: "Student" + strings.Repeat("x", i%3)}
	}

	v := NewDashboardView(testTheme())
	v.SetData(&api.DashboardStats{Total: 20}, students)

	out := v.View()
	// Row 9 (ID 9) should not appear; only the first 8 are previewed.
	if strings.Count(out, "Student") > recentCount {
		t.Errorf("Expected at most %d preview rows", recentCount)
	}
}

func TestDashboardShowsError(t *testing.T) {
	v := NewDashboardView(testTheme())
	v.SetError("backend unreachable")
	if !strings.Contains(v.View(), "backend unreachable") {
		t.Error("Expected error message in view")
	}
}

// =============================================================================
// STUDENTS VIEW TESTS
// =============================================================================

func seededStudents(t *testing.T) *StudentsView {
	t.Helper()
	v := NewStudentsView(testTheme())
	v.SetStudents([]api.Student{
		{ID: 1, Name: "Alice", Status: api.StatusCompleted, ProgressHours: 30},
		{ID: 3, Name: "Carol", Status: api.StatusActive, ProgressHours: 12.5},
		{ID: 2, Name: "Bob", Status: api.StatusEnrolled},
	})
	return v
}

func TestStudentsSortedByIDDescending(t *testing.T) {
	v := seededStudents(t)
	if s := v.Selected(); s == nil || s.ID != 3 {
		t.Errorf("Expected newest student first, got %+v", s)
	}
}

func TestStudentsDeleteConfirmFlow(t *testing.T) {
	v := seededStudents(t)

	v.Update(keyMsg("d"))
	if !strings.Contains(v.View(), "Delete Carol?") {
		t.Errorf("Expected confirmation prompt, got %q", v.View())
	}

	// Declining returns to the list without a message.
	if cmd := v.Update(keyMsg("n")); cmd != nil {
		t.Error("Declining must not emit a delete message")
	}
	if !v.InList() {
		t.Error("Expected list mode after declining")
	}

	// Accepting emits DeleteStudentMsg for the selected id.
	v.Update(keyMsg("d"))
	cmd := v.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("Expected delete command")
	}
	msg, ok := cmd().(DeleteStudentMsg)
	if !ok || msg.ID != 3 {
		t.Errorf("Expected DeleteStudentMsg{ID: 3}, got %#v", cmd())
	}
}

func TestStudentsFormValidation(t *testing.T) {
	v := seededStudents(t)
	v.Update(keyMsg("a"))

	// One-character name is rejected.
	v.nameInput.SetValue("A")
	if cmd := v.Update(keyMsg("enter")); cmd != nil {
		t.Error("Short name must not submit")
	}
	if !strings.Contains(v.View(), "at least 2 characters") {
		t.Error("Expected name length error")
	}

	// Negative hours are rejected.
	v.nameInput.SetValue("Dana Lee")
	v.hoursInput.SetValue("-1")
	if cmd := v.Update(keyMsg("enter")); cmd != nil {
		t.Error("Negative hours must not submit")
	}

	// Non-numeric hours are rejected.
	v.hoursInput.SetValue("lots")
	if cmd := v.Update(keyMsg("enter")); cmd != nil {
		t.Error("Non-numeric hours must not submit")
	}
}

func TestStudentsCreateSubmits(t *testing.T) {
	v := seededStudents(t)
	v.Update(keyMsg("a"))

	v.nameInput.SetValue("Dana Lee")
	v.hoursInput.SetValue("2.5")
	v.notesInput.SetValue("prefers mornings")
	// Move status to active: focus status field, press right once.
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("right"))

	cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg, ok := cmd().(SubmitStudentMsg)
	if !ok {
		t.Fatalf("Expected SubmitStudentMsg, got %T", cmd())
	}
	if msg.ID != 0 {
		t.Errorf("Create must use ID 0, got %d", msg.ID)
	}
	if msg.Payload.Name != "Dana Lee" || msg.Payload.Status != api.StatusActive {
		t.Errorf("Unexpected payload: %+v", msg.Payload)
	}
	if msg.Payload.ProgressHours != 2.5 {
		t.Errorf("Unexpected hours: %v", msg.Payload.ProgressHours)
	}
	if msg.Payload.Notes == nil || *msg.Payload.Notes != "prefers mornings" {
		t.Errorf("Unexpected notes: %v", msg.Payload.Notes)
	}
}

func TestStudentsEditPrefillsAndSubmitsID(t *testing.T) {
	v := seededStudents(t)
	v.Update(keyMsg("e"))

	if v.nameInput.Value() != "Carol" {
		t.Errorf("Expected prefilled name, got %q", v.nameInput.Value())
	}

	cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg := cmd().(SubmitStudentMsg)
	if msg.ID != 3 {
		t.Errorf("Expected edit of student 3, got %d", msg.ID)
	}
	if msg.Payload.Status != api.StatusActive {
		t.Errorf("Expected status preserved, got %s", msg.Payload.Status)
	}
}

func TestStudentsEmptyNotesOmitted(t *testing.T) {
	v := seededStudents(t)
	v.Update(keyMsg("a"))
	v.nameInput.SetValue("Dana Lee")
	v.hoursInput.SetValue("")

	cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	msg := cmd().(SubmitStudentMsg)
	if msg.Payload.Notes != nil {
		t.Errorf("Blank notes must be absent, got %v", msg.Payload.Notes)
	}
	if msg.Payload.ProgressHours != 0 {
		t.Errorf("Blank hours should default to 0, got %v", msg.Payload.ProgressHours)
	}
}

func TestStudentsDetailShowsNotes(t *testing.T) {
	notes := "# Plan\nparallel parking next"
	v := NewStudentsView(testTheme())
	v.SetStudents([]api.Student{{ID: 1, Name: "Alice", Status: api.StatusActive, Notes: &notes}})

	v.Update(keyMsg("enter"))
	out := v.View()
	if !strings.Contains(out, "Alice") {
		t.Errorf("Detail missing student name: %q", out)
	}
	if !strings.Contains(out, "parking") {
		t.Errorf("Detail missing notes content: %q", out)
	}
}

func TestStudentsEmptyRosterHint(t *testing.T) {
	v := NewStudentsView(testTheme())
	v.SetStudents(nil)
	if !strings.Contains(v.View(), "No students") {
		t.Error("Expected empty-roster hint")
	}
}
