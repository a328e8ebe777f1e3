// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// students_cmd.go - Student roster and dashboard commands.
//
// Command: students
// Short:   Manage the student roster
// Aliases: student
//
// Subcommands:
//   list (default)      List all students
//   get <id>            Show one student
//   create              Create a student (--name required)
//   update <id>         Update a student
//   delete <id>         Delete a student (--confirm required)
//
// Command: stats
// Short:   Show dashboard statistics
// Aliases: dashboard
//
// All subcommands honor --json.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/util"
)

// =============================================================================
// STATS
// =============================================================================

// HandleStats handles the "stats" command.
func HandleStats(args Args) error {
	gw, err := openGateway(args)
	if err != nil {
		return err
	}
	defer gw.Close()

	ctx, cancel := commandContext()
	defer cancel()

	stats, err := gw.client.DashboardStats(ctx)
	if err != nil {
		return describeGatewayError(err)
	}

	if args.JSON {
		return NewJSONResponse("stats", stats).Print()
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Dashboard"))
	fmt.Printf("  %s%s\n", labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", stats.Total)))
	fmt.Printf("  %s%s\n", labelStyle.Render("Active:"), valueYellowStyle.Render(fmt.Sprintf("%d", stats.Active)))
	fmt.Printf("  %s%s\n", labelStyle.Render("Completed:"), valueGreenStyle.Render(fmt.Sprintf("%d", stats.Completed)))
	fmt.Println()
	return nil
}

// =============================================================================
// STUDENTS
// =============================================================================

// HandleStudents handles the "students" command.
func HandleStudents(args Args) error {
	parser := NewArgParser(args.Raw)

	gw, err := openGateway(args)
	if err != nil {
		return err
	}
	defer gw.Close()

	ctx, cancel := commandContext()
	defer cancel()

	switch parser.Subcommand() {
	case "", "list", "ls":
		return handleStudentsList(ctx, gw, args)

	case "get", "show":
		id, err := ParseID(parser.Positional(1), "student id")
		if err != nil {
			return err
		}
		student, err := gw.client.GetStudent(ctx, id)
		if err != nil {
			return describeGatewayError(err)
		}
		if args.JSON {
			return NewJSONResponse("students get", student).Print()
		}
		printStudentDetail(student)
		return nil

	case "create", "add":
		payload, err := studentPayloadFromFlags(parser, nil)
		if err != nil {
			return err
		}
		student, err := gw.client.CreateStudent(ctx, payload)
		if err != nil {
			return describeGatewayError(err)
		}
		if args.JSON {
			return NewJSONResponse("students create", student).Print()
		}
		if !args.Quiet {
			fmt.Printf("%s Created student %d (%s)\n", okStyle.Render("[OK]"), student.ID, student.Name)
		}
		return nil

	case "update", "edit":
		id, err := ParseID(parser.Positional(1), "student id")
		if err != nil {
			return err
		}
		current, err := gw.client.GetStudent(ctx, id)
		if err != nil {
			return describeGatewayError(err)
		}
		payload, err := studentPayloadFromFlags(parser, current)
		if err != nil {
			return err
		}
		student, err := gw.client.UpdateStudent(ctx, id, payload)
		if err != nil {
			return describeGatewayError(err)
		}
		if args.JSON {
			return NewJSONResponse("students update", student).Print()
		}
		if !args.Quiet {
			fmt.Printf("%s Updated student %d (%s)\n", okStyle.Render("[OK]"), student.ID, student.Name)
		}
		return nil

	case "delete", "rm":
		id, err := ParseID(parser.Positional(1), "student id")
		if err != nil {
			return err
		}
		if !parser.BoolFlag("confirm") {
			return fmt.Errorf("deletion is permanent; re-run with --confirm")
		}
		if err := gw.client.DeleteStudent(ctx, id); err != nil {
			return describeGatewayError(err)
		}
		if args.JSON {
			return NewJSONResponse("students delete", map[string]interface{}{"deleted": id}).Print()
		}
		if !args.Quiet {
			fmt.Printf("%s Deleted student %d\n", okStyle.Render("[OK]"), id)
		}
		return nil

	default:
		return fmt.Errorf("unknown students subcommand: %s", parser.Subcommand())
	}
}

// handleStudentsList prints the roster as a table, newest first.
func handleStudentsList(ctx context.Context, gw *gateway, args Args) error {
	students, err := gw.client.ListStudents(ctx)
	if err != nil {
		return describeGatewayError(err)
	}

	sort.Slice(students, func(i, j int) bool { return students[i].ID > students[j].ID })

	if args.JSON {
		return NewJSONResponse("students list", students).Print()
	}

	if len(students) == 0 {
		fmt.Println("No students enrolled")
		return nil
	}

	// Give the name column whatever the terminal can spare.
	nameWidth := GetTerminalWidth() - 28
	if nameWidth > 40 {
		nameWidth = 40
	}

	header := util.PadWidth("ID", 5) + "  " + util.PadWidth("Name", nameWidth) + "  " +
		util.PadWidth("Status", 10) + "  " + "Hours"
	fmt.Println(sectionStyle.Render(header))
	for _, s := range students {
		fmt.Printf("%s  %s  %s  %s\n",
			util.PadWidth(fmt.Sprintf("%d", s.ID), 5),
			util.PadWidth(util.TruncateWidth(s.Name, nameWidth), nameWidth),
			util.PadWidth(string(s.Status), 10),
			util.FormatHours(s.ProgressHours))
	}
	return nil
}

// printStudentDetail prints one student in label/value form.
func printStudentDetail(s *api.Student) {
	fmt.Println()
	fmt.Println(titleStyle.Render(s.Name))
	fmt.Printf("  %s%s\n", labelStyle.Render("ID:"), valueStyle.Render(fmt.Sprintf("%d", s.ID)))
	fmt.Printf("  %s%s\n", labelStyle.Render("Status:"), renderStatusValue(s.Status))
	fmt.Printf("  %s%s\n", labelStyle.Render("Hours:"), valueStyle.Render(util.FormatHours(s.ProgressHours)))
	if s.Notes != nil && *s.Notes != "" {
		fmt.Printf("  %s%s\n", labelStyle.Render("Notes:"), valueStyle.Render(*s.Notes))
	}
	fmt.Println()
}

// renderStatusValue colors a status like the TUI badges do.
func renderStatusValue(status api.StudentStatus) string {
	switch status {
	case api.StatusActive:
		return valueYellowStyle.Render(string(status))
	case api.StatusCompleted:
		return valueGreenStyle.Render(string(status))
	default:
		return valueStyle.Render(string(status))
	}
}

// studentPayloadFromFlags builds a payload from --name/--status/--hours/--notes.
// When current is non-nil (update), missing flags keep the current values.
func studentPayloadFromFlags(parser *ArgParser, current *api.Student) (api.StudentPayload, error) {
	var payload api.StudentPayload
	if current != nil {
		payload = api.StudentPayload{
			Name:          current.Name,
			Status:        current.Status,
			ProgressHours: current.ProgressHours,
			Notes:         current.Notes,
		}
	} else {
		payload.Status = api.StatusEnrolled
	}

	if name := strings.TrimSpace(parser.Flag("name")); name != "" {
		payload.Name = name
	}
	if payload.Name == "" {
		return payload, fmt.Errorf("--name is required")
	}

	if status := parser.Flag("status"); status != "" {
		switch api.StudentStatus(strings.ToLower(status)) {
		case api.StatusEnrolled, api.StatusActive, api.StatusCompleted:
			payload.Status = api.StudentStatus(strings.ToLower(status))
		default:
			return payload, fmt.Errorf("invalid status %q (enrolled, active, completed)", status)
		}
	}

	if parser.HasFlag("hours") {
		hours, err := parser.FlagFloat("hours")
		if err != nil {
			return payload, fmt.Errorf("invalid --hours value")
		}
		if hours < 0 {
			return payload, fmt.Errorf("--hours cannot be negative")
		}
		payload.ProgressHours = hours
	}

	if parser.HasFlag("notes") {
		notes := parser.Flag("notes")
		if notes == "" {
			payload.Notes = nil
		} else {
			payload.Notes = &notes
		}
	}

	return payload, nil
}

// describeGatewayError maps common API failures to actionable messages.
func describeGatewayError(err error) error {
	switch {
	case api.IsUnauthorized(err):
		return fmt.Errorf("not signed in; run 'drivered login' first")
	case api.IsNotFound(err):
		return fmt.Errorf("no such student")
	case api.IsTransport(err):
		return fmt.Errorf("gateway unreachable: %w", err)
	default:
		return err
	}
}
