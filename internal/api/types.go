// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// IDENTITY TYPES
// =============================================================================

// Role is the staff role tag carried in the user profile.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

// Identity is the authenticated user profile returned by /api/auth/me.
// It is an immutable snapshot: the session layer replaces it wholesale on
// each successful validation, never merges it.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// LoginResponse is the token issued by /api/auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// =============================================================================
// STUDENT TYPES
// =============================================================================

// StudentStatus is the lifecycle state of a roster record.
type StudentStatus string

const (
	StatusEnrolled  StudentStatus = "enrolled"
	StatusActive    StudentStatus = "active"
	StatusCompleted StudentStatus = "completed"
)

// Student is a roster record. The id is server-assigned; the client never
// invents one.
type Student struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Status        StudentStatus `json:"status"`
	ProgressHours float64       `json:"progress_hours"`
	Notes         *string       `json:"notes,omitempty"`
}

// StudentPayload is the mutable subset of a student record sent on create
// and update calls. The id is deliberately absent.
type StudentPayload struct {
	Name          string        `json:"name"`
	Status        StudentStatus `json:"status"`
	ProgressHours float64       `json:"progress_hours"`
	Notes         *string       `json:"notes"`
}

// =============================================================================
// DASHBOARD TYPES
// =============================================================================

// DashboardStats are the aggregate roster counts shown on the dashboard.
type DashboardStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// HealthResponse is the backend liveness probe result.
type HealthResponse struct {
	Status string `json:"status"`
}

// errorBody is the backend's error payload convention: a "detail" field
// carries the human-readable message.
type errorBody struct {
	Detail string `json:"detail"`
}
