// drivered TUI - A terminal admin console for the DriverEdOS backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/drivered-tui/internal/api"
	"github.com/jeranaias/drivered-tui/internal/cache"
	"github.com/jeranaias/drivered-tui/internal/cli"
	"github.com/jeranaias/drivered-tui/internal/config"
	"github.com/jeranaias/drivered-tui/internal/credentials"
	"github.com/jeranaias/drivered-tui/internal/session"
	"github.com/jeranaias/drivered-tui/internal/ui/components"
	"github.com/jeranaias/drivered-tui/internal/ui/styles"
	"github.com/jeranaias/drivered-tui/internal/ui/views"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse()

	// Honor NO_COLOR and piped output for the one-shot commands.
	if cmd != cli.CmdTUI && !cli.ColorsEnabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)

	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args))

	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args))

	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))

	case cli.CmdStats:
		exitOnError(cli.HandleStats(args))

	case cli.CmdStudents:
		exitOnError(cli.HandleStudents(args))

	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))

	case cli.CmdVersion:
		cli.PrintVersion(args)

	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the interactive console.
func runTUI(args cli.Args) {
	cfg := config.Global()

	theme := styles.NewTheme(cfg.UI.Theme)

	path, err := credentials.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := credentials.OpenSQLiteStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	clientConfig := &api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.Timeout(),
	}
	if args.APIURL != "" {
		clientConfig.BaseURL = args.APIURL
	}
	client := api.NewClientWithConfig(store, clientConfig)

	m := NewModel(theme, client, store)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// ROUTES
// =============================================================================

// route is the screen the root model currently shows.
type route int

const (
	// routeResolving is shown until the stored credential has been
	// validated. No protected content renders in this state.
	routeResolving route = iota

	// routeLogin is shown when the session resolved anonymous.
	routeLogin

	// routeDashboard and routeStudents are the protected screens.
	routeDashboard
	routeStudents
)

// =============================================================================
// MESSAGES
// =============================================================================

// sessionResolvedMsg carries the result of the startup probe.
type sessionResolvedMsg struct {
	snapshot session.Snapshot
}

// loginResultMsg carries the result of a login attempt.
type loginResultMsg struct {
	snapshot session.Snapshot
	err      error
}

// healthMsg carries the gateway health probe result.
type healthMsg struct {
	online bool
}

// dashboardDataMsg carries the dashboard fetch result.
type dashboardDataMsg struct {
	stats    *api.DashboardStats
	students []api.Student
	err      error
}

// studentsDataMsg carries the roster fetch result.
type studentsDataMsg struct {
	students []api.Student
	err      error
}

// mutationDoneMsg carries the result of a create/update/delete.
type mutationDoneMsg struct {
	verb string
	err  error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root bubbletea model. It acts as the route gate: protected
// views are only reachable after the session controller has resolved the
// stored credential.
type Model struct {
	theme      *styles.Theme
	client     *api.Client
	store      credentials.Store
	controller *session.Controller
	data       *cache.Cache
	idle       *session.IdleWatcher

	route route
	width int

	login     *views.LoginView
	dashboard *views.DashboardView
	students  *views.StudentsView

	toasts    *components.ToastManager
	statusBar *components.StatusBar
}

// NewModel creates the application model.
func NewModel(theme *styles.Theme, client *api.Client, store credentials.Store) *Model {
	m := &Model{
		theme:      theme,
		client:     client,
		store:      store,
		controller: session.NewController(client, store),
		data:       cache.New(),
		idle:       session.NewIdleWatcher(session.DefaultIdleConfig()),
		route:      routeResolving,
		login:      views.NewLoginView(theme),
		dashboard:  views.NewDashboardView(theme),
		students:   views.NewStudentsView(theme),
		toasts:     components.NewToastManager(),
		statusBar:  components.NewStatusBar(theme),
	}
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init resolves the stored session and starts the background tickers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.probeCmd(),
		m.healthCmd(),
		components.ToastTickCmd(),
		session.IdleTickCmd(),
	)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.theme.SetSize(msg.Width, msg.Height)
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case sessionResolvedMsg:
		return m.handleSessionResolved(msg.snapshot)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case healthMsg:
		m.statusBar.SetHealth(msg.online)
		return m, nil

	case dashboardDataMsg:
		if msg.err != nil {
			m.dashboard.SetError(msg.err.Error())
			return m.reconcileAfterError()
		}
		m.dashboard.SetData(msg.stats, msg.students)
		return m, nil

	case studentsDataMsg:
		if msg.err != nil {
			m.students.SetError(msg.err.Error())
			return m.reconcileAfterError()
		}
		m.students.SetStudents(msg.students)
		return m, nil

	case views.SubmitLoginMsg:
		busyCmd := m.login.SetBusy(true)
		return m, tea.Batch(busyCmd, m.loginCmd(msg.Username, msg.Password))

	case views.SubmitStudentMsg:
		return m, m.saveStudentCmd(msg)

	case views.DeleteStudentMsg:
		return m, m.deleteStudentCmd(msg.ID)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case session.IdleTickMsg:
		// Idle logout only matters while signed in.
		if m.route == routeDashboard || m.route == routeStudents {
			return m, m.idle.HandleTick()
		}
		return m, session.IdleTickCmd()

	case session.IdleWarningMsg:
		m.toasts.AddStatus("Signing out in " + session.FormatDuration(msg.Remaining) + " unless you keep working")
		return m, nil

	case session.IdleExpiredMsg:
		return m.signOut("Signed out after inactivity")
	}

	// Everything else (spinner frames, cursor blinks) goes to the views.
	return m, m.updateActiveView(msg)
}

// handleKeyPress routes keys. Any key counts as activity for the idle
// watcher.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.idle.RecordActivity()

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.route {
	case routeResolving:
		return m, nil

	case routeLogin:
		return m, m.login.Update(msg)

	case routeDashboard, routeStudents:
		// Global shortcuts apply only when no form or prompt is open.
		if m.route == routeDashboard || m.students.InList() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "ctrl+l":
				return m.signOut("Signed out")
			case "tab":
				return m.switchRoute()
			case "1":
				return m.gotoDashboard()
			case "2":
				return m.gotoStudents()
			case "r":
				return m.refreshCurrent()
			}
		}
		return m, m.updateActiveView(msg)
	}

	return m, nil
}

// updateActiveView forwards a message to the visible view.
func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	switch m.route {
	case routeLogin:
		return m.login.Update(msg)
	case routeDashboard:
		return m.dashboard.Update(msg)
	case routeStudents:
		return m.students.Update(msg)
	default:
		return nil
	}
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

// handleSessionResolved is the gate decision: login for anonymous,
// dashboard for authenticated.
func (m *Model) handleSessionResolved(snapshot session.Snapshot) (tea.Model, tea.Cmd) {
	if snapshot.State == session.StateAuthenticated && snapshot.Identity != nil {
		return m.enterProtected(snapshot)
	}
	m.route = routeLogin
	m.login.Reset()
	m.statusBar.SetUser("", "")
	return m, nil
}

func (m *Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.login.SetBusy(false)
		m.login.SetError(loginFailureReason(msg.err))
		return m, nil
	}
	if msg.snapshot.State != session.StateAuthenticated || msg.snapshot.Identity == nil {
		// A concurrent logout won the race; stay on the login form.
		m.login.SetBusy(false)
		return m, nil
	}
	m.login.Reset()
	m.toasts.AddSuccess("Signed in as " + msg.snapshot.Identity.Username)
	return m.enterProtected(msg.snapshot)
}

// enterProtected switches to the dashboard and kicks off the data loads.
func (m *Model) enterProtected(snapshot session.Snapshot) (tea.Model, tea.Cmd) {
	m.route = routeDashboard
	m.statusBar.SetUser(snapshot.Identity.Username, string(snapshot.Identity.Role))
	m.statusBar.SetShortcuts(protectedShortcuts())
	m.idle.RecordActivity()
	m.dashboard.SetLoading(true)
	return m, tea.Batch(m.dashboard.Spinner().Start(), m.loadDashboardCmd(), m.healthCmd())
}

// signOut clears the session and returns to the login form.
func (m *Model) signOut(note string) (tea.Model, tea.Cmd) {
	m.controller.Logout()
	m.data.Clear()
	m.route = routeLogin
	m.login.Reset()
	m.statusBar.SetUser("", "")
	if note != "" {
		m.toasts.AddStatus(note)
	}
	return m, nil
}

// reconcileAfterError checks whether a failed fetch took the session down
// with it (a 401 clears the credential via the client callback).
func (m *Model) reconcileAfterError() (tea.Model, tea.Cmd) {
	if snapshot := m.controller.Snapshot(); snapshot.State == session.StateAnonymous {
		return m.signOut("Session expired, sign in again")
	}
	return m, nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

func (m *Model) switchRoute() (tea.Model, tea.Cmd) {
	if m.route == routeDashboard {
		return m.gotoStudents()
	}
	return m.gotoDashboard()
}

func (m *Model) gotoDashboard() (tea.Model, tea.Cmd) {
	m.route = routeDashboard
	m.dashboard.SetLoading(true)
	return m, tea.Batch(m.dashboard.Spinner().Start(), m.loadDashboardCmd())
}

func (m *Model) gotoStudents() (tea.Model, tea.Cmd) {
	m.route = routeStudents
	m.students.SetLoading(true)
	return m, tea.Batch(m.students.Spinner().Start(), m.loadStudentsCmd())
}

// refreshCurrent drops the cached data behind the visible screen and
// refetches it.
func (m *Model) refreshCurrent() (tea.Model, tea.Cmd) {
	m.data.Invalidate(cache.KeyStudents, cache.KeyStats)
	if m.route == routeStudents {
		return m.gotoStudents()
	}
	return m.gotoDashboard()
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toasts.AddError("Could not " + msg.verb + " student: " + failureReason(msg.err))
		return m.reconcileAfterError()
	}
	m.toasts.AddSuccess("Student " + msg.verb + "d")
	// The mutation invalidated the roster and stats; reload whichever
	// screen is visible.
	return m.refreshCurrent()
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionResolvedMsg{snapshot: m.controller.Probe(context.Background())}
	}
}

func (m *Model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.Health(context.Background())
		return healthMsg{online: err == nil}
	}
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := m.controller.Login(context.Background(), username, password)
		return loginResultMsg{snapshot: snapshot, err: err}
	}
}

func (m *Model) loadDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := cache.Fetch(ctx, m.data, cache.KeyStats, func(ctx context.Context) (*api.DashboardStats, error) {
			return m.client.DashboardStats(ctx)
		})
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		students, err := cache.Fetch(ctx, m.data, cache.KeyStudents, func(ctx context.Context) ([]api.Student, error) {
			return m.client.ListStudents(ctx)
		})
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		return dashboardDataMsg{stats: stats, students: students}
	}
}

func (m *Model) loadStudentsCmd() tea.Cmd {
	return func() tea.Msg {
		students, err := cache.Fetch(context.Background(), m.data, cache.KeyStudents, func(ctx context.Context) ([]api.Student, error) {
			return m.client.ListStudents(ctx)
		})
		return studentsDataMsg{students: students, err: err}
	}
}

func (m *Model) saveStudentCmd(msg views.SubmitStudentMsg) tea.Cmd {
	return func() tea.Msg {
		verb := "create"
		op := func(ctx context.Context) error {
			_, err := m.client.CreateStudent(ctx, msg.Payload)
			return err
		}
		if msg.ID != 0 {
			verb = "update"
			op = func(ctx context.Context) error {
				_, err := m.client.UpdateStudent(ctx, msg.ID, msg.Payload)
				return err
			}
		}
		err := m.data.Mutate(context.Background(), op, cache.KeyStudents, cache.KeyStats)
		return mutationDoneMsg{verb: verb, err: err}
	}
}

func (m *Model) deleteStudentCmd(id int) tea.Cmd {
	return func() tea.Msg {
		err := m.data.Mutate(context.Background(), func(ctx context.Context) error {
			return m.client.DeleteStudent(ctx, id)
		}, cache.KeyStudents, cache.KeyStats)
		return mutationDoneMsg{verb: "delete", err: err}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the visible route. The resolving screen is deliberately
// bare: nothing protected may render before the session is resolved.
func (m *Model) View() string {
	var content string

	switch m.route {
	case routeResolving:
		content = m.theme.Muted.Render("Checking session…")

	case routeLogin:
		content = m.login.View()

	case routeDashboard:
		content = m.dashboard.View()

	case routeStudents:
		content = m.students.View()
	}

	if m.route == routeDashboard || m.route == routeStudents {
		content = m.theme.Container.Render(content) + "\n" + m.statusBar.View()
	}

	if m.toasts.HasToasts() && m.width > 0 {
		content = components.OverlayToasts(m.theme, content, m.toasts.Active(), m.width)
	}
	return content
}

// protectedShortcuts is the status bar hint line for signed-in screens.
func protectedShortcuts() []components.Shortcut {
	return []components.Shortcut{
		{Key: "tab", Desc: "switch view"},
		{Key: "r", Desc: "refresh"},
		{Key: "ctrl+l", Desc: "sign out"},
		{Key: "q", Desc: "quit"},
	}
}

// loginFailureReason maps a login error to the message shown on the form.
func loginFailureReason(err error) string {
	if api.IsUnauthorized(err) {
		return "Incorrect username or password"
	}
	return failureReason(err)
}

// failureReason extracts the backend-provided message when there is one.
func failureReason(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
