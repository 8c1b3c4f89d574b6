// Package tui is the terminal version of the patient records dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ehr/recordspanel/internal/dashboard"
	"github.com/ehr/recordspanel/internal/domain/record"
)

// SessionEnder ends the signed-in session.
type SessionEnder interface {
	SignOut(ctx context.Context) error
}

// Options configures the dashboard screen.
type Options struct {
	Store   *dashboard.Store
	Account SessionEnder
	// Session is shown in the header, e.g. "Ada Lovelace (nurse)".
	Session string
	Timeout time.Duration
	Styles  *Styles
	// HelpStyle is the glamour style of the f1 help screen ("dark" when
	// empty).
	HelpStyle string
}

type op string

const (
	opRefresh op = "refresh"
	opSubmit  op = "submit"
	opDelete  op = "delete"
	opSignOut op = "sign out"
)

// resultMsg reports the outcome of a backend call started by the model.
type resultMsg struct {
	op  op
	err error
}

var placeholders = map[string]string{
	record.FieldPatientName:       "Patient Name",
	record.FieldPatientChart:      "Patient Chart",
	record.FieldPatientMedication: "Patient Medication",
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	store   *dashboard.Store
	form    *dashboard.Form
	account SessionEnder
	timeout time.Duration
	styles  Styles

	session    string
	helpStyle  string
	showHelp   bool
	inputs     []textinput.Model
	focus      int
	table      table.Model
	view       dashboard.View
	submitting bool
	err        error
	status     string
	width      int
}

func New(opts Options) Model {
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	helpStyle := opts.HelpStyle
	if helpStyle == "" {
		helpStyle = "dark"
	}

	inputs := make([]textinput.Model, len(record.Fields))
	for i, f := range record.Fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.Width = 48
		inputs[i] = ti
	}
	inputs[0].Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 10},
			{Title: "Patient Name", Width: 24},
			{Title: "Patient Chart", Width: 24},
			{Title: "Patient Medication", Width: 24},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(styles.Table),
	)

	m := Model{
		store:     opts.Store,
		form:      dashboard.NewForm(opts.Store),
		account:   opts.Account,
		timeout:   timeout,
		styles:    styles,
		session:   opts.Session,
		helpStyle: helpStyle,
		inputs:    inputs,
		table:     t,
	}
	m.sync()
	return m
}

// Init loads the list once when the screen opens.
func (m Model) Init() tea.Cmd {
	return m.run(opRefresh, m.store.ListAll)
}

func (m Model) run(o op, fn func(context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resultMsg{op: o, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case resultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleResult(msg resultMsg) Model {
	if msg.op == opSubmit {
		m.submitting = false
	}
	m.err = msg.err
	switch {
	case msg.err != nil:
		m.status = ""
	case msg.op == opSignOut:
		m.session = ""
		m.status = "Signed out"
	default:
		m.status = ""
	}
	m.sync()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "f1":
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.inputs) - 1
		}
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + step) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()

	case "up":
		m.table.MoveUp(1)
		return m, nil

	case "down":
		m.table.MoveDown(1)
		return m, nil

	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		m.err = nil
		return m, m.run(opSubmit, m.form.Submit)

	case "ctrl+e":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.err = m.form.Edit(r.ID)
		m.sync()
		return m, nil

	case "esc":
		m.form.Cancel()
		m.err = nil
		m.sync()
		return m, nil

	case "ctrl+d":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := r.ID
		return m, m.run(opDelete, func(ctx context.Context) error {
			return m.store.Delete(ctx, id)
		})

	case "ctrl+r":
		return m, m.run(opRefresh, m.store.ListAll)

	case "ctrl+o":
		if m.account == nil {
			return m, nil
		}
		return m, m.run(opSignOut, m.account.SignOut)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if err := m.form.SetField(record.Fields[m.focus], m.inputs[m.focus].Value()); err != nil {
		m.err = err
	}
	return m, cmd
}

// sync copies the store state into the widgets.
func (m *Model) sync() {
	m.view = m.store.Snapshot()
	for i, f := range record.Fields {
		if v := m.view.Draft.Get(f); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}

	rows := make([]table.Row, 0, len(m.view.Records))
	for _, r := range m.view.Records {
		rows = append(rows, table.Row{r.ID.String(), r.PatientName, r.PatientChart, r.PatientMedication})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selected() (record.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Records) {
		return record.Record{}, false
	}
	return m.view.Records[i], true
}

func (m Model) submitLabel() string {
	return dashboard.SubmitLabel(m.view.Editing(), m.view.Busy || m.submitting)
}

func (m Model) errorText() string {
	err := m.err
	if err == nil && m.view.Error != nil {
		err = m.view.Error
	}
	if err == nil {
		return ""
	}
	var f *dashboard.Failure
	if errors.As(err, &f) {
		return fmt.Sprintf("Could not %s: %v", f.Op, f.Err)
	}
	return err.Error()
}

func (m Model) View() string {
	if m.showHelp {
		return renderHelp(m.helpStyle, m.width, m.account != nil)
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Patient Records"))
	b.WriteString("\n")
	if m.session != "" {
		b.WriteString(m.styles.Banner.Render("Signed in as " + m.session))
	} else {
		b.WriteString(m.styles.Banner.Render("Not signed in"))
	}
	b.WriteString("\n\n")

	var form strings.Builder
	for i, f := range record.Fields {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.FocusedLabel
		}
		form.WriteString(label.Render(placeholders[f]))
		form.WriteString(m.inputs[i].View())
		form.WriteString("\n")
	}
	button := m.styles.Button
	if m.view.Editing() {
		button = m.styles.EditButton
	}
	if m.view.Busy || m.submitting {
		button = m.styles.Disabled
	}
	form.WriteString("\n")
	form.WriteString(button.Render(m.submitLabel()))
	if m.view.EditingID != nil {
		form.WriteString(m.styles.Help.Render(fmt.Sprintf("  editing %s, esc to cancel", *m.view.EditingID)))
	}
	b.WriteString(m.styles.Panel.Render(form.String()))
	b.WriteString("\n")

	if text := m.errorText(); text != "" {
		b.WriteString(m.styles.Error.Render("✗ " + text))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.view.Records) == 0 {
		b.WriteString(m.styles.Help.Render("No records."))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	help := []string{"tab field", "↑/↓ select", "enter save", "ctrl+e edit", "esc cancel", "ctrl+d delete", "ctrl+r refresh"}
	if m.account != nil {
		help = append(help, "ctrl+o sign out")
	}
	help = append(help, "f1 help", "ctrl+c quit")
	b.WriteString(m.styles.Help.Render(strings.Join(help, " • ")))

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}
