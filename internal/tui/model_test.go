package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ehr/recordspanel/internal/dashboard"
	"github.com/ehr/recordspanel/internal/domain/record"
)

type fakeAccount struct {
	calls int
	err   error
}

func (f *fakeAccount) SignOut(context.Context) error {
	f.calls++
	return f.err
}

// failingCollection fails every call.
type failingCollection struct{}

var errDown = errors.New("backend down")

func (failingCollection) ListAll(context.Context) ([]record.Record, error)      { return nil, errDown }
func (failingCollection) Insert(context.Context, record.Draft) error            { return errDown }
func (failingCollection) Update(context.Context, record.ID, record.Draft) error { return errDown }
func (failingCollection) Delete(context.Context, record.ID) error               { return errDown }

func newTestModel(t *testing.T, seed ...record.Record) (Model, *dashboard.Store) {
	t.Helper()
	store := dashboard.NewStore(record.NewMemoryCollection(seed...), zerolog.Nop())
	m := New(Options{Store: store, Account: &fakeAccount{}, Session: "Ada (nurse)"})
	m = step(t, m, m.Init())
	return m, store
}

// step runs cmd synchronously and feeds its message back into the model.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestModel_InitialLoad(t *testing.T) {
	m, _ := newTestModel(t, record.Record{ID: "1", PatientName: "Jane Doe"})
	if len(m.view.Records) != 1 {
		t.Fatalf("expected 1 record after init, got %d", len(m.view.Records))
	}
	out := m.View()
	for _, want := range []string{"Patient Records", "Signed in as Ada (nurse)", "Jane Doe", dashboard.LabelCreate} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestModel_TypeAndSubmit(t *testing.T) {
	m, store := newTestModel(t)

	m = typeText(t, m, "Jane Doe")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "C-1")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Aspirin")

	want := record.Draft{PatientName: "Jane Doe", PatientChart: "C-1", PatientMedication: "Aspirin"}
	if got := store.Draft(); got != want {
		t.Fatalf("draft not bound: %+v", got)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if !strings.Contains(m.View(), dashboard.LabelCreating) {
		t.Error("expected the busy label while saving")
	}
	if _, again := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); again != nil {
		t.Error("submit must be disabled while saving")
	}

	m = step(t, m, cmd)
	if len(m.view.Records) != 1 || m.view.Records[0].Draft() != want {
		t.Fatalf("expected the new record, got %+v", m.view.Records)
	}
	for i := range m.inputs {
		if m.inputs[i].Value() != "" {
			t.Errorf("input %d should be cleared, got %q", i, m.inputs[i].Value())
		}
	}
}

func TestModel_EditAndCancel(t *testing.T) {
	m, store := newTestModel(t,
		record.Record{ID: "1", PatientName: "A"},
		record.Record{ID: "2", PatientName: "B", PatientChart: "C-2"},
	)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	if id, ok := store.Editing(); !ok || id != "2" {
		t.Fatalf("expected to edit 2, got %q %v", id, ok)
	}
	if m.inputs[0].Value() != "B" || m.inputs[1].Value() != "C-2" {
		t.Errorf("inputs not seeded: %q %q", m.inputs[0].Value(), m.inputs[1].Value())
	}
	if !strings.Contains(m.View(), dashboard.LabelUpdate) {
		t.Error("expected the update label")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := store.Editing(); ok {
		t.Error("esc should leave edit mode")
	}
	if m.inputs[0].Value() != "" {
		t.Error("inputs should be cleared after cancel")
	}
}

func TestModel_UpdateSelected(t *testing.T) {
	m, _ := newTestModel(t, record.Record{ID: "1", PatientName: "A"})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = typeText(t, m, "nne")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, cmd)

	if got := m.view.Records[0].PatientName; got != "Anne" {
		t.Errorf("expected Anne, got %q", got)
	}
	if m.view.Editing() {
		t.Error("edit mode should end after saving")
	}
}

func TestModel_Delete(t *testing.T) {
	m, _ := newTestModel(t, record.Record{ID: "1"}, record.Record{ID: "2"})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m = step(t, m, cmd)
	if len(m.view.Records) != 1 || m.view.Records[0].ID != "2" {
		t.Errorf("expected only 2 left, got %+v", m.view.Records)
	}
}

func TestModel_ShowsFailure(t *testing.T) {
	store := dashboard.NewStore(failingCollection{}, zerolog.Nop())
	m := New(Options{Store: store})
	m = step(t, m, m.Init())

	out := m.View()
	if !strings.Contains(out, "Could not list: backend down") {
		t.Errorf("expected the failure in the view, got:\n%s", out)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Error("expected the anonymous banner")
	}
}

func TestModel_SignOut(t *testing.T) {
	acct := &fakeAccount{}
	store := dashboard.NewStore(record.NewMemoryCollection(), zerolog.Nop())
	m := New(Options{Store: store, Account: acct, Session: "Ada"})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = step(t, m, cmd)
	if acct.calls != 1 {
		t.Fatalf("expected 1 sign out, got %d", acct.calls)
	}
	if m.session != "" || !strings.Contains(m.View(), "Signed out") {
		t.Error("expected the signed out state")
	}
}

func TestModel_FocusWraps(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != len(m.inputs)-1 {
		t.Errorf("expected focus on the last field, got %d", m.focus)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 0 {
		t.Errorf("expected focus to wrap to 0, got %d", m.focus)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_Help(t *testing.T) {
	store := dashboard.NewStore(record.NewMemoryCollection(), zerolog.Nop())
	m := New(Options{Store: store, Account: &fakeAccount{}, HelpStyle: "notty"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	out := m.View()
	for _, want := range []string{"Keys", "Sign out"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help view, got:\n%s", want, out)
		}
	}

	m = typeText(t, m, "x")
	if !store.Draft().IsZero() {
		t.Errorf("keys should not reach the form while help is open, draft = %+v", store.Draft())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !strings.Contains(m.View(), "Patient Records") {
		t.Error("expected f1 to close the help screen")
	}
}
