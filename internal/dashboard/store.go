// Package dashboard holds the state of the patient-records panel: the list
// mirrored from the remote collection, the single working draft, the record
// under edit and the in-flight save flag.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/recordspanel/internal/domain/record"
)

// Submit control labels.
const (
	LabelCreate   = "Add Record"
	LabelCreating = "Saving..."
	LabelUpdate   = "Update Record"
	LabelUpdating = "Updating..."
)

// View is a consistent snapshot of the store.
type View struct {
	Records     []record.Record `json:"records"`
	Draft       record.Draft    `json:"draft"`
	EditingID   *record.ID      `json:"editing_id"`
	Busy        bool            `json:"busy"`
	SubmitLabel string          `json:"submit_label"`
	Error       *Failure        `json:"error"`
}

// Editing reports whether the view is in edit mode.
func (v View) Editing() bool { return v.EditingID != nil }

// Store mirrors the remote collection. It is safe for concurrent use; remote
// calls are made without holding the lock.
type Store struct {
	coll   record.Collection
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	records []record.Record
	draft   record.Draft
	editing record.ID
	busy    bool
	lastErr *Failure
	issued  uint64
	applied uint64
}

// NewStore creates a store over the given collection. The list starts empty
// until the first ListAll.
func NewStore(coll record.Collection, logger zerolog.Logger) *Store {
	return &Store{
		coll:    coll,
		logger:  logger.With().Str("component", "dashboard").Logger(),
		now:     time.Now,
		records: []record.Record{},
	}
}

// ListAll fetches the whole collection and replaces the list with it. A
// response is applied only when no later-issued fetch has been applied
// already; stale responses are dropped.
func (s *Store) ListAll(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	rows, err := s.coll.ListAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		s.logger.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Bool("failed", err != nil).
			Msg("discarding stale list response")
		if err != nil {
			return &Failure{Op: OpList, Err: err, At: s.now()}
		}
		return nil
	}
	if err != nil {
		return s.failLocked(OpList, "", err)
	}
	if rows == nil {
		rows = []record.Record{}
	}
	s.records = rows
	s.applied = seq
	s.lastErr = nil
	return nil
}

// Create inserts d and re-fetches the list. The draft is cleared only on
// success. While the insert is in flight further creates and updates fail
// with ErrBusy.
func (s *Store) Create(ctx context.Context, d record.Draft) error {
	if err := s.acquire(); err != nil {
		return err
	}
	err := s.coll.Insert(ctx, d)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		f := s.failLocked(OpCreate, "", err)
		s.mu.Unlock()
		return f
	}
	s.draft = record.Draft{}
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info().Msg("record created")
	return s.ListAll(ctx)
}

// Update overwrites all three attributes of record id with d, leaves edit
// mode and re-fetches the list. On failure edit mode stays active.
func (s *Store) Update(ctx context.Context, id record.ID, d record.Draft) error {
	if id == "" {
		return ErrNotEditing
	}
	if err := s.acquire(); err != nil {
		return err
	}
	err := s.coll.Update(ctx, id, d)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		f := s.failLocked(OpUpdate, id, err)
		s.mu.Unlock()
		return f
	}
	s.editing = ""
	s.draft = record.Draft{}
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info().Str("record_id", id.String()).Msg("record updated")
	return s.ListAll(ctx)
}

// Delete removes record id and re-fetches the list. It is not gated by the
// busy flag.
func (s *Store) Delete(ctx context.Context, id record.ID) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		s.mu.Lock()
		f := s.failLocked(OpDelete, id, err)
		s.mu.Unlock()
		return f
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info().Str("record_id", id.String()).Msg("record deleted")
	return s.ListAll(ctx)
}

// BeginEdit enters edit mode for r and seeds the draft from it, replacing
// any unsaved input.
func (s *Store) BeginEdit(r record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = r.ID
	s.draft = r.Draft()
}

// CancelEdit returns to create mode with an empty draft.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = ""
	s.draft = record.Draft{}
}

// SetDraft replaces the working draft.
func (s *Store) SetDraft(d record.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

func (s *Store) updateDraft(fn func(record.Draft) (record.Draft, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := fn(s.draft)
	if err != nil {
		return err
	}
	s.draft = d
	return nil
}

// Draft returns the working draft.
func (s *Store) Draft() record.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Editing returns the id under edit, if any.
func (s *Store) Editing() (record.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.editing != ""
}

// Busy reports whether a create or update is in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Records returns a copy of the visible list.
func (s *Store) Records() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]record.Record(nil), s.records...)
}

// Lookup finds id in the visible list.
func (s *Store) Lookup(id record.ID) (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// LastError returns the most recent failure not yet cleared by a success.
func (s *Store) LastError() *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Snapshot returns the whole state at once.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Records: append([]record.Record{}, s.records...),
		Draft:   s.draft,
		Busy:    s.busy,
		Error:   s.lastErr,
	}
	if s.editing != "" {
		id := s.editing
		v.EditingID = &id
	}
	v.SubmitLabel = SubmitLabel(s.editing != "", s.busy)
	return v
}

// SubmitLabel is the caption of the submit control for the given mode.
func SubmitLabel(editing, busy bool) string {
	switch {
	case editing && busy:
		return LabelUpdating
	case editing:
		return LabelUpdate
	case busy:
		return LabelCreating
	default:
		return LabelCreate
	}
}

// pending returns what a submit would send.
func (s *Store) pending() (record.ID, record.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing, s.draft
}

func (s *Store) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Store) failLocked(op Op, id record.ID, err error) *Failure {
	f := &Failure{Op: op, RecordID: id, Err: err, At: s.now()}
	s.lastErr = f
	ev := s.logger.Error().Err(err).Str("op", string(op))
	if id != "" {
		ev = ev.Str("record_id", id.String())
	}
	ev.Msg("remote call failed")
	return f
}
