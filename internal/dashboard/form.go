package dashboard

import (
	"context"

	"github.com/ehr/recordspanel/internal/domain/record"
)

// Form is the record entry form. Its three fields are bound to the store's
// draft; it never talks to the collection itself.
type Form struct {
	store *Store
}

// NewForm binds a form to s.
func NewForm(s *Store) *Form {
	return &Form{store: s}
}

// SetField writes one field of the draft by its wire name.
func (f *Form) SetField(field, value string) error {
	return f.store.updateDraft(func(d record.Draft) (record.Draft, error) {
		return d.With(field, value)
	})
}

// Fields returns the current draft.
func (f *Form) Fields() record.Draft {
	return f.store.Draft()
}

// Submit sends the draft as an update when a record is under edit and as a
// new record otherwise.
func (f *Form) Submit(ctx context.Context) error {
	id, d := f.store.pending()
	if id != "" {
		return f.store.Update(ctx, id, d)
	}
	return f.store.Create(ctx, d)
}

// Edit enters edit mode for a record of the current list.
func (f *Form) Edit(id record.ID) error {
	r, ok := f.store.Lookup(id)
	if !ok {
		return ErrRecordNotVisible
	}
	f.store.BeginEdit(r)
	return nil
}

// Cancel leaves edit mode.
func (f *Form) Cancel() {
	f.store.CancelEdit()
}

// SubmitLabel is the caption of the submit control.
func (f *Form) SubmitLabel() string {
	return f.store.Snapshot().SubmitLabel
}
