package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ehr/recordspanel/internal/domain/record"
)

// Op names the remote operation a Failure belongs to.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var (
	// ErrBusy is returned when a create or update is requested while another
	// one is still in flight.
	ErrBusy = errors.New("a save is already in progress")
	// ErrNotEditing is returned by Update when no record id is given.
	ErrNotEditing = errors.New("no record is being edited")
	// ErrRecordNotVisible is returned by Form.Edit for ids missing from the
	// current list.
	ErrRecordNotVisible = errors.New("record is not in the current list")
)

// Failure is a remote call that did not succeed.
type Failure struct {
	Op       Op
	RecordID record.ID
	Err      error
	At       time.Time
}

func (f *Failure) Error() string {
	if f.RecordID != "" {
		return fmt.Sprintf("%s record %s: %v", f.Op, f.RecordID, f.Err)
	}
	return fmt.Sprintf("%s records: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// MarshalJSON renders the failure the way the view exposes it.
func (f *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op       Op        `json:"op"`
		RecordID record.ID `json:"record_id,omitempty"`
		Message  string    `json:"message"`
		At       time.Time `json:"at"`
	}{f.Op, f.RecordID, f.Err.Error(), f.At})
}

// IsFailure reports whether err is (or wraps) a remote Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}
