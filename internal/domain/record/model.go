package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is the server-assigned identifier of a patient record. The panel never
// interprets it; backends may hand out UUIDs or integer keys.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers so that tables
// keyed by bigint and by uuid decode to the same type.
func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Record maps to one row of the patient_records table.
type Record struct {
	ID                ID     `json:"id" yaml:"id"`
	PatientName       string `json:"patientName" yaml:"patientName"`
	PatientChart      string `json:"patientChart" yaml:"patientChart"`
	PatientMedication string `json:"patientMedication" yaml:"patientMedication"`
}

// Draft returns the editable attributes of the record.
func (r Record) Draft() Draft {
	return Draft{
		PatientName:       r.PatientName,
		PatientChart:      r.PatientChart,
		PatientMedication: r.PatientMedication,
	}
}

// Draft is the editable part of a record. It is both the insert payload and
// the update payload sent to the collection.
type Draft struct {
	PatientName       string `json:"patientName" yaml:"patientName"`
	PatientChart      string `json:"patientChart" yaml:"patientChart"`
	PatientMedication string `json:"patientMedication" yaml:"patientMedication"`
}

// IsZero reports whether every field of the draft is empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Field names used by forms binding to a Draft.
const (
	FieldPatientName       = "patientName"
	FieldPatientChart      = "patientChart"
	FieldPatientMedication = "patientMedication"
)

// Fields lists the draft fields in display order.
var Fields = []string{FieldPatientName, FieldPatientChart, FieldPatientMedication}

// With returns a copy of the draft with the named field set to value.
func (d Draft) With(field, value string) (Draft, error) {
	switch field {
	case FieldPatientName:
		d.PatientName = value
	case FieldPatientChart:
		d.PatientChart = value
	case FieldPatientMedication:
		d.PatientMedication = value
	default:
		return d, fmt.Errorf("unknown field %q", field)
	}
	return d, nil
}

// Get returns the value of the named field, or "" for an unknown name.
func (d Draft) Get(field string) string {
	switch field {
	case FieldPatientName:
		return d.PatientName
	case FieldPatientChart:
		return d.PatientChart
	case FieldPatientMedication:
		return d.PatientMedication
	}
	return ""
}
