package record

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk format accepted by `records-panel import`.
//
//	records:
//	  - patientName: Jane Doe
//	    patientChart: C-102
//	    patientMedication: Metformin
type SeedFile struct {
	Records []Draft `yaml:"records"`
}

// LoadDrafts decodes a seed file. Empty entries are skipped.
func LoadDrafts(r io.Reader) ([]Draft, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	drafts := make([]Draft, 0, len(f.Records))
	for _, d := range f.Records {
		if d.IsZero() {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
