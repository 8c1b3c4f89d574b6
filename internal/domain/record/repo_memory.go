package record

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryCollection is an in-process Collection used by the "memory" backend
// and by tests. Rows keep insertion order.
type MemoryCollection struct {
	mu   sync.Mutex
	rows []Record
}

// NewMemoryCollection returns a collection pre-populated with seed rows.
func NewMemoryCollection(seed ...Record) *MemoryCollection {
	m := &MemoryCollection{}
	for _, r := range seed {
		if r.ID == "" {
			r.ID = ID(uuid.NewString())
		}
		m.rows = append(m.rows, r)
	}
	return m
}

func (m *MemoryCollection) ListAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *MemoryCollection) Insert(ctx context.Context, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, Record{
		ID:                ID(uuid.NewString()),
		PatientName:       d.PatientName,
		PatientChart:      d.PatientChart,
		PatientMedication: d.PatientMedication,
	})
	return nil
}

func (m *MemoryCollection) Update(ctx context.Context, id ID, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].PatientName = d.PatientName
			m.rows[i].PatientChart = d.PatientChart
			m.rows[i].PatientMedication = d.PatientMedication
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryCollection) Delete(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
