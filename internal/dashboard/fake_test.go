package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/ehr/recordspanel/internal/domain/record"
)

var errUnavailable = errors.New("service unavailable")

// fakeCollection wraps a MemoryCollection with call counters, injectable
// failures and optional hooks that let a test hold a call in flight.
type fakeCollection struct {
	*record.MemoryCollection

	mu        sync.Mutex
	calls     map[string]int
	failOn    map[string]error
	listHook  func(call int) ([]record.Record, error)
	writeHook func(op string)
}

func newFakeCollection(seed ...record.Record) *fakeCollection {
	return &fakeCollection{
		MemoryCollection: record.NewMemoryCollection(seed...),
		calls:            map[string]int{},
		failOn:           map[string]error{},
	}
}

func (f *fakeCollection) enter(op string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.calls[op], f.failOn[op]
}

func (f *fakeCollection) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCollection) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, op)
		return
	}
	f.failOn[op] = err
}

func (f *fakeCollection) ListAll(ctx context.Context) ([]record.Record, error) {
	n, err := f.enter("list")
	if f.listHook != nil {
		return f.listHook(n)
	}
	if err != nil {
		return nil, err
	}
	return f.MemoryCollection.ListAll(ctx)
}

func (f *fakeCollection) Insert(ctx context.Context, d record.Draft) error {
	_, err := f.enter("insert")
	if f.writeHook != nil {
		f.writeHook("insert")
	}
	if err != nil {
		return err
	}
	return f.MemoryCollection.Insert(ctx, d)
}

func (f *fakeCollection) Update(ctx context.Context, id record.ID, d record.Draft) error {
	_, err := f.enter("update")
	if f.writeHook != nil {
		f.writeHook("update")
	}
	if err != nil {
		return err
	}
	return f.MemoryCollection.Update(ctx, id, d)
}

func (f *fakeCollection) Delete(ctx context.Context, id record.ID) error {
	_, err := f.enter("delete")
	if err != nil {
		return err
	}
	return f.MemoryCollection.Delete(ctx, id)
}
