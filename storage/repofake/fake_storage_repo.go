package fakestoragerepo

import (
	"sync"

	"github.com/jrsteele09/go-warehouse-client/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

// FakeStorageRepo is an in-memory storage.Repo. Failures can be injected to
// simulate a full or disabled store.
type FakeStorageRepo struct {
	values   map[string]string
	readErr  error
	writeErr error
	writes   int
	lock     sync.RWMutex
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{
		values: make(map[string]string),
	}
}

func (r *FakeStorageRepo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.readErr != nil {
		return "", false, r.readErr
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *FakeStorageRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.writes++
	if r.writeErr != nil {
		return r.writeErr
	}
	r.values[key] = value
	return nil
}

func (r *FakeStorageRepo) Remove(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.writes++
	if r.writeErr != nil {
		return r.writeErr
	}
	delete(r.values, key)
	return nil
}

// FailWrites makes every Set and Remove return err. Pass nil to recover.
func (r *FakeStorageRepo) FailWrites(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writeErr = err
}

// FailReads makes every Get return err. Pass nil to recover.
func (r *FakeStorageRepo) FailReads(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.readErr = err
}

// Has reports whether key is stored, ignoring injected failures.
func (r *FakeStorageRepo) Has(key string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.values[key]
	return ok
}

// Value returns the stored value, ignoring injected failures.
func (r *FakeStorageRepo) Value(key string) string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.values[key]
}

// Writes counts Set and Remove calls, including failed ones.
func (r *FakeStorageRepo) Writes() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.writes
}
