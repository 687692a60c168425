package musicbox

import (
	"sync"

	"github.com/james-see/musicbox/pkg/hal"
)

// Resource is a value shared between execution contexts. Every access runs
// under its Locker, which on the device raises the priority to the ceiling
// of all contexts that use the value.
type Resource[T any] struct {
	mu hal.Locker
	v  T
}

// NewResource guards v with mu. A nil mu uses a sync.Mutex.
func NewResource[T any](mu hal.Locker, v T) *Resource[T] {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Resource[T]{mu: mu, v: v}
}

// Lock runs fn with exclusive access to the value.
func (r *Resource[T]) Lock(fn func(T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.v)
}
