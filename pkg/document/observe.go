package document

import (
	"sync"

	"github.com/google/uuid"
)

// observers is the change-notification list shared by the document models.
type observers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

// Subscribe registers fn to be called after every applied mutation and
// returns a function that removes it.
func (o *observers) Subscribe(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func())
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.fns, id)
		o.mu.Unlock()
	}
}

func (o *observers) notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.fns))
	for i := 0; i < o.nextID; i++ {
		if fn, ok := o.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// NewID returns a fresh opaque item id.
func NewID() string {
	return uuid.NewString()
}
