package bellesip

import (
	"runtime"
	"sync/atomic"
)

// reference shares one provider object between URI values.
//
// holders counts values made by constructors and Copy. owner is the URI
// that last mutated the object; plain assignment copies the pointer but not
// the address, so any other value clones before writing.
type reference struct {
	obj     object
	holders atomic.Int32
	owner   *URI
	cleanup runtime.Cleanup
}

func newReference(obj object) *reference {
	r := &reference{obj: obj}
	r.holders.Store(1)
	r.cleanup = runtime.AddCleanup(r, func(o object) { o.release() }, obj)
	return r
}

func (r *reference) retain() *reference {
	r.holders.Add(1)
	return r
}

// drop releases one holder; the last one frees the object. Extra drops from
// aliased values are ignored.
func (r *reference) drop() {
	if r.holders.Add(-1) == 0 {
		r.cleanup.Stop()
		r.obj.release()
	}
}

func (r *reference) unique() bool { return r.holders.Load() == 1 }

// writableBy reports whether u may mutate the object in place.
func (r *reference) writableBy(u *URI) bool { return r.owner == u && r.unique() }
