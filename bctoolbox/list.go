package bctoolbox

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone"
)

var (
	// ErrAllocation is returned when native list or payload memory cannot be allocated.
	ErrAllocation = errors.New("could not allocate linked list")
	// ErrClosed is returned when the raw pointer of a closed list is requested.
	ErrClosed = errors.New("linked list closed")
)

// List is an immutable linked list of byte buffers.
//
// The zero value and lists built from no buffers are empty: they have no
// underlying list structure at all.
type List struct {
	ref *listRef
}

// payload is one retained buffer. Strings carry their NUL terminator in buf;
// data buffers have one just past len(buf), within cap.
type payload struct {
	buf []byte
	str bool
}

// listRef pairs a list structure with the payloads its nodes point at.
type listRef struct {
	provider linphone.Provider
	payloads []payload
	nodes    Handle
	native   *nativeNodes
	closed   atomic.Bool
	cleanup  runtime.Cleanup
}

// FromData builds a list from copies of data, in order.
// It panics if the provider cannot allocate the list.
func FromData(data [][]byte) List {
	l, err := FromDataWith(linphone.ProviderAuto, data)
	if err != nil {
		panic(fmt.Sprintf("bctoolbox: could not create list: %v", err))
	}
	return l
}

// FromDataWith builds a list from copies of data using provider p.
func FromDataWith(p linphone.Provider, data [][]byte) (List, error) {
	payloads := make([]payload, len(data))
	for i, d := range data {
		buf := make([]byte, len(d)+1)
		copy(buf, d)
		payloads[i] = payload{buf: buf[:len(d)]}
	}
	return errtrace.Wrap2(build(p, payloads))
}

// FromStrings builds a list of NUL-terminated copies of s, in order.
// It panics if the provider cannot allocate the list.
func FromStrings(s []string) List {
	l, err := FromStringsWith(linphone.ProviderAuto, s)
	if err != nil {
		panic(fmt.Sprintf("bctoolbox: could not create list: %v", err))
	}
	return l
}

// FromStringsWith builds a list of NUL-terminated copies of s using provider p.
func FromStringsWith(p linphone.Provider, s []string) (List, error) {
	payloads := make([]payload, len(s))
	for i, v := range s {
		buf := make([]byte, len(v)+1)
		copy(buf, v)
		payloads[i] = payload{buf: buf, str: true}
	}
	return errtrace.Wrap2(build(p, payloads))
}

func build(p linphone.Provider, payloads []payload) (List, error) {
	if len(payloads) == 0 {
		return List{}, nil
	}

	p, err := linphone.Resolve(p, linphone.FeatureList)
	if err != nil {
		return List{}, errtrace.Wrap(err)
	}

	ref := &listRef{provider: p, payloads: payloads}
	if p == linphone.ProviderBCToolbox {
		bufs := make([][]byte, len(payloads))
		for i := range payloads {
			bufs[i] = payloads[i].buf
		}
		n, err := newNativeNodes(bufs)
		if err != nil {
			return List{}, errtrace.Wrap(err)
		}
		ref.native = n
		ref.nodes = n.handle()
		ref.cleanup = runtime.AddCleanup(ref, (*nativeNodes).free, n)
		return List{ref: ref}, nil
	}

	data := make([]unsafe.Pointer, len(payloads))
	for i := range payloads {
		data[i] = unsafe.Pointer(unsafe.SliceData(payloads[i].buf))
	}
	ref.nodes = newGoList(data)
	return List{ref: ref}, nil
}

// IsEmpty reports whether the list has no underlying structure.
func (l List) IsEmpty() bool { return l.ref == nil }

// Len returns the number of buffers.
func (l List) Len() int {
	if l.ref == nil {
		return 0
	}
	return len(l.ref.payloads)
}

// Provider returns the provider holding the list, ProviderAuto when empty.
func (l List) Provider() linphone.Provider {
	if l.ref == nil {
		return linphone.ProviderAuto
	}
	return l.ref.provider
}

// Strings returns each buffer read as a C string, in order.
func (l List) Strings() []string {
	if l.ref == nil {
		return []string{}
	}
	out := make([]string, len(l.ref.payloads))
	for i, p := range l.ref.payloads {
		buf := p.buf
		if n := bytes.IndexByte(buf, 0); n >= 0 {
			buf = buf[:n]
		}
		out[i] = string(buf)
	}
	return out
}

// Data returns copies of the buffers, in order. String payloads include
// their NUL terminator.
func (l List) Data() [][]byte {
	if l.ref == nil {
		return [][]byte{}
	}
	out := make([][]byte, len(l.ref.payloads))
	for i, p := range l.ref.payloads {
		out[i] = bytes.Clone(p.buf)
		if out[i] == nil {
			out[i] = []byte{}
		}
	}
	return out
}

// Equal reports whether both lists hold equal buffers in the same order.
func (l List) Equal(o List) bool {
	if l.Len() != o.Len() {
		return false
	}
	if l.ref == nil || o.ref == nil {
		return true
	}
	for i := range l.ref.payloads {
		if !bytes.Equal(l.ref.payloads[i].buf, o.ref.payloads[i].buf) {
			return false
		}
	}
	return true
}

// String formats the list as its strings, e.g. "[a b c]".
func (l List) String() string { return fmt.Sprint(l.Strings()) }

// WithRawPointer calls fn with the list structure for read-only access.
// Empty lists pass a nil Handle. The handle is valid only during fn.
func (l List) WithRawPointer(fn func(h Handle) error) error {
	if l.ref == nil {
		return errtrace.Wrap(fn(nil))
	}
	if l.ref.closed.Load() {
		return errtrace.Wrap(ErrClosed)
	}
	err := fn(l.ref.nodes)
	runtime.KeepAlive(l.ref)
	return errtrace.Wrap(err)
}

// Close frees the native list and its payloads. Strings and Data keep
// working; WithRawPointer returns ErrClosed.
func (l List) Close() error {
	if l.ref == nil || !l.ref.closed.CompareAndSwap(false, true) {
		return nil
	}
	if l.ref.native != nil {
		l.ref.cleanup.Stop()
		l.ref.native.free()
	}
	return nil
}
