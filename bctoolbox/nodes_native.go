package bctoolbox

import (
	"errors"
	"sync"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone/internal/native"
)

var (
	bindOnce sync.Once
	bindErr  error
)

// libbctoolbox function pointers
var (
	bctbxListNew     func(data uintptr) uintptr
	bctbxListAppend  func(list, data uintptr) uintptr
	bctbxListSize    func(list uintptr) uintptr
	bctbxListNthData func(list uintptr, index int32) uintptr
	bctbxListFree    func(list uintptr) uintptr
	bctbxMalloc      func(size uintptr) uintptr
	bctbxFree        func(ptr uintptr)
)

func loadBCToolbox() error {
	bindOnce.Do(func() {
		bindErr = bindBCToolbox(native.BCToolbox)
	})
	return bindErr
}

func bindBCToolbox(lib *native.Library) error {
	return errtrace.Wrap(errors.Join(
		lib.Bind(&bctbxListNew, "bctbx_list_new"),
		lib.Bind(&bctbxListAppend, "bctbx_list_append"),
		lib.Bind(&bctbxListSize, "bctbx_list_size"),
		lib.Bind(&bctbxListNthData, "bctbx_list_nth_data"),
		lib.Bind(&bctbxListFree, "bctbx_list_free"),
		lib.Bind(&bctbxMalloc, "bctbx_malloc"),
		lib.Bind(&bctbxFree, "bctbx_free"),
	))
}

// nativeNodes owns a bctbx_list_t and the native payload buffers its
// nodes point at, index for index.
type nativeNodes struct {
	head     uintptr
	payloads []uintptr
}

// newNativeNodes copies each buffer into native memory, NUL terminated, and
// links the copies.
func newNativeNodes(bufs [][]byte) (*nativeNodes, error) {
	if err := loadBCToolbox(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	n := &nativeNodes{payloads: make([]uintptr, 0, len(bufs))}
	for _, b := range bufs {
		p := bctbxMalloc(uintptr(len(b) + 1))
		if p == 0 {
			n.free()
			return nil, errtrace.Wrap(ErrAllocation)
		}
		native.Write(p, b)
		native.Write(p+uintptr(len(b)), []byte{0})
		n.payloads = append(n.payloads, p)
	}

	n.head = bctbxListNew(n.payloads[0])
	if n.head == 0 {
		n.free()
		return nil, errtrace.Wrap(ErrAllocation)
	}
	for _, p := range n.payloads[1:] {
		n.head = bctbxListAppend(n.head, p)
	}
	return n, nil
}

func (n *nativeNodes) handle() Handle { return nativeHandle(n.head) }

func (n *nativeNodes) free() {
	if n.head != 0 {
		bctbxListFree(n.head)
		n.head = 0
	}
	for _, p := range n.payloads {
		bctbxFree(p)
	}
	n.payloads = nil
}
