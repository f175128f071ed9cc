package bctoolbox

import (
	"errors"
	"fmt"
	"unsafe"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone/internal/native"
)

// ErrMissingData is returned when a list node within the reported size has
// no payload.
var ErrMissingData = errors.New("no data for linked list node")

// Handle is a borrowed, read-only view of a list structure.
type Handle interface {
	// Size returns the number of nodes.
	Size() int
	// NthData returns the payload of node i, nil if the node has none.
	NthData(i int) unsafe.Pointer
}

// nativeHandle is a bctbx_list_t pointer.
type nativeHandle uintptr

// NativeHandle wraps a caller-held bctbx_list_t pointer.
// libbctoolbox must be loadable; the pointer is not freed by this package.
func NativeHandle(ptr uintptr) (Handle, error) {
	if err := loadBCToolbox(); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("bctoolbox not available: %w", err))
	}
	return nativeHandle(ptr), nil
}

func (h nativeHandle) Size() int {
	if h == 0 {
		return 0
	}
	return int(bctbxListSize(uintptr(h)))
}

func (h nativeHandle) NthData(i int) unsafe.Pointer {
	if h == 0 {
		return nil
	}
	return unsafe.Pointer(bctbxListNthData(uintptr(h), int32(i)))
}

// StringsFrom extracts the NUL-terminated string payloads of h in order.
// A nil handle is an empty list. A node without payload yields an error
// wrapping ErrMissingData.
func StringsFrom(h Handle) ([]string, error) {
	if h == nil {
		return nil, nil
	}
	count := h.Size()
	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		p := h.NthData(i)
		if p == nil {
			return nil, errtrace.Wrap(fmt.Errorf("index %d of %d: %w", i, count, ErrMissingData))
		}
		values = append(values, native.GoStringAt(p))
	}
	return values, nil
}

// MustStringsFrom is like StringsFrom but panics on a missing payload.
// Use it only for handles of lists built by this package.
func MustStringsFrom(h Handle) []string {
	values, err := StringsFrom(h)
	if err != nil {
		panic(fmt.Sprintf("bctoolbox: %v", err))
	}
	return values
}
