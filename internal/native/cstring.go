package native

import "unsafe"

// GoString copies the NUL-terminated C string at ptr.
// A zero ptr yields "" and false.
func GoString(ptr uintptr) (string, bool) {
	if ptr == 0 {
		return "", false
	}
	return GoStringAt(unsafe.Pointer(ptr)), true
}

// CString returns s as a NUL-terminated byte slice.
// Keep the slice alive (runtime.KeepAlive) until the native call returns.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// Ptr returns the address of the first byte of b, zero for an empty slice.
func Ptr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// Copy copies n bytes starting at ptr into a new Go slice.
func Copy(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

// Write copies b into native memory at ptr, which must hold len(b) bytes.
func Write(ptr uintptr, b []byte) {
	if ptr == 0 || len(b) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(b)), b)
}

// GoStringAt copies the NUL-terminated string at p, "" for nil.
func GoStringAt(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	var length int
	for *(*byte)(unsafe.Add(p, length)) != 0 {
		length++
	}
	return string(unsafe.Slice((*byte)(p), length))
}
