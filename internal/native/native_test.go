package native

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unsafe"
)

func TestCStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "sip:alice@example.com"} {
		cs := CString(s)
		if cs[len(cs)-1] != 0 {
			t.Fatalf("CString(%q) not NUL-terminated", s)
		}
		got, ok := GoString(Ptr(cs))
		runtime.KeepAlive(cs)
		if !ok || got != s {
			t.Errorf("GoString(CString(%q)) = %q, %v", s, got, ok)
		}
	}
}

func TestGoStringNil(t *testing.T) {
	if s, ok := GoString(0); ok || s != "" {
		t.Errorf("GoString(0) = %q, %v; want \"\", false", s, ok)
	}
	if s := GoStringAt(nil); s != "" {
		t.Errorf("GoStringAt(nil) = %q", s)
	}
}

func TestCopyWrite(t *testing.T) {
	dst := make([]byte, 4)
	Write(Ptr(dst), []byte{1, 2, 3, 4})
	got := Copy(uintptr(unsafe.Pointer(&dst[0])), 4)
	runtime.KeepAlive(dst)
	if string(got) != "\x01\x02\x03\x04" {
		t.Errorf("Copy = %v", got)
	}
	if Copy(0, 4) != nil {
		t.Error("Copy(0) returned data")
	}
}

func TestSearchPaths_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_LIB_PATH", "/exact/libtest.so")
	t.Setenv(SDKPathEnv, dir)

	lib := &Library{Name: "test", PathEnv: "TEST_LIB_PATH", Versions: []string{"1"}}
	paths := lib.SearchPaths()

	if paths[0] != "/exact/libtest.so" {
		t.Errorf("first path = %q, want exact env path", paths[0])
	}
	if !strings.HasPrefix(paths[1], dir) {
		t.Errorf("second path = %q, want under %s", paths[1], dir)
	}
	if runtime.GOOS == "linux" && paths[1] != filepath.Join(dir, "libtest.so") {
		t.Errorf("second path = %q, want libtest.so", paths[1])
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv(SDKPathEnv, t.TempDir())
	lib := &Library{Name: "linphone-does-not-exist"}
	err := lib.Load()
	if err == nil {
		t.Fatal("Load succeeded for a missing library")
	}
	if lib.Handle() != 0 {
		t.Error("Handle() non-zero after failed load")
	}
	if err2 := lib.Load(); err2 != err {
		t.Errorf("second Load = %v, want cached %v", err2, err)
	}
	var fn func()
	if err := lib.Bind(&fn, "anything"); err == nil {
		t.Error("Bind succeeded on an unloaded library")
	}
}
