package bctoolbox

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/thesyncim/linphone"
)

func TestFromStrings_Order(t *testing.T) {
	forEachProvider(t, func(t *testing.T, p linphone.Provider) {
		l, err := FromStringsWith(p, []string{"a", "b", "c"})
		if err != nil {
			t.Fatalf("FromStringsWith failed: %v", err)
		}
		defer l.Close()

		if l.IsEmpty() {
			t.Fatal("list is empty")
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, l.Strings()); diff != "" {
			t.Errorf("Strings() mismatch (-want +got):\n%s", diff)
		}
		if l.Len() != 3 {
			t.Errorf("Len() = %d, want 3", l.Len())
		}
		if l.Provider() != p {
			t.Errorf("Provider() = %s, want %s", l.Provider(), p)
		}
	})
}

func TestFromData(t *testing.T) {
	in := [][]byte{{1, 2, 3}, {}, []byte("text")}
	forEachProvider(t, func(t *testing.T, p linphone.Provider) {
		l, err := FromDataWith(p, in)
		if err != nil {
			t.Fatalf("FromDataWith failed: %v", err)
		}
		defer l.Close()

		if diff := cmp.Diff(in, l.Data()); diff != "" {
			t.Errorf("Data() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFromData_NodesTerminated(t *testing.T) {
	in := make([][]byte, 64)
	want := make([]string, len(in))
	for i := range in {
		in[i] = bytes.Repeat([]byte{'A' + byte(i%26)}, 16)
		want[i] = string(in[i])
	}
	in = append(in, []byte{})
	want = append(want, "")

	forEachProvider(t, func(t *testing.T, p linphone.Provider) {
		l, err := FromDataWith(p, in)
		if err != nil {
			t.Fatal(err)
		}
		defer l.Close()

		var got []string
		err = l.WithRawPointer(func(h Handle) error {
			var err error
			got, err = StringsFrom(h)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("StringsFrom mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(in, l.Data()); diff != "" {
			t.Errorf("Data() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFromData_CopiesInput(t *testing.T) {
	in := [][]byte{[]byte("abc")}
	l, err := FromDataWith(linphone.ProviderGo, in)
	if err != nil {
		t.Fatal(err)
	}
	in[0][0] = 'z'
	if got := l.Strings()[0]; got != "abc" {
		t.Errorf("Strings()[0] = %q after mutating input, want abc", got)
	}
}

func TestEmpty(t *testing.T) {
	for name, l := range map[string]List{
		"zero":    {},
		"strings": FromStrings(nil),
		"data":    FromData([][]byte{}),
	} {
		t.Run(name, func(t *testing.T) {
			if !l.IsEmpty() {
				t.Error("IsEmpty() = false")
			}
			if l.ref != nil {
				t.Error("empty list allocated a structure")
			}
			if len(l.Strings()) != 0 || len(l.Data()) != 0 {
				t.Error("empty list returned values")
			}
			err := l.WithRawPointer(func(h Handle) error {
				if h != nil {
					t.Errorf("handle = %v, want nil", h)
				}
				return nil
			})
			if err != nil {
				t.Errorf("WithRawPointer error: %v", err)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a, _ := FromStringsWith(linphone.ProviderGo, []string{"x", "y"})
	b, _ := FromStringsWith(linphone.ProviderGo, []string{"x", "y"})
	c, _ := FromStringsWith(linphone.ProviderGo, []string{"y", "x"})

	if !a.Equal(b) {
		t.Error("lists with equal content are not equal")
	}
	if a.Equal(c) {
		t.Error("lists with different order are equal")
	}
	if !(List{}).Equal(FromStrings(nil)) {
		t.Error("empty lists are not equal")
	}
	if a.Equal(List{}) {
		t.Error("non-empty list equals empty list")
	}
}

func TestString(t *testing.T) {
	l, _ := FromStringsWith(linphone.ProviderGo, []string{"a", "b", "c"})
	if got := l.String(); got != "[a b c]" {
		t.Errorf("String() = %q, want [a b c]", got)
	}
}

func TestWithRawPointer_StringsFrom(t *testing.T) {
	forEachProvider(t, func(t *testing.T, p linphone.Provider) {
		want := []string{"alpha", "", "gamma"}
		l, err := FromStringsWith(p, want)
		if err != nil {
			t.Fatal(err)
		}
		defer l.Close()

		var got []string
		err = l.WithRawPointer(func(h Handle) error {
			if h.Size() != len(want) {
				t.Errorf("Size() = %d, want %d", h.Size(), len(want))
			}
			var err error
			got, err = StringsFrom(h)
			return err
		})
		if err != nil {
			t.Fatalf("WithRawPointer error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("StringsFrom mismatch (-want +got):\n%s", diff)
		}
	})
}

// holeyHandle reports more nodes than it has payloads for.
type holeyHandle struct{ data []string }

func (h holeyHandle) Size() int { return len(h.data) + 1 }

func (h holeyHandle) NthData(i int) unsafe.Pointer {
	if i >= len(h.data) {
		return nil
	}
	b := append([]byte(h.data[i]), 0)
	return unsafe.Pointer(&b[0])
}

func TestStringsFrom_MissingData(t *testing.T) {
	_, err := StringsFrom(holeyHandle{data: []string{"a"}})
	if !errors.Is(err, ErrMissingData) {
		t.Fatalf("StringsFrom error = %v, want ErrMissingData", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustStringsFrom did not panic")
		}
	}()
	MustStringsFrom(holeyHandle{})
}

func TestStringsFrom_Nil(t *testing.T) {
	got, err := StringsFrom(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("StringsFrom(nil) = %v, %v", got, err)
	}
}

func TestClose(t *testing.T) {
	forEachProvider(t, func(t *testing.T, p linphone.Provider) {
		l, err := FromStringsWith(p, []string{"a"})
		if err != nil {
			t.Fatal(err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("Close error: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("second Close error: %v", err)
		}
		if err := l.WithRawPointer(func(Handle) error { return nil }); !errors.Is(err, ErrClosed) {
			t.Errorf("WithRawPointer after Close = %v, want ErrClosed", err)
		}
		if got := l.Strings(); len(got) != 1 || got[0] != "a" {
			t.Errorf("Strings() after Close = %v", got)
		}
	})
}

func TestNativeHandle_Unavailable(t *testing.T) {
	if linphone.ProviderBCToolbox.Available() {
		t.Skip("bctoolbox is installed")
	}
	if _, err := NativeHandle(0); err == nil {
		t.Error("NativeHandle succeeded without libbctoolbox")
	}
}
