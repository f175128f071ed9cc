package bellesip

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone"
	"github.com/thesyncim/linphone/internal/native"
)

var (
	bindOnce sync.Once
	bindErr  error
)

// libbellesip function pointers
var (
	belleGenericURINew     func() uintptr
	belleGenericURIParse   func(uri uintptr) uintptr
	belleGenericURIGetPort func(uri uintptr) int32
	belleGenericURISetPort func(uri uintptr, port int32)

	belleSIPObjectRef      func(obj uintptr) uintptr
	belleSIPObjectUnref    func(obj uintptr)
	belleSIPObjectClone    func(obj uintptr) uintptr
	belleSIPObjectToString func(obj uintptr) uintptr
	belleSIPFree           func(ptr uintptr)

	belleGenericURIGet [fieldCount]func(uri uintptr) uintptr
	belleGenericURISet [fieldCount]func(uri uintptr, value uintptr)
)

// Accessor symbol suffixes, indexed by field.
var accessorSymbols = [fieldCount]string{
	fieldScheme:   "scheme",
	fieldUser:     "user",
	fieldPassword: "user_password",
	fieldHost:     "host",
	fieldPath:     "path",
	fieldQuery:    "query",
	fieldOpaque:   "opaque_part",
}

func loadBelleSIP() error {
	bindOnce.Do(func() {
		bindErr = bindBelleSIP(native.BelleSIP)
	})
	return bindErr
}

type binding struct {
	fptr any
	name string
}

// belleSIPBindings lists every libbellesip function this package calls.
func belleSIPBindings() []binding {
	bindings := []binding{
		{&belleGenericURINew, "belle_generic_uri_new"},
		{&belleGenericURIParse, "belle_generic_uri_parse"},
		{&belleGenericURIGetPort, "belle_generic_uri_get_port"},
		{&belleGenericURISetPort, "belle_generic_uri_set_port"},
		{&belleSIPObjectRef, "belle_sip_object_ref"},
		{&belleSIPObjectUnref, "belle_sip_object_unref"},
		{&belleSIPObjectClone, "belle_sip_object_clone"},
		{&belleSIPObjectToString, "belle_sip_object_to_string"},
		{&belleSIPFree, "belle_sip_free"},
	}
	for f := field(0); f < fieldCount; f++ {
		bindings = append(bindings,
			binding{&belleGenericURIGet[f], "belle_generic_uri_get_" + accessorSymbols[f]},
			binding{&belleGenericURISet[f], "belle_generic_uri_set_" + accessorSymbols[f]},
		)
	}
	return bindings
}

func bindBelleSIP(lib *native.Library) error {
	var errs []error
	for _, b := range belleSIPBindings() {
		if err := lib.Bind(b.fptr, b.name); err != nil {
			errs = append(errs, err)
		}
	}
	return errtrace.Wrap(errors.Join(errs...))
}

// nativeObject owns one reference on a belle_generic_uri_t.
type nativeObject struct {
	ptr uintptr
}

func adoptNative(ptr uintptr) *nativeObject {
	belleSIPObjectRef(ptr)
	return &nativeObject{ptr: ptr}
}

func newNativeObject() (*nativeObject, error) {
	if err := loadBelleSIP(); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("belle-sip not available: %w", err))
	}
	ptr := belleGenericURINew()
	if ptr == 0 {
		return nil, errtrace.Wrap(ErrAllocation)
	}
	return adoptNative(ptr), nil
}

func parseNativeObject(s string) (*nativeObject, error) {
	if err := loadBelleSIP(); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("belle-sip not available: %w", err))
	}
	cs := native.CString(s)
	ptr := belleGenericURIParse(native.Ptr(cs))
	runtime.KeepAlive(cs)
	if ptr == 0 {
		return nil, errtrace.Wrap(ErrInvalidURI)
	}
	return adoptNative(ptr), nil
}

func (o *nativeObject) provider() linphone.Provider { return linphone.ProviderBelleSIP }

func (o *nativeObject) get(f field) (string, bool) {
	if o.ptr == 0 {
		return "", false
	}
	return native.GoString(belleGenericURIGet[f](o.ptr))
}

func (o *nativeObject) set(f field, v string, ok bool) {
	if o.ptr == 0 {
		return
	}
	if !ok {
		belleGenericURISet[f](o.ptr, 0)
		return
	}
	cs := native.CString(v)
	belleGenericURISet[f](o.ptr, native.Ptr(cs))
	runtime.KeepAlive(cs)
}

func (o *nativeObject) port() int32 {
	if o.ptr == 0 {
		return 0
	}
	return belleGenericURIGetPort(o.ptr)
}

func (o *nativeObject) setPort(port int32) {
	if o.ptr != 0 {
		belleGenericURISetPort(o.ptr, port)
	}
}

func (o *nativeObject) clone() (object, error) {
	if o.ptr == 0 {
		return errtrace.Wrap2(newNativeObject())
	}
	ptr := belleSIPObjectClone(o.ptr)
	if ptr == 0 {
		return nil, errtrace.Wrap(ErrAllocation)
	}
	return adoptNative(ptr), nil
}

func (o *nativeObject) raw() uintptr { return o.ptr }

func (o *nativeObject) release() {
	if o.ptr != 0 {
		belleSIPObjectUnref(o.ptr)
		o.ptr = 0
	}
}

func (o *nativeObject) String() string {
	if o.ptr == 0 {
		return ""
	}
	cs := belleSIPObjectToString(o.ptr)
	if cs == 0 {
		return ""
	}
	s, _ := native.GoString(cs)
	belleSIPFree(cs)
	return s
}
