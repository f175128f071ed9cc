package bellesip

import (
	"errors"
	"fmt"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone"
)

var (
	// ErrInvalidURI is returned when the provider's parser rejects a string.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrAllocation is returned when the native library cannot allocate an object.
	ErrAllocation = errors.New("could not allocate URI")
	// ErrNotNative is returned when a raw pointer is requested from a pure Go URI.
	ErrNotNative = errors.New("URI is not backed by a native object")
)

// URI is a generic URI (scheme, user, password, host, port, path, query).
//
// The zero value is an empty URI; it allocates an object on first mutation.
// Getters use value receivers, setters pointer receivers. A URI copied by
// assignment clones its object on first mutation, so writes through the copy
// never reach the original. A variable keeps writing in place once it owns
// its object; copy it with Copy, not assignment, if both sides will change.
type URI struct {
	ref *reference
}

// NewURI returns an empty URI from the default provider.
// It panics if the provider cannot allocate an object.
func NewURI() URI {
	u, err := NewURIWith(linphone.ProviderAuto)
	if err != nil {
		panic(fmt.Sprintf("bellesip: could not allocate instance: %v", err))
	}
	return u
}

// NewURIWith returns an empty URI from provider p.
func NewURIWith(p linphone.Provider) (URI, error) {
	obj, err := newObject(p)
	if err != nil {
		return URI{}, errtrace.Wrap(err)
	}
	return URI{ref: newReference(obj)}, nil
}

// ParseURI parses s with the default provider.
func ParseURI(s string) (URI, error) {
	return errtrace.Wrap2(ParseURIWith(linphone.ProviderAuto, s))
}

// ParseURIWith parses s with provider p.
// Errors wrap ErrInvalidURI when the string is rejected.
func ParseURIWith(p linphone.Provider, s string) (URI, error) {
	obj, err := parseObject(p, s)
	if err != nil {
		return URI{}, errtrace.Wrap(fmt.Errorf("parse %q: %w", s, err))
	}
	return URI{ref: newReference(obj)}, nil
}

// MustParseURI is like ParseURI but panics on error.
func MustParseURI(s string) URI {
	u, err := ParseURI(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) getString(f field) (string, bool) {
	if u.ref == nil {
		return "", false
	}
	return u.ref.obj.get(f)
}

// mutating returns an object owned by u alone. The object is cloned unless
// u already owns it and no Copy shares it.
func (u *URI) mutating() object {
	if u.ref == nil {
		obj, err := newObject(linphone.ProviderAuto)
		if err != nil {
			panic(fmt.Sprintf("bellesip: could not allocate instance: %v", err))
		}
		u.ref = newReference(obj)
		u.ref.owner = u
		return obj
	}
	if !u.ref.writableBy(u) {
		obj, err := u.ref.obj.clone()
		if err != nil {
			panic(fmt.Sprintf("bellesip: could not clone instance: %v", err))
		}
		prev := u.ref
		u.ref = newReference(obj)
		u.ref.owner = u
		// Only the owner is known to hold a counted reference; objects left
		// behind by aliases are freed by the cleanup once unreachable.
		if prev.owner == u {
			prev.drop()
		}
	}
	return u.ref.obj
}

func (u *URI) setString(f field, v string, ok bool) { u.mutating().set(f, v, ok) }

// RawValue returns the serialized URI.
func (u URI) RawValue() string {
	if u.ref == nil {
		return ""
	}
	return u.ref.obj.String()
}

// String implements fmt.Stringer.
func (u URI) String() string { return u.RawValue() }

// Scheme returns the scheme, e.g. "sip" or "http".
func (u URI) Scheme() (string, bool) { return u.getString(fieldScheme) }

// SetScheme sets the scheme.
func (u *URI) SetScheme(v string) { u.setString(fieldScheme, v, true) }

// ClearScheme removes the scheme.
func (u *URI) ClearScheme() { u.setString(fieldScheme, "", false) }

// User returns the user part of the userinfo.
func (u URI) User() (string, bool) { return u.getString(fieldUser) }

// SetUser sets the user part of the userinfo.
func (u *URI) SetUser(v string) { u.setString(fieldUser, v, true) }

// ClearUser removes the user.
func (u *URI) ClearUser() { u.setString(fieldUser, "", false) }

// Password returns the password part of the userinfo.
func (u URI) Password() (string, bool) { return u.getString(fieldPassword) }

// SetPassword sets the password part of the userinfo.
func (u *URI) SetPassword(v string) { u.setString(fieldPassword, v, true) }

// ClearPassword removes the password.
func (u *URI) ClearPassword() { u.setString(fieldPassword, "", false) }

// Host returns the host without brackets or port.
func (u URI) Host() (string, bool) { return u.getString(fieldHost) }

// SetHost sets the host.
func (u *URI) SetHost(v string) { u.setString(fieldHost, v, true) }

// ClearHost removes the host.
func (u *URI) ClearHost() { u.setString(fieldHost, "", false) }

// Path returns the unescaped path.
func (u URI) Path() (string, bool) { return u.getString(fieldPath) }

// SetPath sets the path.
func (u *URI) SetPath(v string) { u.setString(fieldPath, v, true) }

// ClearPath removes the path.
func (u *URI) ClearPath() { u.setString(fieldPath, "", false) }

// Query returns the raw query without the leading '?'.
func (u URI) Query() (string, bool) { return u.getString(fieldQuery) }

// SetQuery sets the raw query.
func (u *URI) SetQuery(v string) { u.setString(fieldQuery, v, true) }

// ClearQuery removes the query.
func (u *URI) ClearQuery() { u.setString(fieldQuery, "", false) }

// Opaque returns the opaque part of a non-hierarchical URI such as mailto:.
func (u URI) Opaque() (string, bool) { return u.getString(fieldOpaque) }

// SetOpaque sets the opaque part.
func (u *URI) SetOpaque(v string) { u.setString(fieldOpaque, v, true) }

// ClearOpaque removes the opaque part.
func (u *URI) ClearOpaque() { u.setString(fieldOpaque, "", false) }

// Port returns the port, zero when unset.
func (u URI) Port() int32 {
	if u.ref == nil {
		return 0
	}
	return u.ref.obj.port()
}

// SetPort sets the port. Zero or negative ports are not serialized.
func (u *URI) SetPort(port int32) { u.mutating().setPort(port) }

// Equal reports whether both URIs serialize to the same string.
func (u URI) Equal(v URI) bool { return u.RawValue() == v.RawValue() }

// IsZero reports whether u has no object yet.
func (u URI) IsZero() bool { return u.ref == nil }

// Provider returns the provider backing u, ProviderAuto for the zero value.
func (u URI) Provider() linphone.Provider {
	if u.ref == nil {
		return linphone.ProviderAuto
	}
	return u.ref.obj.provider()
}

// Copy returns a value sharing u's object until either side mutates.
func (u URI) Copy() URI {
	if u.ref == nil {
		return URI{}
	}
	return URI{ref: u.ref.retain()}
}

// Release drops u's hold on its object and resets u to the zero value.
// The object is freed when the last holder releases it, or when it becomes
// unreachable. Releasing both a value and its assigned alias frees the object
// once; the alias reads as empty afterwards.
func (u *URI) Release() {
	if u.ref != nil {
		u.ref.drop()
		u.ref = nil
	}
}

// WithRawPointer calls fn with the belle_generic_uri_t pointer for read-only
// access. The pointer is valid only for the duration of fn.
func (u URI) WithRawPointer(fn func(ptr uintptr) error) error {
	if u.ref == nil || u.ref.obj.raw() == 0 {
		return errtrace.Wrap(ErrNotNative)
	}
	return errtrace.Wrap(fn(u.ref.obj.raw()))
}

// WithMutableRawPointer makes u unique, then calls fn with its native pointer.
func (u *URI) WithMutableRawPointer(fn func(ptr uintptr) error) error {
	if u.ref == nil || u.ref.obj.raw() == 0 {
		return errtrace.Wrap(ErrNotNative)
	}
	return errtrace.Wrap(fn(u.mutating().raw()))
}

// MarshalText implements encoding.TextMarshaler.
func (u URI) MarshalText() ([]byte, error) { return []byte(u.RawValue()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URI) UnmarshalText(text []byte) error {
	v, err := ParseURI(string(text))
	if err != nil {
		return errtrace.Wrap(err)
	}
	u.Release()
	*u = v
	return nil
}

// LogValue implements slog.LogValuer.
func (u URI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uri", u.RawValue()),
		slog.String("provider", u.Provider().String()),
	)
}
