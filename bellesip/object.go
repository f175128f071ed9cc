package bellesip

import (
	"braces.dev/errtrace"

	"github.com/thesyncim/linphone"
)

// field names an optional string component of a generic URI.
type field uint8

const (
	fieldScheme field = iota
	fieldUser
	fieldPassword
	fieldHost
	fieldPath
	fieldQuery
	fieldOpaque
	fieldCount
)

var fieldNames = [fieldCount]string{
	fieldScheme:   "scheme",
	fieldUser:     "user",
	fieldPassword: "password",
	fieldHost:     "host",
	fieldPath:     "path",
	fieldQuery:    "query",
	fieldOpaque:   "opaque",
}

func (f field) String() string {
	if f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// object is a provider's URI handle. Implementations are not safe for
// concurrent mutation; the copy-on-write reference guarantees a mutated
// object has a single holder.
type object interface {
	provider() linphone.Provider
	get(f field) (string, bool)
	set(f field, v string, ok bool)
	port() int32
	setPort(port int32)
	clone() (object, error)
	String() string
	// raw returns the native pointer, zero for pure Go objects.
	raw() uintptr
	release()
}

func newObject(p linphone.Provider) (object, error) {
	p, err := linphone.Resolve(p, linphone.FeatureURI)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if p == linphone.ProviderBelleSIP {
		return errtrace.Wrap2(newNativeObject())
	}
	return newGoObject(), nil
}

func parseObject(p linphone.Provider, s string) (object, error) {
	p, err := linphone.Resolve(p, linphone.FeatureURI)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if p == linphone.ProviderBelleSIP {
		return errtrace.Wrap2(parseNativeObject(s))
	}
	return errtrace.Wrap2(parseGoObject(s))
}
