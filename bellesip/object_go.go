package bellesip

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/thesyncim/linphone"
)

type optional struct {
	v  string
	ok bool
}

func present(v string) optional { return optional{v, v != ""} }

// goObject is a generic URI held in Go memory. Parsing and serialization
// are delegated to net/url.
type goObject struct {
	fields [fieldCount]optional
	portNo int32
}

func newGoObject() *goObject { return &goObject{} }

func parseGoObject(s string) (*goObject, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing scheme", ErrInvalidURI)
	}

	o := &goObject{}
	o.fields[fieldScheme] = present(u.Scheme)
	o.fields[fieldOpaque] = present(u.Opaque)
	if u.User != nil {
		o.fields[fieldUser] = optional{u.User.Username(), true}
		if pw, ok := u.User.Password(); ok {
			o.fields[fieldPassword] = optional{pw, true}
		}
	}
	o.fields[fieldHost] = present(u.Hostname())
	if ps := u.Port(); ps != "" {
		n, err := strconv.ParseInt(ps, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: port %q: %w", ErrInvalidURI, ps, err)
		}
		o.portNo = int32(n)
	}
	o.fields[fieldPath] = present(u.Path)
	o.fields[fieldQuery] = optional{u.RawQuery, u.RawQuery != "" || u.ForceQuery}
	return o, nil
}

func (o *goObject) provider() linphone.Provider { return linphone.ProviderGo }

func (o *goObject) get(f field) (string, bool) {
	v := o.fields[f]
	return v.v, v.ok
}

func (o *goObject) set(f field, v string, ok bool) {
	if !ok {
		v = ""
	}
	o.fields[f] = optional{v, ok}
}

func (o *goObject) port() int32 { return o.portNo }

func (o *goObject) setPort(port int32) { o.portNo = port }

func (o *goObject) clone() (object, error) {
	c := *o
	return &c, nil
}

func (o *goObject) raw() uintptr { return 0 }

func (o *goObject) release() { *o = goObject{} }

// empty reports whether no component is set.
func (o *goObject) empty() bool {
	for _, f := range o.fields {
		if f.ok {
			return false
		}
	}
	return o.portNo <= 0
}

func (o *goObject) String() string {
	if o.empty() {
		return ""
	}

	query := o.fields[fieldQuery]
	u := url.URL{
		Scheme:     o.fields[fieldScheme].v,
		Opaque:     o.fields[fieldOpaque].v,
		Path:       o.fields[fieldPath].v,
		RawQuery:   query.v,
		ForceQuery: query.ok && query.v == "",
	}

	user, pw := o.fields[fieldUser], o.fields[fieldPassword]
	switch {
	case pw.ok:
		u.User = url.UserPassword(user.v, pw.v)
	case user.ok:
		u.User = url.User(user.v)
	}

	if host := o.fields[fieldHost]; host.ok || o.portNo > 0 {
		h := host.v
		if strings.Contains(h, ":") {
			h = "[" + h + "]"
		}
		if o.portNo > 0 {
			h += ":" + strconv.Itoa(int(o.portNo))
		}
		u.Host = h
	}
	return u.String()
}
