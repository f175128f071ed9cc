package bctoolbox

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/thesyncim/linphone"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// forEachProvider runs fn against the Go provider and, when libbctoolbox
// loads, the native one.
func forEachProvider(t *testing.T, fn func(t *testing.T, p linphone.Provider)) {
	t.Helper()
	for _, p := range []linphone.Provider{linphone.ProviderGo, linphone.ProviderBCToolbox} {
		t.Run(p.String(), func(t *testing.T) {
			if !p.Available() {
				t.Skipf("%s not available: %v", p, p.LoadError())
			}
			if p == linphone.ProviderBCToolbox {
				if err := loadBCToolbox(); err != nil {
					t.Skipf("bctoolbox symbols not available: %v", err)
				}
			}
			fn(t, p)
		})
	}
}
