package linphone

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"braces.dev/errtrace"

	"github.com/thesyncim/linphone/internal/native"
)

// Provider identifies a binding implementation.
type Provider uint8

const (
	ProviderAuto      Provider = iota // Let library choose best available
	ProviderBelleSIP                  // libbellesip generic URIs
	ProviderBCToolbox                 // libbctoolbox lists
	ProviderGo                        // Pure Go (net/url, pion/rtp)
	providerCount
)

// ProviderEnv selects the default provider: "go", "native" or "auto".
const ProviderEnv = "LINPHONE_PROVIDER"

var (
	// ErrProviderUnavailable is returned when a provider cannot be loaded at runtime.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnsupportedFeature is returned when a provider lacks a requested feature.
	ErrUnsupportedFeature = errors.New("feature not supported by provider")
)

// License represents the software license of a provider.
type License uint8

const (
	LicenseGPL License = iota // Copyleft - requires source disclosure
	LicenseBSD                // Permissive - no copyleft obligations
)

// Permissive returns true if the license has no copyleft obligations.
func (l License) Permissive() bool { return l == LicenseBSD }

func (l License) String() string {
	switch l {
	case LicenseGPL:
		return "GPL"
	case LicenseBSD:
		return "BSD"
	default:
		return "unknown"
	}
}

// Features is a bitmask of provider capabilities.
type Features uint32

const (
	FeatureURI    Features = 1 << iota // Generic URI parse/serialize
	FeatureList                        // Linked lists of buffers
	FeaturePack                        // H.264 NAL to RTP payloads, checked by mediastreamer.NewContextWith
	FeatureUnpack                      // RTP payloads to H.264 NAL, checked by mediastreamer.NewContextWith
)

// Has returns true if all specified features are supported.
func (f Features) Has(feature Features) bool { return f&feature == feature }

func (f Features) String() string {
	var names []string
	for _, n := range []struct {
		f    Features
		name string
	}{
		{FeatureURI, "uri"},
		{FeatureList, "list"},
		{FeaturePack, "pack"},
		{FeatureUnpack, "unpack"},
	} {
		if f.Has(n.f) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// providerMeta contains static metadata about a provider.
type providerMeta struct {
	Name     string
	License  License
	Native   bool
	Features Features
}

// Static metadata table - indexed by Provider.
var providerInfo = [providerCount]providerMeta{
	ProviderAuto:      {"auto", LicenseBSD, false, 0},
	ProviderBelleSIP:  {"belle-sip", LicenseGPL, true, FeatureURI},
	ProviderBCToolbox: {"bctoolbox", LicenseGPL, true, FeatureList},
	ProviderGo:        {"go", LicenseBSD, false, FeatureURI | FeatureList | FeaturePack | FeatureUnpack},
}

// Native libraries backing each provider, nil for pure Go ones.
var providerLibs = [providerCount]*native.Library{
	ProviderBelleSIP:  native.BelleSIP,
	ProviderBCToolbox: native.BCToolbox,
}

// Providers returns every concrete provider in preference order.
func Providers() []Provider {
	return []Provider{ProviderBelleSIP, ProviderBCToolbox, ProviderGo}
}

// String returns the provider name.
func (p Provider) String() string {
	if p >= providerCount {
		return "unknown"
	}
	return providerInfo[p].Name
}

// License returns the provider's license type.
func (p Provider) License() License {
	if p >= providerCount {
		return LicenseGPL
	}
	return providerInfo[p].License
}

// Features returns the provider's feature bitmask.
func (p Provider) Features() Features {
	if p >= providerCount {
		return 0
	}
	return providerInfo[p].Features
}

// Native returns true if the provider binds a native library.
func (p Provider) Native() bool {
	if p >= providerCount {
		return false
	}
	return providerInfo[p].Native
}

// Available returns true if the provider is usable at runtime.
// Native providers attempt to load their library on first call.
func (p Provider) Available() bool {
	if p >= providerCount || p == ProviderAuto {
		return false
	}
	if lib := providerLibs[p]; lib != nil {
		return lib.Load() == nil
	}
	return true
}

// LoadError returns the reason a native provider is unavailable, or nil.
func (p Provider) LoadError() error {
	if p >= providerCount {
		return errtrace.Wrap(fmt.Errorf("provider %d: %w", p, ErrProviderUnavailable))
	}
	if lib := providerLibs[p]; lib != nil {
		return errtrace.Wrap(lib.Load())
	}
	return nil
}

// ParseProvider maps a provider name to a Provider.
// "native" maps to ProviderAuto; set LINPHONE_PROVIDER=native to require a
// native library.
func ParseProvider(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "auto", "native":
		return ProviderAuto, nil
	}
	for p := ProviderAuto; p < providerCount; p++ {
		if providerInfo[p].Name == name {
			return p, nil
		}
	}
	return ProviderAuto, errtrace.Wrap(fmt.Errorf("unknown provider %q", name))
}

// Resolve picks a concrete provider offering feature.
//
// An explicit provider is returned as is if it supports feature and is
// available. ProviderAuto honors LINPHONE_PROVIDER and otherwise prefers
// native providers, falling back to ProviderGo.
func Resolve(p Provider, feature Features) (Provider, error) {
	if p != ProviderAuto {
		if !p.Features().Has(feature) {
			return p, errtrace.Wrap(fmt.Errorf("%s does not provide %s: %w", p, feature, ErrUnsupportedFeature))
		}
		if err := p.LoadError(); err != nil {
			return p, errtrace.Wrap(fmt.Errorf("%s: %w: %w", p, ErrProviderUnavailable, err))
		}
		return p, nil
	}

	mode := strings.ToLower(os.Getenv(ProviderEnv))
	if mode == "go" {
		return ProviderGo, nil
	}

	var lastErr error
	for _, cand := range Providers() {
		if !cand.Native() || !cand.Features().Has(feature) {
			continue
		}
		if err := cand.LoadError(); err != nil {
			lastErr = err
			continue
		}
		return cand, nil
	}
	if mode == "native" {
		if lastErr == nil {
			lastErr = ErrUnsupportedFeature
		}
		return ProviderAuto, errtrace.Wrap(fmt.Errorf("no native provider for %s: %w: %w", feature, ErrProviderUnavailable, lastErr))
	}
	return ProviderGo, nil
}
