// Package linphone provides Go bindings for the Belledonne communication
// libraries used by Linphone, loaded at runtime without cgo.
//
// The bindings are split by native library:
//   - bellesip: generic URI values backed by belle-sip
//   - bctoolbox: linked lists backed by bctoolbox
//   - mediastreamer: the RFC 3984 H.264 packetization context
//
// # Architecture
//
//	Value (URI, List) -> copy-on-write reference -> provider object -> native handle
//	Context.Pack: NAL queue -> payloader -> RTP payload queue
//
// # Native Libraries
//
// Native providers dlopen libbellesip and libbctoolbox through purego.
// Set LINPHONE_SDK_LIB_PATH to the directory containing these libraries,
// or BELLESIP_LIB_PATH / BCTOOLBOX_LIB_PATH to exact library paths.
// When a library is missing the auto provider falls back to the Go provider:
// net/url for generic URIs, Go nodes for lists and pion/rtp for H.264
// payloading. LINPHONE_PROVIDER=go|native|auto overrides the automatic choice.
//
// # Providers
//
// Provider reports which implementations exist, their license and features,
// and whether each one can be loaded at runtime.
package linphone
