// Package bellesip provides the generic URI value used across the
// Belledonne libraries.
//
// A URI parses a string into a provider object (libbellesip when it can be
// loaded, net/url otherwise) and exposes its components through accessors.
// Values share their object until one of them is mutated:
//
//	a := bellesip.MustParseURI("http://example.com/index")
//	b := a.Copy()
//	b.SetHost("example.org") // b now owns a clone; a is unchanged
//
// Plain assignment aliases the same value; use Copy for an independent one.
package bellesip
