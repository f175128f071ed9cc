// Package mediastreamer provides the RFC 3984 H.264 packetization context.
//
// A Context packs a queue of NAL units into a queue of RTP packets sharing
// one timestamp, and unpacks RTP packets back into NAL units. The payload
// formats (single NAL unit, FU-A fragments, STAP-A aggregates) are produced
// and parsed by pion/rtp's H.264 codec; the context only applies the
// packetization mode, the aggregation switch and the maximum payload size.
package mediastreamer
