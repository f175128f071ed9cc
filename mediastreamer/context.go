package mediastreamer

import (
	"errors"
	"fmt"
	"log/slog"

	"braces.dev/errtrace"
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"

	"github.com/thesyncim/linphone"
	"github.com/thesyncim/linphone/internal/log"
)

// Packetization modes (RFC 3984 section 6).
const (
	ModeSingleNAL      uint8 = 0
	ModeNonInterleaved uint8 = 1
)

// DefaultMaxSize is the default maximum RTP payload size.
const DefaultMaxSize = 1440

// DefaultPayloadType is the dynamic payload type used until SetPayloadType.
const DefaultPayloadType = 96

const (
	clockRate  = 90000
	minMaxSize = 3 // FU indicator, FU header and one byte
	maxMaxSize = 65535
)

var (
	// ErrUnsupportedMode is returned by Pack for modes other than 0 and 1.
	ErrUnsupportedMode = errors.New("unsupported packetization mode")
	// ErrInvalidMaxSize is returned by Pack when the maximum size cannot hold a payload.
	ErrInvalidMaxSize = errors.New("invalid maximum payload size")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("context closed")
)

// Context packs H.264 NAL units into RTP packets and back, per RFC 3984.
// A Context is not safe for concurrent use; use one per stream.
type Context struct {
	mode        uint8
	stapA       bool
	maxSize     int
	payloadType uint8
	ssrc        uint32
	sequencer   rtp.Sequencer

	provider linphone.Provider
	unpacker *codecs.H264Packet

	// Unpack state: NAL units of the access unit being received.
	pending   [][]byte
	pendingTS uint32
	receiving bool

	logger *slog.Logger
	closed bool
}

// NewContext returns a context in single NAL unit mode with STAP-A disabled
// and DefaultMaxSize.
func NewContext() *Context {
	c, _ := NewContextWith(linphone.ProviderGo)
	return c
}

// NewContextWith returns a context backed by provider p, which must offer
// both packing and unpacking.
func NewContextWith(p linphone.Provider) (*Context, error) {
	p, err := linphone.Resolve(p, linphone.FeaturePack|linphone.FeatureUnpack)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Context{
		maxSize:     DefaultMaxSize,
		payloadType: DefaultPayloadType,
		sequencer:   rtp.NewRandomSequencer(),
		provider:    p,
		unpacker:    &codecs.H264Packet{},
		logger:      log.Noop,
	}, nil
}

// Provider returns the provider doing the packetization.
func (c *Context) Provider() linphone.Provider { return c.provider }

// Close releases the context state. Pack and Unpack fail afterwards.
func (c *Context) Close() error {
	c.closed = true
	c.unpacker = nil
	c.pending = nil
	return nil
}

// Mode returns the packetization mode.
func (c *Context) Mode() uint8 { return c.mode }

// SetMode sets the packetization mode. Pack rejects modes other than
// ModeSingleNAL and ModeNonInterleaved.
func (c *Context) SetMode(mode uint8) { c.mode = mode }

// STAPAEnabled reports whether parameter sets are aggregated into STAP-A
// packets in non-interleaved mode.
func (c *Context) STAPAEnabled() bool { return c.stapA }

// SetSTAPAEnabled enables or disables STAP-A aggregation.
func (c *Context) SetSTAPAEnabled(enabled bool) { c.stapA = enabled }

// MaxSize returns the maximum RTP payload size in bytes.
func (c *Context) MaxSize() int { return c.maxSize }

// SetMaxSize sets the maximum RTP payload size in bytes.
func (c *Context) SetMaxSize(size int) { c.maxSize = size }

// PayloadType returns the RTP payload type stamped on packed packets.
func (c *Context) PayloadType() uint8 { return c.payloadType }

// SetPayloadType sets the RTP payload type.
func (c *Context) SetPayloadType(pt uint8) { c.payloadType = pt }

// SSRC returns the RTP SSRC stamped on packed packets.
func (c *Context) SSRC() uint32 { return c.ssrc }

// SetSSRC sets the RTP SSRC.
func (c *Context) SetSSRC(ssrc uint32) { c.ssrc = ssrc }

// SetLogger sets the logger receiving packing warnings. Nil restores the
// no-op logger.
func (c *Context) SetLogger(l *slog.Logger) {
	if l == nil {
		l = log.Noop
	}
	c.logger = l
}

func (c *Context) check() error {
	if c.closed {
		return ErrClosed
	}
	if c.mode != ModeSingleNAL && c.mode != ModeNonInterleaved {
		return fmt.Errorf("mode %d: %w", c.mode, ErrUnsupportedMode)
	}
	if c.maxSize < minMaxSize || c.maxSize > maxMaxSize {
		return fmt.Errorf("%d bytes: %w", c.maxSize, ErrInvalidMaxSize)
	}
	return nil
}

// Pack drains naluq and appends RTP packets to rtpq. Every packet carries
// timestamp ts; the last one has the marker bit set.
//
// In single NAL unit mode each NAL unit becomes one packet; units larger than
// MaxSize are sent anyway with a warning. In non-interleaved mode large units
// are split into FU-A fragments. With STAP-A enabled an SPS/PPS pair is
// aggregated into one STAP-A packet ahead of the next NAL unit of the access
// unit, and sent as single NAL units when none follows. Access unit
// delimiters and filler data are dropped in that mode.
func (c *Context) Pack(naluq *Queue[[]byte], rtpq *Queue[*rtp.Packet], ts uint32) error {
	if err := c.check(); err != nil {
		return errtrace.Wrap(err)
	}

	var payloads [][]byte
	switch c.mode {
	case ModeSingleNAL:
		payloads = c.packSingleNAL(naluq.Drain())
	case ModeNonInterleaved:
		payloads = c.packNonInterleaved(naluq.Drain())
	}

	for i, p := range payloads {
		rtpq.Put(&rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == len(payloads)-1,
				PayloadType:    c.payloadType,
				SequenceNumber: c.sequencer.NextSequenceNumber(),
				Timestamp:      ts,
				SSRC:           c.ssrc,
			},
			Payload: p,
		})
	}

	c.logger.Debug("packed access unit",
		slog.Uint64("ts", uint64(ts)),
		slog.Int("packets", len(payloads)),
		slog.Any("bytes", log.CalcValue(func() any {
			n := 0
			for _, p := range payloads {
				n += len(p)
			}
			return n
		})),
	)
	return nil
}

func (c *Context) packSingleNAL(nalus [][]byte) [][]byte {
	payloads := make([][]byte, 0, len(nalus))
	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		if len(nalu) > c.maxSize {
			c.logger.Warn("NAL unit does not fit into max size in single NAL unit mode",
				slog.Int("size", len(nalu)),
				slog.Int("max_size", c.maxSize),
				slog.Int("nal_type", int(NALType(nalu))),
			)
		}
		payloads = append(payloads, nalu)
	}
	return payloads
}

// packNonInterleaved uses payloaders local to one call; parameter sets never
// reach another access unit.
func (c *Context) packNonInterleaved(nalus [][]byte) [][]byte {
	mtu := uint16(c.maxSize)
	single := &codecs.H264Payloader{DisableStapA: true}

	var (
		payloads [][]byte
		sps, pps []byte
	)
	flush := func() {
		for _, n := range [][]byte{sps, pps} {
			if n != nil {
				payloads = append(payloads, single.Payload(mtu, n)...)
			}
		}
		sps, pps = nil, nil
	}

	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		if !c.stapA {
			payloads = append(payloads, single.Payload(mtu, nalu)...)
			continue
		}

		switch NALType(nalu) {
		case NALTypeSPS:
			if sps != nil {
				flush()
			}
			sps = nalu
		case NALTypePPS:
			if pps != nil {
				flush()
			}
			pps = nalu
		case NALTypeAUD, NALTypeFiller:
		default:
			if sps != nil && pps != nil && stapASize(sps, pps) <= c.maxSize {
				agg := &codecs.H264Payloader{}
				agg.Payload(mtu, sps)
				agg.Payload(mtu, pps)
				payloads = append(payloads, agg.Payload(mtu, nalu)...)
				sps, pps = nil, nil
				continue
			}
			flush()
			payloads = append(payloads, single.Payload(mtu, nalu)...)
		}
	}
	flush()
	return payloads
}

// stapASize is the payload size of a STAP-A packet holding nalus.
func stapASize(nalus ...[]byte) int {
	n := 1
	for _, nalu := range nalus {
		n += 2 + len(nalu)
	}
	return n
}

// Unpack feeds one RTP packet. NAL units of an access unit are appended to
// naluq once the packet carrying the marker bit arrives, or when a packet
// with a new timestamp shows the previous access unit ended.
func (c *Context) Unpack(pkt *rtp.Packet, naluq *Queue[[]byte]) error {
	if c.closed {
		return errtrace.Wrap(ErrClosed)
	}

	if c.receiving && pkt.Timestamp != c.pendingTS {
		c.logger.Debug("access unit ended without marker", slog.Uint64("ts", uint64(c.pendingTS)))
		c.flushPending(naluq)
	}
	c.pendingTS = pkt.Timestamp
	c.receiving = true

	annexB, err := c.unpacker.Unmarshal(pkt.Payload)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("unpack seq %d: %w", pkt.SequenceNumber, err))
	}
	c.pending = append(c.pending, SplitAnnexB(annexB)...)

	if pkt.Marker {
		c.flushPending(naluq)
	}
	return nil
}

func (c *Context) flushPending(naluq *Queue[[]byte]) {
	for _, nalu := range c.pending {
		naluq.Put(nalu)
	}
	c.pending = nil
	c.receiving = false
}
