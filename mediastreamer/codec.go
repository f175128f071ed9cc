package mediastreamer

import (
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/pion/webrtc/v4"
)

// Baseline profile level 3.1, as offered by Linphone.
const defaultProfileLevelID = "42e01f"

// CodecParameters describes the context's packetization as negotiated codec
// parameters.
func (c *Context) CodecParameters() webrtc.RTPCodecParameters {
	return webrtc.RTPCodecParameters{
		RTPCodecCapability: webrtc.RTPCodecCapability{
			MimeType:  webrtc.MimeTypeH264,
			ClockRate: clockRate,
			SDPFmtpLine: fmt.Sprintf("level-asymmetry-allowed=1;packetization-mode=%d;profile-level-id=%s",
				c.mode, defaultProfileLevelID),
		},
		PayloadType: webrtc.PayloadType(c.payloadType),
	}
}

// ConfigureFromCodec applies negotiated H.264 codec parameters: the payload
// type and the packetization-mode fmtp parameter, which defaults to 0.
func (c *Context) ConfigureFromCodec(params webrtc.RTPCodecParameters) error {
	if !strings.EqualFold(params.MimeType, webrtc.MimeTypeH264) {
		return errtrace.Wrap(fmt.Errorf("codec %s is not H.264", params.MimeType))
	}

	mode := ModeSingleNAL
	if v, ok := fmtpValue(params.SDPFmtpLine, "packetization-mode"); ok {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("packetization-mode %q: %w", v, err))
		}
		if uint8(n) != ModeSingleNAL && uint8(n) != ModeNonInterleaved {
			return errtrace.Wrap(fmt.Errorf("packetization-mode %d: %w", n, ErrUnsupportedMode))
		}
		mode = uint8(n)
	}

	c.mode = mode
	c.payloadType = uint8(params.PayloadType)
	return nil
}

func fmtpValue(line, key string) (string, bool) {
	for _, param := range strings.Split(line, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(param), "=")
		if found && strings.EqualFold(k, key) {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
