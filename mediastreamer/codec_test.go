package mediastreamer

import (
	"errors"
	"strings"
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestCodecParameters(t *testing.T) {
	c := NewContext()
	c.SetMode(ModeNonInterleaved)
	c.SetPayloadType(109)

	params := c.CodecParameters()
	if params.MimeType != webrtc.MimeTypeH264 {
		t.Errorf("MimeType = %q", params.MimeType)
	}
	if params.ClockRate != 90000 {
		t.Errorf("ClockRate = %d, want 90000", params.ClockRate)
	}
	if params.PayloadType != 109 {
		t.Errorf("PayloadType = %d, want 109", params.PayloadType)
	}
	if !strings.Contains(params.SDPFmtpLine, "packetization-mode=1") {
		t.Errorf("SDPFmtpLine = %q, want packetization-mode=1", params.SDPFmtpLine)
	}
}

func TestConfigureFromCodec(t *testing.T) {
	cases := []struct {
		name     string
		fmtp     string
		wantMode uint8
		wantErr  error
	}{
		{"mode 1", "profile-level-id=42e01f; packetization-mode=1", ModeNonInterleaved, nil},
		{"mode 0", "packetization-mode=0", ModeSingleNAL, nil},
		{"absent", "profile-level-id=42e01f", ModeSingleNAL, nil},
		{"interleaved", "packetization-mode=2", 0, ErrUnsupportedMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewContext()
			c.SetMode(ModeNonInterleaved)
			if tc.wantMode == ModeNonInterleaved {
				c.SetMode(ModeSingleNAL)
			}

			err := c.ConfigureFromCodec(webrtc.RTPCodecParameters{
				RTPCodecCapability: webrtc.RTPCodecCapability{
					MimeType:    "video/h264",
					ClockRate:   90000,
					SDPFmtpLine: tc.fmtp,
				},
				PayloadType: 97,
			})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfigureFromCodec failed: %v", err)
			}
			if c.Mode() != tc.wantMode {
				t.Errorf("Mode() = %d, want %d", c.Mode(), tc.wantMode)
			}
			if c.PayloadType() != 97 {
				t.Errorf("PayloadType() = %d, want 97", c.PayloadType())
			}
		})
	}
}

func TestConfigureFromCodec_NotH264(t *testing.T) {
	c := NewContext()
	err := c.ConfigureFromCodec(webrtc.RTPCodecParameters{
		RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8},
	})
	if err == nil {
		t.Error("ConfigureFromCodec accepted VP8")
	}
}
