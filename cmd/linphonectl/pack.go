package main

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/pion/rtp"
	"github.com/spf13/pflag"

	"github.com/thesyncim/linphone/mediastreamer"
)

type packOptions struct {
	in       string
	out      string
	mode     uint8
	maxSize  int
	stapA    bool
	pt       uint8
	ssrc     uint32
	fps      int
	realtime bool
}

func runPack(e *env, args []string) error {
	var opts packOptions
	fs := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	fs.StringVarP(&opts.in, "in", "i", "-", "Annex B H.264 input file, - for stdin")
	fs.StringVarP(&opts.out, "out", "o", "", "send packets to udp://host:port; print a summary when empty")
	fs.Uint8Var(&opts.mode, "mode", mediastreamer.ModeNonInterleaved, "packetization mode (0 or 1)")
	fs.IntVar(&opts.maxSize, "max-size", mediastreamer.DefaultMaxSize, "maximum RTP payload size")
	fs.BoolVar(&opts.stapA, "stap-a", false, "aggregate parameter sets into STAP-A packets")
	fs.Uint8Var(&opts.pt, "pt", mediastreamer.DefaultPayloadType, "RTP payload type")
	fs.Uint32Var(&opts.ssrc, "ssrc", 0x1234abcd, "RTP SSRC")
	fs.IntVar(&opts.fps, "fps", 30, "frames per second for timestamps")
	fs.BoolVar(&opts.realtime, "realtime", false, "pace output at --fps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.fps <= 0 {
		return fmt.Errorf("--fps must be positive: %w", errUsage)
	}

	data, err := readInput(opts.in)
	if err != nil {
		return err
	}

	var sink func(*rtp.Packet) error
	if opts.out != "" {
		conn, err := dialOutput(opts.out)
		if err != nil {
			return err
		}
		defer conn.Close()
		e.logger.Info("sending RTP", slog.Any("remote", conn.RemoteAddr()))
		sink = func(p *rtp.Packet) error {
			b, err := p.Marshal()
			if err != nil {
				return err
			}
			_, err = conn.Write(b)
			return err
		}
	}

	ctx, err := mediastreamer.NewContextWith(e.provider)
	if err != nil {
		return err
	}
	defer ctx.Close()
	ctx.SetMode(opts.mode)
	ctx.SetMaxSize(opts.maxSize)
	ctx.SetSTAPAEnabled(opts.stapA)
	ctx.SetPayloadType(opts.pt)
	ctx.SetSSRC(opts.ssrc)
	ctx.SetLogger(e.logger)

	units := accessUnits(mediastreamer.SplitAnnexB(data))
	step := uint32(90000 / opts.fps)
	ticker := time.NewTicker(time.Second / time.Duration(opts.fps))
	defer ticker.Stop()

	var (
		ts       uint32
		rtpq     mediastreamer.Queue[*rtp.Packet]
		packets  int
		bytesOut int
	)
	for _, au := range units {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		if err := ctx.Pack(mediastreamer.NewQueue(au...), &rtpq, ts); err != nil {
			return err
		}
		for _, p := range rtpq.Drain() {
			packets++
			bytesOut += len(p.Payload)
			if sink != nil {
				if err := sink(p); err != nil {
					return err
				}
			}
		}
		ts += step
		if opts.realtime && sink != nil {
			select {
			case <-ticker.C:
			case <-e.ctx.Done():
				return e.ctx.Err()
			}
		}
	}

	params := ctx.CodecParameters()
	fmt.Fprintf(e.stdout, "access units: %d\n", len(units))
	fmt.Fprintf(e.stdout, "packets: %d\n", packets)
	fmt.Fprintf(e.stdout, "payload bytes: %d\n", bytesOut)
	fmt.Fprintf(e.stdout, "fmtp: %s\n", params.SDPFmtpLine)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func dialOutput(target string) (net.Conn, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "udp" || u.Host == "" {
		return nil, fmt.Errorf("output %q: want udp://host:port: %w", target, errUsage)
	}
	return net.Dial("udp", u.Host)
}

// accessUnits groups NAL units into access units. A unit ends after each
// coded slice; parameter sets and SEI attach to the following slice, and an
// access unit delimiter always starts a new unit.
func accessUnits(nalus [][]byte) [][][]byte {
	var (
		units   [][][]byte
		current [][]byte
	)
	for _, nalu := range nalus {
		t := mediastreamer.NALType(nalu)
		if t == mediastreamer.NALTypeAUD && len(current) > 0 {
			units = append(units, current)
			current = nil
		}
		current = append(current, nalu)
		if t == mediastreamer.NALTypeSlice || t == mediastreamer.NALTypeIDR {
			units = append(units, current)
			current = nil
		}
	}
	if len(current) > 0 {
		units = append(units, current)
	}
	return units
}
