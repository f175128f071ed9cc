package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thesyncim/linphone"
	"github.com/thesyncim/linphone/mediastreamer"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(linphone.ProviderEnv, "go")
	var stdout, stderr bytes.Buffer
	err := run(t.Context(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_URI(t *testing.T) {
	out, err := runCmd(t, "uri", "--set-host", "example.org", "--set-port", "5061", "https://alice@example.com/x?y=1")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"user", "alice", "example.org", "5061", "https://alice@example.org:5061/x?y=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_URIInvalid(t *testing.T) {
	if _, err := runCmd(t, "uri", "not a uri"); err == nil {
		t.Error("invalid URI accepted")
	}
	if _, err := runCmd(t, "uri"); err == nil {
		t.Error("missing argument accepted")
	}
}

func TestRun_List(t *testing.T) {
	out, err := runCmd(t, "--provider", "go", "list", "a", "b", "c")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "strings: [a b c]") || !strings.Contains(out, "walked: [a b c]") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCmd(t, "list")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "empty: true") {
		t.Errorf("empty list output:\n%s", out)
	}
}

func TestRun_Providers(t *testing.T) {
	out, err := runCmd(t, "providers")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "go") || !strings.Contains(out, "belle-sip") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_Pack(t *testing.T) {
	idr := make([]byte, 3000)
	idr[0] = 0x65
	for i := 1; i < len(idr); i++ {
		idr[i] = 0x55
	}
	stream := mediastreamer.JoinAnnexB([][]byte{
		{0x67, 0x42, 0xe0, 0x1f},
		{0x68, 0xce, 0x3c, 0x80},
		idr,
		{0x41, 0x9a, 0x02, 0x03},
	})
	path := filepath.Join(t.TempDir(), "in.h264")
	if err := os.WriteFile(path, stream, 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "pack", "--in", path, "--max-size", "1200")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"access units: 2", "packetization-mode=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCmd(t, "--provider", "belle-sip", "pack", "--in", path); !errors.Is(err, linphone.ErrUnsupportedFeature) {
		t.Errorf("pack with belle-sip = %v, want ErrUnsupportedFeature", err)
	}
}

func TestRun_Usage(t *testing.T) {
	if _, err := runCmd(t); err == nil {
		t.Error("no command accepted")
	}
	if _, err := runCmd(t, "bogus"); err == nil {
		t.Error("unknown command accepted")
	}
	if _, err := runCmd(t, "--log-level", "loud", "providers"); err == nil {
		t.Error("invalid log level accepted")
	}
	if _, err := runCmd(t, "--help"); err != nil {
		t.Errorf("--help returned %v", err)
	}
}

func TestAccessUnits(t *testing.T) {
	aud := []byte{0x09, 0xf0}
	sps := []byte{0x67, 0x01}
	idr := []byte{0x65, 0x01}
	p1 := []byte{0x41, 0x01}
	sei := []byte{0x06, 0x01}

	got := accessUnits([][]byte{aud, sps, idr, p1, aud, sei})
	want := [][][]byte{{aud, sps, idr}, {p1}, {aud, sei}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("accessUnits mismatch (-want +got):\n%s", diff)
	}
}
