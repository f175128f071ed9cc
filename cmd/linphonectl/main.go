// Command linphonectl exercises the Belledonne bindings from the shell.
//
// Usage:
//
//	linphonectl [global flags] <command> [flags] [args]
//
// Commands:
//
//	providers            list providers and their availability
//	uri <uri>            parse a URI, optionally edit it, print its components
//	list <items...>      build a linked list and read it back
//	pack --in file.h264  packetize an Annex B stream into RTP
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/thesyncim/linphone"
	"github.com/thesyncim/linphone/internal/log"
)

type globalOptions struct {
	logFormat string
	logLevel  string
	provider  string
}

// env carries what every command needs.
type env struct {
	ctx      context.Context
	stdout   io.Writer
	logger   *slog.Logger
	provider linphone.Provider
}

type command struct {
	name  string
	usage string
	run   func(e *env, args []string) error
}

var commands = []command{
	{"providers", "list providers and their availability", runProviders},
	{"uri", "parse a URI and print its components", runURI},
	{"list", "build a linked list from the arguments", runList},
	{"pack", "packetize an Annex B H.264 stream into RTP", runPack},
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "linphonectl:", err)
		}
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts globalOptions
	fs := pflag.NewFlagSet("linphonectl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&opts.logFormat, "log-format", "console", "log format: console or dev")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVarP(&opts.provider, "provider", "p", "auto", "provider: auto, go, belle-sip, bctoolbox")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: linphonectl [flags] <command> [args]")
		fmt.Fprintln(stderr, "\nCommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-10s %s\n", c.name, c.usage)
		}
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	provider, err := linphone.ParseProvider(opts.provider)
	if err != nil {
		return err
	}

	e := &env{
		ctx:      ctx,
		stdout:   stdout,
		logger:   log.New(stderr, opts.logFormat, level),
		provider: provider,
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	for _, c := range commands {
		if c.name == rest[0] {
			return c.run(e, rest[1:])
		}
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
}
