package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/thesyncim/linphone"
	"github.com/thesyncim/linphone/bctoolbox"
	"github.com/thesyncim/linphone/bellesip"
)

func runProviders(e *env, _ []string) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tLICENSE\tFEATURES\tAVAILABLE")
	for _, p := range linphone.Providers() {
		avail := "yes"
		if err := p.LoadError(); err != nil {
			avail = "no"
			e.logger.Debug("provider unavailable", slog.String("provider", p.String()), slog.Any("error", err))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p, p.License(), p.Features(), avail)
	}
	return tw.Flush()
}

func runURI(e *env, args []string) error {
	fs := pflag.NewFlagSet("uri", pflag.ContinueOnError)
	edits := map[string]*string{}
	for _, name := range []string{"scheme", "user", "password", "host", "path", "query"} {
		edits[name] = fs.String("set-"+name, "", "replace the "+name)
	}
	port := fs.Int32("set-port", 0, "replace the port")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("uri takes exactly one argument: %w", errUsage)
	}

	u, err := bellesip.ParseURIWith(e.provider, fs.Arg(0))
	if err != nil {
		return err
	}
	defer u.Release()
	e.logger.Debug("parsed URI", slog.Any("uri", u))

	setters := map[string]func(string){
		"scheme":   u.SetScheme,
		"user":     u.SetUser,
		"password": u.SetPassword,
		"host":     u.SetHost,
		"path":     u.SetPath,
		"query":    u.SetQuery,
	}
	for name, v := range edits {
		if fs.Changed("set-" + name) {
			setters[name](*v)
		}
	}
	if fs.Changed("set-port") {
		u.SetPort(*port)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, c := range []struct {
		name string
		get  func() (string, bool)
	}{
		{"scheme", u.Scheme},
		{"user", u.User},
		{"password", u.Password},
		{"host", u.Host},
		{"path", u.Path},
		{"query", u.Query},
		{"opaque", u.Opaque},
	} {
		if v, ok := c.get(); ok {
			fmt.Fprintf(tw, "%s\t%s\n", c.name, v)
		}
	}
	if u.Port() > 0 {
		fmt.Fprintf(tw, "port\t%d\n", u.Port())
	}
	fmt.Fprintf(tw, "uri\t%s\n", u)
	fmt.Fprintf(tw, "provider\t%s\n", u.Provider())
	return tw.Flush()
}

func runList(e *env, args []string) error {
	l, err := bctoolbox.FromStringsWith(e.provider, args)
	if err != nil {
		return err
	}
	defer l.Close()

	var walked []string
	err = l.WithRawPointer(func(h bctoolbox.Handle) error {
		var err error
		walked, err = bctoolbox.StringsFrom(h)
		return err
	})
	if err != nil {
		return err
	}
	e.logger.Debug("built list", slog.Int("len", l.Len()), slog.String("provider", l.Provider().String()))

	fmt.Fprintf(e.stdout, "empty: %v\n", l.IsEmpty())
	fmt.Fprintf(e.stdout, "strings: %v\n", l)
	fmt.Fprintf(e.stdout, "walked: %v\n", walked)
	return nil
}
