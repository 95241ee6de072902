package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/budget/remote"
	"github.com/etnz/budget/server"
)

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "merge the local ledger with the remote document" }
func (*syncCmd) Usage() string {
	return `bgt sync

  Loads the local ledger, merges it with the remote document of the configured
  user and writes the result to both. See 'bgt topic sync'.
`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// opening the app is the sync.
	return run(ctx, func(a *app) error {
		s := a.tracker.Syncer()
		n := len(a.tracker.AllEntries())
		if !s.Online() {
			fmt.Fprintf(stdout, "Offline: %d entries in the local cache. Set a user and a remote to sync.\n", n)
			return nil
		}
		fmt.Fprintf(stdout, "Synced %d entries for %s\n", n, s.User())
		return nil
	})
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete every entry, bill and goal" }
func (*resetCmd) Usage() string {
	return `bgt reset -yes

  Deletes everything: entries, bills and goals are emptied and the accounts are
  reduced to Cash, locally and on the remote document.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(stderr, "Error: reset deletes all the data, confirm with -yes")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := a.tracker.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "All data deleted.")
		return nil
	})
}

type serveCmd struct {
	addr    string
	dsn     string
	metrics bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the remote documents over HTTP" }
func (*serveCmd) Usage() string {
	return `bgt serve [-addr <addr>] [-dsn <postgres dsn>] [-metrics]

  Serves the per user documents that bgt synchronizes with. Documents are kept
  in memory, or in Postgres when a DSN is given.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, server.addr of the configuration by default")
	f.StringVar(&c.dsn, "dsn", "", "Postgres DSN, remote.dsn of the configuration by default")
	f.BoolVar(&c.metrics, "metrics", false, "Expose the Prometheus metrics on /metrics")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr == "" {
		c.addr = cfg.Server.Addr
	}
	if c.dsn == "" {
		c.dsn = cfg.Remote.DSN
	}

	var store server.Store = remote.NewMemory()
	if c.dsn != "" {
		pg, err := remote.OpenPostgres(ctx, remote.PostgresConfig{DSN: c.dsn, DialTimeout: cfg.Remote.Timeout})
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer pg.Close()
		store = pg
	}

	s := server.New(store)
	if c.metrics || cfg.Server.Metrics {
		s.EnableMetrics()
	}
	if err := listenAndServe(ctx, c.addr, s.Handler()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// listenAndServe serves h until ctx is done, then shuts the server down.
func listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()
	log.Printf("serving documents on %s", ln.Addr())

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-done; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
