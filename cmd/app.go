// Package cmd implements the bgt command line application to keep a personal budget.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/budget"
	"github.com/etnz/budget/cache"
	"github.com/etnz/budget/config"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/remote"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultPath(), "Path to the TOML configuration file")
var envFile = flag.String("env", ".env", "Path to a .env file loaded into the environment")
var userFlag = flag.String("user", "", "Signed in user, overrides the configuration")
var rawMarkdown = flag.Bool("md", false, "Print reports as raw markdown")

// Verbose logs every remote request.
var Verbose = flag.Bool("v", false, "Log every remote request")

// Outputs and clock, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	today            = date.Today
)

// Commands returns all the bgt subcommands.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&addCmd{}, &editCmd{}, &rmCmd{}, &txCmd{},
		&summaryCmd{}, &debtsCmd{}, &settleCmd{}, &accountsCmd{},
		&billsCmd{}, &goalsCmd{},
		&exportCmd{}, &queryCmd{}, &calcCmd{},
		&syncCmd{}, &resetCmd{}, &serveCmd{},
		&topicCmd{}, &assistCmd{},
	}
}

var groups = map[string]string{
	"add": "entries", "edit": "entries", "rm": "entries", "tx": "entries",
	"summary": "reports", "debts": "reports", "settle": "reports", "accounts": "reports",
	"bills": "planning", "goals": "planning",
	"export": "data", "query": "data", "calc": "data",
	"sync": "storage", "reset": "storage", "serve": "storage",
	"topic": "help", "assist": "help",
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, groups[cmd.Name()])
	}
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		return nil, err
	}
	if *userFlag != "" {
		cfg.User = *userFlag
	}
	return cfg, nil
}

// app is the tracker wired to the configured backends.
type app struct {
	cfg     *config.Config
	tracker *budget.Tracker
	closers []func()
}

// openApp builds the tracker over the configured cache and remote store, and loads it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	local, err := cache.Open(cfg.Cache.Driver, cfg.CachePath())
	if err != nil {
		return nil, err
	}
	if c, ok := local.(io.Closer); ok {
		a.closers = append(a.closers, func() { c.Close() })
	}

	var store budget.RemoteStore
	if cfg.User != "" {
		store, err = a.openRemote(ctx)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	syncer := budget.NewSyncer(local, store, cfg.User)
	syncer.Timeout = cfg.Remote.Timeout

	tr := budget.NewTracker(syncer)
	tr.Today = today
	tr.Currency = cfg.Currency
	if err := tr.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("loading the ledger: %w", err)
	}
	a.tracker = tr
	return a, nil
}

// openRemote returns the configured remote store, nil when none is.
func (a *app) openRemote(ctx context.Context) (budget.RemoteStore, error) {
	switch {
	case a.cfg.Remote.URL != "":
		c := remote.NewClient(a.cfg.Remote.URL, &http.Client{Timeout: a.cfg.Remote.Timeout})
		c.Verbose = *Verbose
		return c, nil
	case a.cfg.Remote.DSN != "":
		pg, err := remote.OpenPostgres(ctx, remote.PostgresConfig{DSN: a.cfg.Remote.DSN, DialTimeout: a.cfg.Remote.Timeout})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	}
	return nil, nil
}

// close waits for the pending remote writes and releases the backends.
func (a *app) close() {
	if a.tracker != nil {
		a.tracker.Syncer().Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// run opens the app, calls f and closes the app. Errors are printed on stderr.
func run(ctx context.Context, f func(*app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()
	if err := f(a); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var usage *usageError
		if errors.As(err, &usage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// usageError reports invalid command line arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// setPeriod selects the period token on the tracker, the current month when empty.
func setPeriod(tr *budget.Tracker, period string) error {
	if period == "" {
		d := tr.Today()
		return tr.SetPeriodFilter(budget.MonthFilter(d.Year(), d.Month()))
	}
	f, err := budget.ParseFilter(period)
	if err != nil {
		return usagef("%v", err)
	}
	return tr.SetPeriodFilter(f)
}

// printMarkdown renders markdown for the terminal, or prints it raw with -md.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	log.Printf("rendering markdown: %v", err)
	fmt.Fprint(stdout, md)
}

// joinArgs joins the positional arguments, as names may contain spaces.
func joinArgs(f *flag.FlagSet) string { return strings.TrimSpace(strings.Join(f.Args(), " ")) }
