package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/renderer"
)

// entryFlags are the entry fields shared by add and edit.
type entryFlags struct {
	kind     string
	category string
	name     string
	note     string
	amount   string
	date     string
	account  string
}

func (c *entryFlags) setFlags(f *flag.FlagSet, defaultKind string) {
	f.StringVar(&c.kind, "kind", defaultKind, "Entry kind: income, expense, debt_lent or debt_borrowed")
	f.StringVar(&c.category, "category", "", "Category of an income or an expense")
	f.StringVar(&c.name, "name", "", "Counterparty of a debt")
	f.StringVar(&c.note, "note", "", "Free note")
	f.StringVar(&c.amount, "amount", "", "Amount, arithmetic like 12+3.5 is allowed")
	f.StringVar(&c.date, "date", "", "Date in YYYY-MM-DD format, today by default")
	f.StringVar(&c.account, "account", "", "Account, the first one of the catalog by default")
}

// fill applies the flags set to the editor draft.
func (c *entryFlags) fill(ed *budget.Editor) error {
	if c.kind != "" {
		kind, err := budget.ParseKind(c.kind)
		if err != nil {
			return usagef("%v", err)
		}
		if err := ed.SetKind(kind); err != nil {
			return err
		}
	}
	var on date.Date
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			return usagef("%v", err)
		}
	}
	err := ed.Update(func(d *budget.Draft) {
		if c.category != "" {
			d.Category = c.category
		}
		if c.name != "" {
			d.Counterparty = c.name
		}
		if c.note != "" {
			d.Note = c.note
		}
		if !on.IsZero() {
			d.Date = on
		}
		if c.account != "" {
			d.Account = c.account
		}
	})
	if err != nil {
		return err
	}
	if c.amount == "" {
		return nil
	}
	// the amount is typed on the keypad.
	if err := ed.Input(budget.KeyClear); err != nil {
		return err
	}
	for _, r := range strings.ReplaceAll(c.amount, " ", "") {
		if err := ed.Input(string(r)); err != nil {
			return usagef("amount %q: %v", c.amount, err)
		}
	}
	return nil
}

type addCmd struct {
	entryFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income, an expense or a debt" }
func (*addCmd) Usage() string {
	return `bgt add [-kind <kind>] [-category <category> | -name <counterparty>] [-note <note>] -amount <amount> [-date <date>] [-account <account>]

  Records an entry. Income and expenses take a category, debts take the name of
  the counterparty.

Usage Examples:
$ bgt add -category Groceries -note weekly -amount 42.50
$ bgt add -kind debt_lent -name Sam -amount 300 -account UPI
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.setFlags(f, string(budget.Expense)) }

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		fmt.Fprintln(stderr, "Error: -amount is required")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tr := a.tracker
		ed := tr.NewEditor()
		ed.Open(tr.Today())
		if err := c.fill(ed); err != nil {
			return err
		}
		e, err := ed.Commit()
		if err != nil {
			return err
		}
		if err := tr.AddOrReplaceEntry(e); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s\n", describe(tr, e))
		return nil
	})
}

type editCmd struct {
	entryFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change an entry" }
func (*editCmd) Usage() string {
	return `bgt edit [-kind <kind>] [-category <category>] [-name <counterparty>] [-note <note>] [-amount <amount>] [-date <date>] [-account <account>] <id>

  Changes the given fields of the entry whose id starts with <id>. Switching
  between a debt and an income or expense requires a new amount.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.setFlags(f, "") }

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.Arg(0) == "" {
		fmt.Fprintln(stderr, "Error: edit takes exactly one entry id")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tr := a.tracker
		e, err := tr.FindEntry(f.Arg(0))
		if err != nil {
			return err
		}
		ed := tr.NewEditor()
		ed.OpenEdit(e)
		if err := c.fill(ed); err != nil {
			return err
		}
		if e, err = ed.Commit(); err != nil {
			return err
		}
		if err := tr.AddOrReplaceEntry(e); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated %s\n", describe(tr, e))
		return nil
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete an entry" }
func (*rmCmd) Usage() string {
	return `bgt rm <id>

  Deletes the entry whose id starts with <id>.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.Arg(0) == "" {
		fmt.Fprintln(stderr, "Error: rm takes exactly one entry id")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		e, err := a.tracker.FindEntry(f.Arg(0))
		if err != nil {
			return err
		}
		if err := a.tracker.DeleteEntry(e.ID); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %s\n", describe(a.tracker, e))
		return nil
	})
}

type txCmd struct {
	period  string
	kind    string
	account string
	head    int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the entries of a period" }
func (*txCmd) Usage() string {
	return `bgt tx [-period <period>] [-kind <kind>] [-account <account>] [-head <n>]

  Lists the entries of the period, newest first. See 'bgt topic periods' for
  the period tokens.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period token, the current month by default")
	f.StringVar(&c.kind, "kind", "", "Only entries of this kind")
	f.StringVar(&c.account, "account", "", "Only entries on this account")
	f.IntVar(&c.head, "head", 0, "Show only the first N entries")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		tr := a.tracker
		if err := setPeriod(tr, c.period); err != nil {
			return err
		}
		var filters []func(budget.Entry) bool
		if c.kind != "" {
			kind, err := budget.ParseKind(c.kind)
			if err != nil {
				return usagef("%v", err)
			}
			filters = append(filters, budget.ByKind(kind))
		}
		if c.account != "" {
			filters = append(filters, budget.ByAccount(c.account))
		}
		entries := tr.Entries(filters...)
		if c.head > 0 && len(entries) > c.head {
			entries = entries[:c.head]
		}
		printMarkdown(renderer.RenderEntries(renderer.NewEntryList(tr, entries)))
		return nil
	})
}

// describe is the one line description of an entry printed after a change.
func describe(tr *budget.Tracker, e budget.Entry) string {
	id := string(e.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s %s %s %q %s on %s", id, e.Date, e.Kind.Label(), e.Description, tr.Money(e.Amount), e.Account)
}
