package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/budget/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
	top    int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals of a period" }
func (*summaryCmd) Usage() string {
	return `bgt summary [-period <period>] [-top <n>]

  Displays the income, expenses, debts, wallet and savings rate of the period,
  the top spending categories and the entries.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period token, the current month by default")
	f.IntVar(&c.top, "top", 10, "Number of spending categories to show")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if err := setPeriod(a.tracker, c.period); err != nil {
			return err
		}
		printMarkdown(renderer.RenderSummary(renderer.NewSummary(a.tracker, c.top)))
		return nil
	})
}

type debtsCmd struct {
	all bool
}

func (*debtsCmd) Name() string     { return "debts" }
func (*debtsCmd) Synopsis() string { return "display who owes what" }
func (*debtsCmd) Usage() string {
	return `bgt debts [-all]

  Displays the balance of every counterparty over the whole history, and the
  net outstanding amount.
`
}

func (c *debtsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include settled counterparties")
}

func (c *debtsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(renderer.RenderDebts(renderer.NewDebts(a.tracker, c.all)))
		return nil
	})
}

type settleCmd struct {
	account string
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "record the entry settling a debt" }
func (*settleCmd) Usage() string {
	return `bgt settle [-account <account>] <name>

  Records the entry that brings the balance with <name> back to zero, dated
  today and noted "Settlement".
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account of the settlement, the first one by default")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := joinArgs(f)
	if name == "" {
		fmt.Fprintln(stderr, "Error: settle needs the name of the counterparty")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		e, err := a.tracker.Settle(name, c.account)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Settled %s\n", describe(a.tracker, e))
		return nil
	})
}

type accountsCmd struct {
	add string
	rm  string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "display and edit the accounts" }
func (*accountsCmd) Usage() string {
	return `bgt accounts [-add <label> | -rm <label>]

  Displays the balance of every account. Removing an account keeps its entries.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Add an account")
	f.StringVar(&c.rm, "rm", "", "Remove an account")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.add != "" && c.rm != "" {
		fmt.Fprintln(stderr, "Error: -add and -rm flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		switch {
		case c.add != "":
			if err := a.tracker.AddAccount(c.add); err != nil {
				return err
			}
		case c.rm != "":
			if err := a.tracker.DeleteAccount(c.rm); err != nil {
				return err
			}
		}
		printMarkdown(renderer.RenderAccounts(renderer.NewAccounts(a.tracker)))
		return nil
	})
}
