package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/budget"
	"github.com/etnz/budget/renderer"
)

type billsCmd struct {
	add    string
	amount string
	due    int
	icon   string
	rm     string
}

func (*billsCmd) Name() string     { return "bills" }
func (*billsCmd) Synopsis() string { return "display and edit the recurring bills" }
func (*billsCmd) Usage() string {
	return `bgt bills [-add <name> -amount <amount> -due <day> [-icon <icon>] | -rm <id>]

  Displays the bills of the current month and whether they are paid. A bill is
  paid when an expense of the month mentions its name.
`
}

func (c *billsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Name of a bill to add")
	f.StringVar(&c.amount, "amount", "", "Amount of the bill to add")
	f.IntVar(&c.due, "due", 1, "Day of the month the bill is due")
	f.StringVar(&c.icon, "icon", "", "Icon of the bill to add")
	f.StringVar(&c.rm, "rm", "", "Id of a bill to remove")
}

func (c *billsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.add != "" && c.rm != "" {
		fmt.Fprintln(stderr, "Error: -add and -rm flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tr := a.tracker
		switch {
		case c.add != "":
			amount, err := budget.Evaluate(c.amount)
			if err != nil {
				return usagef("amount %q: %v", c.amount, err)
			}
			b, err := tr.AddBill(budget.Bill{Name: c.add, Amount: amount, DueDay: c.due, Icon: c.icon})
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Added bill %s %q\n", b.ID, b.Name)
		case c.rm != "":
			id, err := findID(c.rm, tr.Bills(), func(b budget.Bill) budget.ID { return b.ID })
			if err != nil {
				return err
			}
			if err := tr.DeleteBill(id); err != nil {
				return err
			}
		}
		printMarkdown(renderer.RenderBills(renderer.NewBills(tr)))
		return nil
	})
}

type goalsCmd struct {
	add    string
	target string
	fund   string
	amount string
	rm     string
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "display and edit the saving goals" }
func (*goalsCmd) Usage() string {
	return `bgt goals [-add <name> -target <amount> | -fund <id> -amount <amount> | -rm <id>]

  Displays the saving goals and their progress.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Name of a goal to add")
	f.StringVar(&c.target, "target", "0", "Target of the goal to add")
	f.StringVar(&c.fund, "fund", "", "Id of a goal to add money to")
	f.StringVar(&c.amount, "amount", "", "Amount to add to the goal")
	f.StringVar(&c.rm, "rm", "", "Id of a goal to remove")
}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := 0
	for _, s := range []string{c.add, c.fund, c.rm} {
		if s != "" {
			set++
		}
	}
	if set > 1 {
		fmt.Fprintln(stderr, "Error: -add, -fund and -rm flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tr := a.tracker
		goalID := func(prefix string) (budget.ID, error) {
			return findID(prefix, tr.Goals(), func(g budget.Goal) budget.ID { return g.ID })
		}
		switch {
		case c.add != "":
			target, err := budget.Evaluate(c.target)
			if err != nil {
				return usagef("target %q: %v", c.target, err)
			}
			g, err := tr.AddGoal(budget.Goal{Name: c.add, Target: target})
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Added goal %s %q\n", g.ID, g.Name)
		case c.fund != "":
			amount, err := budget.Evaluate(c.amount)
			if err != nil {
				return usagef("amount %q: %v", c.amount, err)
			}
			id, err := goalID(c.fund)
			if err != nil {
				return err
			}
			if _, err := tr.AddMoneyToGoal(id, amount); err != nil {
				return err
			}
		case c.rm != "":
			id, err := goalID(c.rm)
			if err != nil {
				return err
			}
			if err := tr.DeleteGoal(id); err != nil {
				return err
			}
		}
		printMarkdown(renderer.RenderGoals(renderer.NewGoals(tr)))
		return nil
	})
}

// findID returns the id of the only item whose id starts with prefix.
func findID[T any](prefix string, items []T, id func(T) budget.ID) (budget.ID, error) {
	var found []budget.ID
	for _, item := range items {
		i := id(item)
		if string(i) == prefix {
			return i, nil
		}
		if strings.HasPrefix(string(i), prefix) {
			found = append(found, i)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no item with id %q", prefix)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("%q matches %d items", prefix, len(found))
}
