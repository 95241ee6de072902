package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/budget"
)

type exportCmd struct {
	period string
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the entries of a period as CSV or XLSX" }
func (*exportCmd) Usage() string {
	return `bgt export [-period <period>] [-format csv|xlsx] [-o <file>]

  Writes the entries of the period with the columns date, description, amount,
  kind and account. The XLSX workbook has a second sheet with the debt book.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period token, the current month by default")
	f.StringVar(&c.format, "format", "csv", "Output format: csv or xlsx")
	f.StringVar(&c.output, "o", "", "Output file, the standard output by default")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var export func(io.Writer, []budget.Entry) error
	switch c.format {
	case "csv":
		export = budget.ExportCSV
	case "xlsx":
		export = budget.ExportXLSX
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := setPeriod(a.tracker, c.period); err != nil {
			return err
		}
		// exports read oldest first.
		entries := a.tracker.Entries()
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}

		if c.output == "" {
			return export(stdout, entries)
		}
		out, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := export(out, entries); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Exported %d entries to %s\n", len(entries), c.output)
		return nil
	})
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "run a JSONPath query on the stored document" }
func (*queryCmd) Usage() string {
	return `bgt query <jsonpath>

  Evaluates a JSONPath expression against the document and prints the result as
  JSON. The top level fields are transactions, accounts, bills, goals and
  lastUpdated.

Usage Examples:
$ bgt query '$.accounts'
$ bgt query '$.transactions[?(@.amount > 100)].desc'
`
}

func (*queryCmd) SetFlags(*flag.FlagSet) {}

func (*queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := joinArgs(f)
	if path == "" {
		fmt.Fprintln(stderr, "Error: query needs a JSONPath expression")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		v, err := a.tracker.Document().Query(path)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

type calcCmd struct {
	keys string
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "evaluate an amount expression" }
func (*calcCmd) Usage() string {
	return `bgt calc <expression> | -keys <keys>

  Evaluates an arithmetic expression with + - * / and prints the value rounded
  to two decimals. With -keys, replays space separated keypad presses: digits,
  ".", operators, "del" and "clear".
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.keys, "keys", "", "Space separated keypad presses")
}

func (c *calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	x := budget.NewExpression(strings.ReplaceAll(joinArgs(f), " ", ""))
	for _, key := range strings.Fields(c.keys) {
		presses := []string{key}
		if key != budget.KeyDelete && key != budget.KeyClear {
			presses = strings.Split(key, "")
		}
		for _, p := range presses {
			if err := x.Input(p); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return subcommands.ExitUsageError
			}
		}
	}
	v, err := x.Evaluate()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", x, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s = %s\n", x, v.StringFixed(2))
	return subcommands.ExitSuccess
}
