package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/budget/docs"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `bgt topic [-list] [<topic>...]

  Shows the documentation of the given topics, '*' for all of them, the
  introduction when none is given.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		summaries, err := docs.Summaries()
		if err != nil {
			fmt.Fprintf(stderr, "Error reading doc: %v\n", err)
			return subcommands.ExitFailure
		}
		names := make([]string, 0, len(summaries))
		for name := range summaries {
			names = append(names, name)
		}
		slices.Sort(names)
		var b strings.Builder
		for _, name := range names {
			fmt.Fprintf(&b, "%-12s %s\n", name, summaries[name])
		}
		fmt.Fprint(stdout, b.String())
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
