package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/etnz/budget/agent"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an AI bookkeeper about the budget" }
func (*assistCmd) Usage() string {
	return `bgt assist [-model <model>] [<question>]

  Starts an interactive session with an assistant that reads the ledger and can
  record entries. The Gemini API key is read from GEMINI_API_KEY or
  GOOGLE_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model, assist.model of the configuration by default")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")
	return run(ctx, func(a *app) error {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			return fmt.Errorf("initializing Gemini's client: %w", err)
		}
		model := c.model
		if model == "" {
			model = a.cfg.Assist.Model
		}
		assistant := agent.New(stdout, os.Stdin, agent.NewBookkeeper(a.tracker, model))
		assistant.Print = func(_ io.Writer, text string) { printMarkdown(text) }
		return assistant.Run(ctx, client, initialPrompt)
	})
}
