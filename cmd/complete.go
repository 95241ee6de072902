package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/budget"
	"github.com/etnz/budget/docs"
)

// flagPredictors complete the flag values known in advance, by flag name.
func flagPredictors() map[string]complete.Predictor {
	kinds := make(predict.Set, len(budget.Kinds))
	for i, k := range budget.Kinds {
		kinds[i] = string(k)
	}
	categories := predict.Set{}
	for _, k := range budget.Kinds {
		categories = append(categories, budget.Categories(k)...)
	}
	return map[string]complete.Predictor{
		"kind":     kinds,
		"category": categories,
		"account":  predict.Set(budget.DefaultAccounts),
		"period":   predict.Set{"all_time", "week", "custom:"},
		"format":   predict.Set{"csv", "xlsx"},
		"o":        predict.Files("*"),
		"config":   predict.Files("*.toml"),
		"env":      predict.Files("*"),
	}
}

// Completion returns the shell completion tree of bgt: its global flags, and the subcommands
// with their flags.
func Completion() *complete.Command {
	known := flagPredictors()
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(flag.CommandLine, known),
	}
	for _, c := range Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagsOf(fs, known), Args: predict.Nothing}
		if c.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		}
		root.Sub[c.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagsOf(fs *flag.FlagSet, known map[string]complete.Predictor) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := known[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
