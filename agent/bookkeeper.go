package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/docs"
	"github.com/etnz/budget/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const instruction = `
You are the bookkeeper of the user's personal budget. The budget is a ledger of entries: income,
expenses, money lent to someone (debt_lent) and money borrowed from someone (debt_borrowed), each on
an account like Cash or UPI.

Use the tools to read the ledger before answering: never guess an amount. Reports are markdown,
quote the relevant lines rather than the whole report.

Only record an entry when the user clearly asked for it, and repeat what you recorded. Expense and
income descriptions are a category, optionally with a note. Debt descriptions are the name of the
counterparty.

Periods are tokens: all_time, week, 2025 (a year), 2025:q1 (a quarter), 2025:0 (January 2025,
months start at 0) or custom:2025-01-01..2025-01-31.
`

// NewBookkeeper returns an expert reading and editing the tracker's ledger.
func NewBookkeeper(tr *budget.Tracker, model string) *Expert {
	if model == "" {
		model = DefaultModel
	}
	lib := Tools(tr)
	return &Expert{
		Name:      "Bookkeeper",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		},
		Library: NewLibrary(lib),
	}
}

var periodSchema = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The period to report on, the current one if omitted. One of all_time, week, <year>, <year>:q<1-4>, <year>:<month 0-11>, custom:<from>..<to>.",
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func markdown(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

// Tools returns the functions offered to the model over the tracker.
func Tools(tr *budget.Tracker) []*Func {
	kinds := make([]string, len(budget.Kinds))
	for i, k := range budget.Kinds {
		kinds[i] = string(k)
	}

	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "summary",
				Description: "Totals of a period: income, expenses, lent, borrowed, wallet, savings rate, the top spending categories and the entries.",
				Parameters:  object(nil, map[string]*genai.Schema{"period": periodSchema}),
				Response:    markdown("A markdown report."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				var out string
				err := withPeriod(tr, args, func() { out = renderer.RenderSummary(renderer.NewSummary(tr, 10)) })
				return out, err
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "entries",
				Description: "Lists the entries of a period, newest first, optionally restricted to a kind or an account.",
				Parameters: object(nil, map[string]*genai.Schema{
					"period":  periodSchema,
					"kind":    {Type: genai.TypeString, Enum: kinds},
					"account": {Type: genai.TypeString},
					"limit":   {Type: genai.TypeInteger, Description: "Maximum number of entries."},
				}),
				Response: markdown("A markdown table of entries with their short id."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				var filters []func(budget.Entry) bool
				if k, ok, err := stringArg(args, "kind"); err != nil {
					return "", err
				} else if ok {
					kind, err := budget.ParseKind(k)
					if err != nil {
						return "", err
					}
					filters = append(filters, budget.ByKind(kind))
				}
				if a, ok, err := stringArg(args, "account"); err != nil {
					return "", err
				} else if ok {
					filters = append(filters, budget.ByAccount(a))
				}
				limit, _, err := intArg(args, "limit")
				if err != nil {
					return "", err
				}
				var out string
				err = withPeriod(tr, args, func() {
					entries := tr.Entries(filters...)
					if limit > 0 && len(entries) > limit {
						entries = entries[:limit]
					}
					out = renderer.RenderEntries(renderer.NewEntryList(tr, entries))
				})
				return out, err
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "debts",
				Description: "The debt book over the whole history: balance per counterparty and the net outstanding amount.",
				Parameters: object(nil, map[string]*genai.Schema{
					"all": {Type: genai.TypeBoolean, Description: "Include settled counterparties."},
				}),
				Response: markdown("A markdown table of debts."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				all, _ := args["all"].(bool)
				return renderer.RenderDebts(renderer.NewDebts(tr, all)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "accounts",
				Description: "The balance of every account over the whole history.",
				Response:    markdown("A markdown table of accounts."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderAccounts(renderer.NewAccounts(tr)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "bills",
				Description: "The recurring bills and whether they are paid this month.",
				Response:    markdown("A markdown table of bills."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderBills(renderer.NewBills(tr)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "goals",
				Description: "The saving goals and their progress.",
				Response:    markdown("A markdown table of goals."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.RenderGoals(renderer.NewGoals(tr)), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "add_entry",
				Description: "Records an entry in the ledger.",
				Parameters: object([]string{"kind", "description", "amount"}, map[string]*genai.Schema{
					"kind":        {Type: genai.TypeString, Enum: kinds},
					"description": {Type: genai.TypeString, Description: "The category for income and expense, the counterparty name for debts."},
					"note":        {Type: genai.TypeString, Description: "An optional note, for income and expense only."},
					"amount":      {Type: genai.TypeString, Description: "A positive amount, arithmetic like 12.5+3 is allowed."},
					"date":        {Type: genai.TypeString, Description: "YYYY-MM-DD, today if omitted."},
					"account":     {Type: genai.TypeString, Description: "The account, the first one if omitted."},
				}),
				Response: markdown("The recorded entry."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				e, err := entryOf(tr, args)
				if err != nil {
					return "", err
				}
				if err := tr.AddOrReplaceEntry(e); err != nil {
					return "", err
				}
				return recorded(tr, e), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "settle",
				Description: "Records the entry that brings the debt with a counterparty back to zero.",
				Parameters: object([]string{"name"}, map[string]*genai.Schema{
					"name":    {Type: genai.TypeString},
					"account": {Type: genai.TypeString},
				}),
				Response: markdown("The recorded settlement."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				name, _, err := stringArg(args, "name")
				if err != nil {
					return "", err
				}
				account, _, err := stringArg(args, "account")
				if err != nil {
					return "", err
				}
				e, err := tr.Settle(name, account)
				if err != nil {
					return "", err
				}
				return recorded(tr, e), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "topic",
				Description: "Reads a page of the user manual: " + strings.Join(must(docs.GetAllTopics()), ", ") + ".",
				Parameters: object([]string{"name"}, map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
				}),
				Response: markdown("The manual page."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				name, _, err := stringArg(args, "name")
				if err != nil {
					return "", err
				}
				return docs.GetTopic(name)
			},
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// withPeriod runs f with the period of args selected, then restores the previous one.
func withPeriod(tr *budget.Tracker, args map[string]any, f func()) error {
	p, ok, err := stringArg(args, "period")
	if err != nil || !ok {
		if err == nil {
			f()
		}
		return err
	}
	filter, err := budget.ParseFilter(p)
	if err != nil {
		return err
	}
	previous := tr.Filter()
	if err := tr.SetPeriodFilter(filter); err != nil {
		return err
	}
	defer tr.SetPeriodFilter(previous)
	f()
	return nil
}

func entryOf(tr *budget.Tracker, args map[string]any) (budget.Entry, error) {
	var e budget.Entry
	k, _, err := stringArg(args, "kind")
	if err != nil {
		return e, err
	}
	if e.Kind, err = budget.ParseKind(k); err != nil {
		return e, err
	}
	desc, _, err := stringArg(args, "description")
	if err != nil {
		return e, err
	}
	note, _, err := stringArg(args, "note")
	if err != nil {
		return e, err
	}
	e.Note = strings.TrimSpace(note)
	if e.Kind.IsDebt() {
		e.Description = strings.TrimSpace(desc)
	} else {
		e.Description = budget.ComposeDescription(desc, e.Note)
	}
	amount, _, err := stringArg(args, "amount")
	if err != nil {
		return e, err
	}
	if e.Amount, err = budget.Evaluate(amount); err != nil {
		return e, err
	}
	e.Date = tr.Today()
	if d, ok, err := stringArg(args, "date"); err != nil {
		return e, err
	} else if ok {
		if e.Date, err = date.Parse(d); err != nil {
			return e, err
		}
	}
	e.Account = tr.Catalog().First()
	if a, ok, err := stringArg(args, "account"); err != nil {
		return e, err
	} else if ok {
		e.Account = a
	}
	e.ID = budget.NewID()
	return e, e.Validate()
}

func recorded(tr *budget.Tracker, e budget.Entry) string {
	return fmt.Sprintf("recorded on %s: %s %q of %s on %s, id %s",
		e.Date, e.Kind.Label(), e.Description, tr.Money(e.Amount), e.Account, e.ID)
}

// stringArg returns the string argument name. ok is false when it is absent or empty.
func stringArg(args map[string]any, name string) (v string, ok bool, err error) {
	raw, present := args[name]
	if !present || raw == nil {
		return "", false, nil
	}
	v, isString := raw.(string)
	if !isString {
		return "", false, fmt.Errorf("argument %q is not a string as expected but %T", name, raw)
	}
	return v, v != "", nil
}

// intArg returns the integer argument name. JSON numbers arrive as float64.
func intArg(args map[string]any, name string) (v int, ok bool, err error) {
	switch raw := args[name].(type) {
	case nil:
		return 0, false, nil
	case float64:
		return int(raw), true, nil
	case int:
		return raw, true, nil
	default:
		return 0, false, fmt.Errorf("argument %q is not a number as expected but %T", name, raw)
	}
}

// failure is the function response reporting an error to the model.
func failure(id, name, format string, args ...any) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": fmt.Sprintf(format, args...)},
	}
}
