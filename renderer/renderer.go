// Package renderer turns the ledger state into markdown reports.
//
// Each report has a view type, built from a budget.Tracker with all the amounts already
// formatted, and a text/template in the templates directory.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates = mustSub(templatesFS, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// RenderSummary renders the period summary, followed by the period entries.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"entries": "entries.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderEntries renders a list of entries.
func RenderEntries(l *EntryList) string {
	return renderTemplate("entries", "entries.md", nil, l)
}

// RenderDebts renders the debt book.
func RenderDebts(d *Debts) string {
	return renderTemplate("debts", "debts.md", nil, d)
}

// RenderAccounts renders the account balances.
func RenderAccounts(a *Accounts) string {
	return renderTemplate("accounts", "accounts.md", nil, a)
}

// RenderBills renders the bills of the month.
func RenderBills(b *Bills) string {
	return renderTemplate("bills", "bills.md", nil, b)
}

// RenderGoals renders the goals.
func RenderGoals(g *Goals) string {
	return renderTemplate("goals", "goals.md", nil, g)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
// The output always ends with a single newline.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
