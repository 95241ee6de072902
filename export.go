package budget

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportColumns are the columns of the flat exports.
var ExportColumns = []string{"date", "description", "amount", "kind", "account"}

func exportRow(e Entry) []string {
	return []string{
		e.Date.String(),
		strings.ReplaceAll(e.Description, ",", ""),
		e.Amount.StringFixed(2),
		string(e.Kind),
		e.Account,
	}
}

// ExportCSV writes the entries as comma separated values, with a header line. Commas are
// stripped from descriptions.
func ExportCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(exportRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes a workbook with an "Entries" sheet holding the same columns as the CSV
// export, and a "Debts" sheet with the net position per counterparty.
func ExportXLSX(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Entries"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	// the default sheet is not used.
	_ = f.DeleteSheet("Sheet1")
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	for i, h := range ExportColumns {
		if err := write(sheet, i+1, 1, h); err != nil {
			return err
		}
	}
	for i, e := range entries {
		row := i + 2
		amount, _ := e.Amount.Float64()
		values := []any{e.Date.String(), strings.ReplaceAll(e.Description, ",", ""), amount, string(e.Kind), e.Account}
		for col, v := range values {
			if err := write(sheet, col+1, row, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", row, err)
			}
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "B", 36) // description
	_ = f.SetColWidth(sheet, "C", "C", 12) // amount
	_ = f.SetColWidth(sheet, "D", "E", 16) // kind, account

	const debts = "Debts"
	if _, err := f.NewSheet(debts); err != nil {
		return err
	}
	for i, h := range []string{"counterparty", "lent", "borrowed", "balance", "last"} {
		if err := write(debts, i+1, 1, h); err != nil {
			return err
		}
	}
	for i, d := range Debts(entries) {
		lent, _ := d.Lent.Float64()
		borrowed, _ := d.Borrowed.Float64()
		balance, _ := d.Balance.Float64()
		for col, v := range []any{d.Name, lent, borrowed, balance, d.Last.String()} {
			if err := write(debts, col+1, i+2, v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(debts, "A", "A", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
