// Package xlsx parses spreadsheet invoice sources into invoice records.
package xlsx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	money "github.com/rezonia/invoice-pdf/internal/decimal"
	"github.com/rezonia/invoice-pdf/internal/model"
)

// SheetName is the sheet every invoice workbook must carry. The lookup is
// exact: a workbook without this sheet fails to parse, it never falls back
// to another sheet.
const SheetName = "Sheet 1"

// fallbackDateLayout formats the current date as YYYYMMDD when the source
// name has no date segment.
const fallbackDateLayout = "20060102"

// Parser reads xlsx invoice sources.
type Parser struct {
	clock clockwork.Clock
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used for the fallback date. Tests use a fake
// clock to keep output deterministic.
func WithClock(c clockwork.Clock) Option {
	return func(p *Parser) {
		p.clock = c
	}
}

// NewParser creates a parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stem strips the file extension from a source name. The stem doubles as
// the output file base name.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SplitStem derives invoice number and date from a stem. The split is
// positional: segment 0 is the number, segment 1 the date, and anything
// after segment 1 is dropped. A stem without a hyphen is the number whole,
// with the date supplied by the caller.
func SplitStem(stem, fallbackDate string) (number, date string) {
	parts := strings.Split(stem, "-")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return stem, fallbackDate
}

// Parse reads one invoice source into an InvoiceRecord.
func (p *Parser) Parse(src model.Source) (*model.InvoiceRecord, error) {
	stem := Stem(src.Name)
	number, date := SplitStem(stem, p.clock.Now().Format(fallbackDateLayout))

	f, err := excelize.OpenReader(src.Reader)
	if err != nil {
		return nil, model.NewParseError(src.Name, "", "cannot read workbook", err)
	}
	defer f.Close()

	// Exact match only: excelize resolves sheet names case-insensitively,
	// but the sheet contract is case- and spacing-sensitive.
	if !hasSheet(f, SheetName) {
		return nil, model.NewParseError(src.Name, "", fmt.Sprintf("sheet %q not found", SheetName), nil)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, model.NewParseError(src.Name, "", fmt.Sprintf("cannot read sheet %q", SheetName), err)
	}
	if len(rows) == 0 {
		return nil, model.NewParseError(src.Name, "", "missing header row", nil)
	}

	header := rows[0]
	if len(header) != model.ColumnCount {
		return nil, model.NewParseError(src.Name, "",
			fmt.Sprintf("expected %d columns, found %d", model.ColumnCount, len(header)), nil)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range model.RequiredColumns {
		if _, ok := index[name]; !ok {
			return nil, model.NewParseError(src.Name, name, "required column missing", nil)
		}
	}

	rec := &model.InvoiceRecord{
		InvoiceNumber: number,
		Date:          date,
		ColumnHeaders: append([]string(nil), header...),
	}

	var totals []decimal.Decimal
	for rowNum, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		item := model.LineItem{
			ProductID:       cellAt(row, index[model.ColProductID]),
			ProductName:     cellAt(row, index[model.ColProductName]),
			AmountPurchased: cellAt(row, index[model.ColAmountPurchased]),
			PricePerUnit:    cellAt(row, index[model.ColPricePerUnit]),
			TotalPrice:      cellAt(row, index[model.ColTotalPrice]),
		}

		total, err := item.TotalPrice.Decimal()
		if err != nil {
			return nil, model.NewParseError(src.Name, model.ColTotalPrice,
				fmt.Sprintf("non-numeric value %q in row %d", item.TotalPrice.String(), rowNum+2), err)
		}
		if item.TotalPrice.Kind == model.ScalarFloat {
			rec.FloatTotal = true
		}

		totals = append(totals, total)
		rec.Items = append(rec.Items, item)
	}

	rec.Total = money.Sum(totals)
	return rec, nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// cellAt returns the scalar at a column index, treating missing trailing
// cells as empty text.
func cellAt(row []string, idx int) model.Scalar {
	if idx < len(row) {
		return model.NewScalar(row[idx])
	}
	return model.TextScalar("")
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
