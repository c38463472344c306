// Package invoicepdf provides a public API for converting spreadsheet
// invoices into single-page PDF documents.
//
// A source is an .xlsx workbook with a sheet named "Sheet 1" carrying the
// columns product_id, product_name, amount_purchased, price_per_unit and
// total_price. The source name supplies the invoice number and date
// ("<number>-<date>.xlsx") and the output file stem.
//
// Example usage:
//
//	conv := invoicepdf.NewDefaultConverter()
//	result := conv.Convert(sources)
//	for _, f := range result.Files() {
//	    os.WriteFile(f.Name, f.Data, 0o644)
//	}
package invoicepdf

import (
	"github.com/rezonia/invoice-pdf/internal/batch"
	"github.com/rezonia/invoice-pdf/internal/model"
)

// Re-export core types for public API
type (
	Source        = model.Source
	InvoiceRecord = model.InvoiceRecord
	LineItem      = model.LineItem
	Scalar        = model.Scalar
	ScalarKind    = model.ScalarKind
	File          = batch.File
	Result        = batch.Result
)

// Re-export scalar kinds
const (
	ScalarText  = model.ScalarText
	ScalarInt   = model.ScalarInt
	ScalarFloat = model.ScalarFloat
)

// Re-export error types
type (
	ParseError  = model.ParseError
	RenderError = model.RenderError
)
