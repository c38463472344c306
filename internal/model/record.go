// Package model defines the invoice data model shared by the parser,
// renderer and batch coordinator.
package model

import "github.com/shopspring/decimal"

// Required column names, in schema order. Row values are always fetched by
// these names; the header row in the file only supplies display labels.
const (
	ColProductID       = "product_id"
	ColProductName     = "product_name"
	ColAmountPurchased = "amount_purchased"
	ColPricePerUnit    = "price_per_unit"
	ColTotalPrice      = "total_price"
)

// RequiredColumns lists the five column names every invoice sheet must carry.
var RequiredColumns = []string{
	ColProductID,
	ColProductName,
	ColAmountPurchased,
	ColPricePerUnit,
	ColTotalPrice,
}

// ColumnCount is the fixed width of the invoice table.
const ColumnCount = 5

// LineItem is one row of purchased-product data.
type LineItem struct {
	ProductID       Scalar
	ProductName     Scalar
	AmountPurchased Scalar
	PricePerUnit    Scalar
	TotalPrice      Scalar
}

// InvoiceRecord is the parsed form of one invoice source. It lives for the
// duration of a single conversion: built by the parser, consumed by the
// renderer, then discarded.
type InvoiceRecord struct {
	InvoiceNumber string
	Date          string

	// ColumnHeaders keeps the header row in file order. Display labels come
	// from here; row values do not.
	ColumnHeaders []string

	Items []LineItem

	// Total is the sum of the total_price column. FloatTotal records whether
	// any summand had a fractional text form, which decides between "400"
	// and "400.0" in the rendered output.
	Total      decimal.Decimal
	FloatTotal bool
}
