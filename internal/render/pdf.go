// Package render lays invoice records out onto single-page A4 PDF
// documents.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jonboulle/clockwork"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	money "github.com/rezonia/invoice-pdf/internal/decimal"
	"github.com/rezonia/invoice-pdf/internal/model"
)

// Fixed page geometry, in millimeters. Column widths are constants, never
// derived from content, and there is no pagination: one invoice is one page.
const (
	rowHeight     = 8
	headerCellW   = 50
	companyCellW  = 25
	logoWidth     = 10
	headerFontPt  = 16
	bodyFontPt    = 10
	fontFamily    = "Times"
	logoImageName = "company-logo"
)

var columnWidths = [model.ColumnCount]float64{30, 70, 30, 30, 30}

// Renderer produces PDF documents from invoice records.
type Renderer struct {
	clock clockwork.Clock
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the clock used for the document creation date. A fixed
// clock makes output byte-identical across runs.
func WithClock(c clockwork.Clock) Option {
	return func(r *Renderer) {
		r.clock = c
	}
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays one record out onto a portrait A4 page and returns the
// finalized PDF bytes. The logo is optional; nil means no logo. Logo bytes
// are consumed from memory, never written to disk.
func (r *Renderer) Render(rec *model.InvoiceRecord, companyName string, logo []byte) ([]byte, error) {
	if err := checkContent(rec, companyName); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.clock.Now())
	pdf.AddPage()

	// Invoice header block.
	pdf.SetFont(fontFamily, "B", headerFontPt)
	pdf.CellFormat(headerCellW, rowHeight, "Invoice nr."+rec.InvoiceNumber, "", 1, "", false, 0, "")
	pdf.CellFormat(headerCellW, rowHeight, "Date: "+rec.Date, "", 1, "", false, 0, "")

	// Table header: display labels come from the file's header order.
	pdf.SetFont(fontFamily, "B", bodyFontPt)
	pdf.SetTextColor(80, 80, 80)
	for i, raw := range rec.ColumnHeaders {
		ln := 0
		if i == len(rec.ColumnHeaders)-1 {
			ln = 1
		}
		pdf.CellFormat(columnWidths[i], rowHeight, DisplayHeader(raw), "1", ln, "", false, 0, "")
	}

	// Table body: cell values follow the fixed schema field order, not the
	// file's header order.
	pdf.SetFont(fontFamily, "", bodyFontPt)
	for _, item := range rec.Items {
		pdf.CellFormat(columnWidths[0], rowHeight, item.ProductID.String(), "1", 0, "", false, 0, "")
		pdf.CellFormat(columnWidths[1], rowHeight, item.ProductName.String(), "1", 0, "", false, 0, "")
		pdf.CellFormat(columnWidths[2], rowHeight, item.AmountPurchased.String(), "1", 0, "", false, 0, "")
		pdf.CellFormat(columnWidths[3], rowHeight, item.PricePerUnit.String(), "1", 0, "", false, 0, "")
		pdf.CellFormat(columnWidths[4], rowHeight, item.TotalPrice.String(), "1", 1, "", false, 0, "")
	}

	total := money.FormatTotal(rec.Total, rec.FloatTotal)

	// Total row: four blank cells, then the sum.
	for i := 0; i < model.ColumnCount-1; i++ {
		pdf.CellFormat(columnWidths[i], rowHeight, "", "1", 0, "", false, 0, "")
	}
	pdf.CellFormat(columnWidths[model.ColumnCount-1], rowHeight, total, "1", 1, "", false, 0, "")

	// Summary line.
	pdf.SetFont(fontFamily, "B", bodyFontPt)
	pdf.CellFormat(columnWidths[0], rowHeight, "The total price is "+total, "", 1, "", false, 0, "")

	// Footer: company name, then the logo on the same line context.
	pdf.CellFormat(companyCellW, rowHeight, companyName, "", 0, "", false, 0, "")
	if len(logo) > 0 {
		if err := r.placeLogo(pdf, logo); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewRenderError("output", "document serialization failed", err)
	}
	return buf.Bytes(), nil
}

// checkContent rejects text the document's Windows-1252 core font encoding
// cannot represent. Without this check gofpdf embeds unmappable runes as
// garbled multi-byte sequences instead of failing.
func checkContent(rec *model.InvoiceRecord, companyName string) error {
	if err := checkEncodable("invoice number", rec.InvoiceNumber); err != nil {
		return err
	}
	if err := checkEncodable("date", rec.Date); err != nil {
		return err
	}
	if err := checkEncodable("company name", companyName); err != nil {
		return err
	}
	for _, h := range rec.ColumnHeaders {
		if err := checkEncodable("column header", h); err != nil {
			return err
		}
	}
	for _, item := range rec.Items {
		for _, cell := range []model.Scalar{
			item.ProductID, item.ProductName, item.AmountPurchased,
			item.PricePerUnit, item.TotalPrice,
		} {
			if err := checkEncodable("cell", cell.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkEncodable(field, s string) error {
	if _, err := charmap.Windows1252.NewEncoder().String(s); err != nil {
		msg := fmt.Sprintf("%s %q cannot be encoded in the document character set", field, s)
		return model.NewRenderError("encoding", msg, err)
	}
	return nil
}

// placeLogo registers the logo image from memory and draws it at a fixed
// width with aspect ratio preserved.
func (r *Renderer) placeLogo(pdf *gofpdf.Fpdf, logo []byte) error {
	imgType, err := sniffImageType(logo)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader(logoImageName, opts, bytes.NewReader(logo))
	if pdf.Err() {
		return model.NewRenderError("logo", "unreadable image bytes", pdf.Error())
	}

	pdf.ImageOptions(logoImageName, pdf.GetX(), pdf.GetY(), logoWidth, 0, false, opts, 0, "")
	if pdf.Err() {
		return model.NewRenderError("logo", "image placement failed", pdf.Error())
	}
	return nil
}

// sniffImageType detects PNG or JPEG from magic bytes. Only the formats the
// upload contract allows are accepted.
func sniffImageType(data []byte) (string, error) {
	if len(data) >= 4 {
		if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
			return "PNG", nil
		}
		if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
			return "JPG", nil
		}
	}
	return "", model.NewRenderError("logo", "unsupported image format, expected PNG or JPEG", nil)
}

// DisplayHeader turns a raw column name into its table label: underscores
// become spaces and each word is title-cased.
func DisplayHeader(raw string) string {
	words := strings.Split(strings.ReplaceAll(raw, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
