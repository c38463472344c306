package render_test

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-pdf/internal/model"
	"github.com/rezonia/invoice-pdf/internal/render"
)

func testRecord() *model.InvoiceRecord {
	return &model.InvoiceRecord{
		InvoiceNumber: "10001",
		Date:          "20240101",
		ColumnHeaders: []string{"product_id", "product_name", "amount_purchased", "price_per_unit", "total_price"},
		Items: []model.LineItem{
			{
				ProductID:       model.NewScalar("1"),
				ProductName:     model.NewScalar("Mouse Pad"),
				AmountPurchased: model.NewScalar("2"),
				PricePerUnit:    model.NewScalar("50"),
				TotalPrice:      model.NewScalar("100"),
			},
			{
				ProductID:       model.NewScalar("2"),
				ProductName:     model.NewScalar("Keyboard"),
				AmountPurchased: model.NewScalar("1"),
				PricePerUnit:    model.NewScalar("250.5"),
				TotalPrice:      model.NewScalar("250.5"),
			},
		},
		Total:      decimal.RequireFromString("350.5"),
		FloatTotal: true,
	}
}

func fixedRenderer() *render.Renderer {
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return render.NewRenderer(render.WithClock(clockwork.NewFakeClockAt(fixed)))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func TestRender_ProducesValidPDF(t *testing.T) {
	out, err := fixedRenderer().Render(testRecord(), "PythonHow", nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.NoError(t, api.Validate(bytes.NewReader(out), nil))
}

func TestRender_WithPNGLogo(t *testing.T) {
	out, err := fixedRenderer().Render(testRecord(), "PythonHow", pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, api.Validate(bytes.NewReader(out), nil))

	plain, err := fixedRenderer().Render(testRecord(), "PythonHow", nil)
	require.NoError(t, err)
	assert.NotEqual(t, plain, out)
}

func TestRender_WithJPEGLogo(t *testing.T) {
	out, err := fixedRenderer().Render(testRecord(), "PythonHow", jpegBytes(t))
	require.NoError(t, err)
	require.NoError(t, api.Validate(bytes.NewReader(out), nil))
}

func TestRender_CorruptLogo(t *testing.T) {
	_, err := fixedRenderer().Render(testRecord(), "PythonHow", []byte("definitely not an image"))
	require.Error(t, err)

	var renderErr *model.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "logo", renderErr.Stage)
}

func TestRender_TruncatedPNG(t *testing.T) {
	// Valid magic bytes but a broken body must still fail as a RenderError.
	logo := pngBytes(t)[:12]

	_, err := fixedRenderer().Render(testRecord(), "PythonHow", logo)
	require.Error(t, err)

	var renderErr *model.RenderError
	require.True(t, errors.As(err, &renderErr))
}

func TestRender_RejectsUnencodableText(t *testing.T) {
	rec := testRecord()
	rec.Items[0].ProductName = model.TextScalar("Bàn phím cơ 日本語")

	_, err := fixedRenderer().Render(rec, "PythonHow", nil)
	require.Error(t, err)

	var renderErr *model.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "encoding", renderErr.Stage)
	assert.Contains(t, renderErr.Error(), "cannot be encoded")
}

func TestRender_RejectsUnencodableCompanyName(t *testing.T) {
	_, err := fixedRenderer().Render(testRecord(), "会社", nil)
	require.Error(t, err)

	var renderErr *model.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "encoding", renderErr.Stage)
}

func TestRender_Windows1252TextRenders(t *testing.T) {
	// Accented Latin text is inside the document character set and must
	// still render.
	rec := testRecord()
	rec.Items[0].ProductName = model.TextScalar("Café Menu — pièce")

	out, err := fixedRenderer().Render(rec, "PythonHow", nil)
	require.NoError(t, err)
	require.NoError(t, api.Validate(bytes.NewReader(out), nil))
}

func TestRender_Deterministic(t *testing.T) {
	r := fixedRenderer()

	first, err := r.Render(testRecord(), "PythonHow", nil)
	require.NoError(t, err)
	second, err := r.Render(testRecord(), "PythonHow", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_NoItems(t *testing.T) {
	rec := testRecord()
	rec.Items = nil
	rec.Total = decimal.Zero
	rec.FloatTotal = false

	out, err := fixedRenderer().Render(rec, "PythonHow", nil)
	require.NoError(t, err)
	require.NoError(t, api.Validate(bytes.NewReader(out), nil))
}

func TestDisplayHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"amount_purchased", "Amount Purchased"},
		{"product_id", "Product Id"},
		{"total_price", "Total Price"},
		{"PRICE_PER_UNIT", "Price Per Unit"},
		{"name", "Name"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, render.DisplayHeader(tt.raw))
		})
	}
}
