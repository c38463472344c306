package batch_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rezonia/invoice-pdf/internal/batch"
	"github.com/rezonia/invoice-pdf/internal/model"
	"github.com/rezonia/invoice-pdf/internal/parser/xlsx"
	"github.com/rezonia/invoice-pdf/internal/render"
)

var invoiceHeader = []interface{}{"product_id", "product_name", "amount_purchased", "price_per_unit", "total_price"}

func newWorkbook(t *testing.T, sheet string, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func validWorkbook(t *testing.T, price int) []byte {
	return newWorkbook(t, xlsx.SheetName,
		invoiceHeader,
		[]interface{}{1, "Mouse Pad", 2, price / 2, price},
	)
}

// fixedCoordinator pins both clocks so batches are reproducible.
func fixedCoordinator() *batch.Coordinator {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	return batch.NewCoordinator(
		batch.WithParser(xlsx.NewParser(xlsx.WithClock(clock))),
		batch.WithRenderer(render.NewRenderer(render.WithClock(clock))),
	)
}

func src(name string, payload []byte) model.Source {
	return model.Source{Name: name, Reader: bytes.NewReader(payload)}
}

func TestConvert(t *testing.T) {
	sources := []model.Source{
		src("10001-20240101.xlsx", validWorkbook(t, 100)),
		src("10002-20240102.xlsx", validWorkbook(t, 200)),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", nil)

	assert.Empty(t, result.Errors)
	require.Equal(t, 2, result.Len())
	assert.Equal(t, "10001-20240101.pdf", result.Files()[0].Name)
	assert.Equal(t, "10002-20240102.pdf", result.Files()[1].Name)

	data, ok := result.Get("10001-20240101.pdf")
	assert.True(t, ok)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestConvert_CountInvariant(t *testing.T) {
	sources := []model.Source{
		src("10001-20240101.xlsx", validWorkbook(t, 100)),
		src("bad.xlsx", []byte("not a workbook")),
		src("10003-20240103.xlsx", validWorkbook(t, 300)),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", nil)

	assert.Equal(t, len(sources), result.Len()+len(result.Errors))
}

func TestConvert_FailureIsolation(t *testing.T) {
	// Source 2 lacks the expected sheet; sources 1 and 3 must still convert,
	// in order.
	sources := []model.Source{
		src("10001-20240101.xlsx", validWorkbook(t, 100)),
		src("10002-20240102.xlsx", newWorkbook(t, "Wrong Sheet", invoiceHeader)),
		src("10003-20240103.xlsx", validWorkbook(t, 300)),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", nil)

	require.Equal(t, 2, result.Len())
	assert.Equal(t, "10001-20240101.pdf", result.Files()[0].Name)
	assert.Equal(t, "10003-20240103.pdf", result.Files()[1].Name)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "10002-20240102.xlsx")
}

func TestConvert_RenderFailureIsolation(t *testing.T) {
	// A corrupt logo fails every render, but each source still gets its own
	// error entry and no partial document.
	sources := []model.Source{
		src("10001-20240101.xlsx", validWorkbook(t, 100)),
		src("10002-20240102.xlsx", validWorkbook(t, 200)),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", []byte("corrupt logo"))

	assert.Equal(t, 0, result.Len())
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "10001-20240101.xlsx")
	assert.Contains(t, result.Errors[1], "10002-20240102.xlsx")
}

func TestResult_FilesDetachedFromResult(t *testing.T) {
	sources := []model.Source{
		src("10001-20240101.xlsx", validWorkbook(t, 100)),
		src("10002-20240102.xlsx", validWorkbook(t, 200)),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", nil)
	require.Equal(t, 2, result.Len())

	files := result.Files()
	files[0] = batch.File{Name: "clobbered.pdf", Data: []byte("clobbered")}

	data, ok := result.Get("10001-20240101.pdf")
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "10001-20240101.pdf", result.Files()[0].Name)
}

func TestConvert_OverwriteOnDuplicateStem(t *testing.T) {
	first := validWorkbook(t, 100)
	second := validWorkbook(t, 999)

	sources := []model.Source{
		src("A.xlsx", first),
		src("A.xlsx", second),
	}

	result := fixedCoordinator().Convert(sources, "PythonHow", nil)

	assert.Empty(t, result.Errors)
	require.Equal(t, 1, result.Len())

	// Last write wins: the surviving document is the second source's.
	want := fixedCoordinator().Convert([]model.Source{src("A.xlsx", second)}, "PythonHow", nil)
	wantData, ok := want.Get("A.pdf")
	require.True(t, ok)
	gotData, ok := result.Get("A.pdf")
	require.True(t, ok)
	assert.Equal(t, wantData, gotData)
}

func TestConvert_Idempotent(t *testing.T) {
	payload := validWorkbook(t, 100)

	first := fixedCoordinator().Convert([]model.Source{src("INV2024.xlsx", payload)}, "PythonHow", nil)
	second := fixedCoordinator().Convert([]model.Source{src("INV2024.xlsx", payload)}, "PythonHow", nil)

	require.Equal(t, 1, first.Len())
	require.Equal(t, 1, second.Len())
	assert.Equal(t, first.Files(), second.Files())
}

func TestConvert_Empty(t *testing.T) {
	result := fixedCoordinator().Convert(nil, "PythonHow", nil)
	assert.Equal(t, 0, result.Len())
	assert.Empty(t, result.Errors)
}
